package maintenance

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/imageprobe"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPhotoStore struct {
	mock.Mock
}

func (m *MockPhotoStore) ScanPhotoMeta(ctx context.Context, after uuid.UUID, limit int) ([]models.PhotoMeta, error) {
	args := m.Called(ctx, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PhotoMeta), args.Error(1)
}

func (m *MockPhotoStore) UpdatePhotoMetadata(ctx context.Context, id uuid.UUID, metadata models.Metadata) error {
	args := m.Called(ctx, id, metadata)
	return args.Error(0)
}

type MockProber struct {
	mock.Mock
}

func (m *MockProber) Probe(ctx context.Context, url string) (imageprobe.Result, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(imageprobe.Result), args.Error(1)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func(context.Context) error), args.Error(1)
}

func TestConcurrency(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{0, DefaultConcurrency},
		{-3, 1},
		{1, 1},
		{7, 7},
		{50, MaxConcurrency},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Concurrency(tt.requested), "requested %d", tt.requested)
	}
}

func TestRun_MixedCatalogue(t *testing.T) {
	ctx := context.Background()
	store := new(MockPhotoStore)
	prober := new(MockProber)

	withDims1 := models.PhotoMeta{ID: uuid.New(), StorageKey: "https://cdn.example.com/a.jpg", Metadata: models.Metadata{"width": 800.0, "height": 600.0}}
	withDims2 := models.PhotoMeta{ID: uuid.New(), StorageKey: "https://cdn.example.com/b.jpg", Metadata: models.Metadata{"width": 1200, "height": 900}}
	relative := models.PhotoMeta{ID: uuid.New(), StorageKey: "galleries/1/c.jpg"}
	broken := models.PhotoMeta{ID: uuid.New(), StorageKey: "https://cdn.example.com/d.jpg"}
	fresh := models.PhotoMeta{ID: uuid.New(), StorageKey: "HTTPS://cdn.example.com/e.png", Metadata: models.Metadata{"camera": "x100"}}

	store.On("ScanPhotoMeta", mock.Anything, uuid.Nil, DefaultBatchSize).
		Return([]models.PhotoMeta{withDims1, withDims2, relative, broken, fresh}, nil).Once()
	store.On("UpdatePhotoMetadata", mock.Anything, fresh.ID, models.Metadata{
		"camera": "x100",
		"width":  640,
		"height": 480,
		"type":   "png",
	}).Return(nil).Once()

	prober.On("Probe", mock.Anything, broken.StorageKey).Return(imageprobe.Result{}, errors.New("connection reset")).Once()
	prober.On("Probe", mock.Anything, fresh.StorageKey).Return(imageprobe.Result{Width: 640, Height: 480, Type: "png"}, nil).Once()

	service := NewMetadataService(sl.NewDiscardLogger(), store, prober, nil, Config{})

	summary, err := service.Run(ctx, Options{})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 5, summary.Processed)
	assert.Equal(t, 3, summary.Skipped)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Updated)
	require.Len(t, summary.ErrorSamples, 1)
	assert.Equal(t, broken.ID.String(), summary.ErrorSamples[0].ID)
	assert.Equal(t, "connection reset", summary.ErrorSamples[0].Reason)

	store.AssertExpectations(t)
	prober.AssertExpectations(t)
}

func TestRun_ForceReprobes(t *testing.T) {
	store := new(MockPhotoStore)
	prober := new(MockProber)

	p := models.PhotoMeta{ID: uuid.New(), StorageKey: "https://cdn.example.com/a.jpg", Metadata: models.Metadata{"width": 1.0, "height": 1.0}}

	store.On("ScanPhotoMeta", mock.Anything, uuid.Nil, DefaultBatchSize).Return([]models.PhotoMeta{p}, nil).Once()
	store.On("UpdatePhotoMetadata", mock.Anything, p.ID, mock.Anything).Return(nil).Once()
	prober.On("Probe", mock.Anything, p.StorageKey).Return(imageprobe.Result{Width: 10, Height: 20, Type: "jpg"}, nil).Once()

	service := NewMetadataService(sl.NewDiscardLogger(), store, prober, nil, Config{})

	summary, err := service.Run(context.Background(), Options{Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Skipped)
}

func TestRun_EmptyProbeAndUpdateFailure(t *testing.T) {
	store := new(MockPhotoStore)
	prober := new(MockProber)

	noDims := models.PhotoMeta{ID: uuid.New(), StorageKey: "https://cdn.example.com/a.svg"}
	failing := models.PhotoMeta{ID: uuid.New(), StorageKey: "https://cdn.example.com/b.jpg"}

	store.On("ScanPhotoMeta", mock.Anything, uuid.Nil, DefaultBatchSize).Return([]models.PhotoMeta{noDims, failing}, nil).Once()
	store.On("UpdatePhotoMetadata", mock.Anything, failing.ID, mock.Anything).Return(errors.New("deadlock detected")).Once()
	prober.On("Probe", mock.Anything, noDims.StorageKey).Return(imageprobe.Result{}, nil).Once()
	prober.On("Probe", mock.Anything, failing.StorageKey).Return(imageprobe.Result{Width: 3, Height: 4, Type: "jpg"}, nil).Once()

	service := NewMetadataService(sl.NewDiscardLogger(), store, prober, nil, Config{})

	summary, err := service.Run(context.Background(), Options{Concurrency: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 0, summary.Updated)
}

func TestRun_ScansInBatches(t *testing.T) {
	store := new(MockPhotoStore)

	rows := make([]models.PhotoMeta, 5)
	for i := range rows {
		rows[i] = models.PhotoMeta{ID: uuid.New(), StorageKey: "relative/key.jpg"}
	}

	store.On("ScanPhotoMeta", mock.Anything, uuid.Nil, 2).Return(rows[0:2], nil).Once()
	store.On("ScanPhotoMeta", mock.Anything, rows[1].ID, 2).Return(rows[2:4], nil).Once()
	store.On("ScanPhotoMeta", mock.Anything, rows[3].ID, 2).Return(rows[4:], nil).Once()

	service := NewMetadataService(sl.NewDiscardLogger(), store, new(MockProber), nil, Config{BatchSize: 2})

	summary, err := service.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 5, summary.Skipped)

	store.AssertExpectations(t)
}

func TestRun_ScanFailure(t *testing.T) {
	store := new(MockPhotoStore)
	store.On("ScanPhotoMeta", mock.Anything, uuid.Nil, DefaultBatchSize).Return(nil, errors.New("relation \"photos\" does not exist")).Once()

	service := NewMetadataService(sl.NewDiscardLogger(), store, new(MockProber), nil, Config{})

	_, err := service.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchPhotos)
	assert.Contains(t, err.Error(), "failed to fetch photos: ")
}

func TestRun_LockHeld(t *testing.T) {
	locker := new(MockLocker)
	locker.On("Acquire", mock.Anything, lockName, DefaultLockTTL).Return(nil, storage.ErrLockHeld).Once()

	store := new(MockPhotoStore)
	service := NewMetadataService(sl.NewDiscardLogger(), store, new(MockProber), locker, Config{})

	_, err := service.Run(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	store.AssertNotCalled(t, "ScanPhotoMeta", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_ReleasesLock(t *testing.T) {
	var released atomic.Bool
	release := func(context.Context) error {
		released.Store(true)
		return nil
	}

	locker := new(MockLocker)
	locker.On("Acquire", mock.Anything, lockName, DefaultLockTTL).Return(release, nil).Once()

	store := new(MockPhotoStore)
	store.On("ScanPhotoMeta", mock.Anything, uuid.Nil, DefaultBatchSize).Return([]models.PhotoMeta{}, nil).Once()

	service := NewMetadataService(sl.NewDiscardLogger(), store, new(MockProber), locker, Config{})

	summary, err := service.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.NotNil(t, summary.ErrorSamples)
	assert.True(t, released.Load())
}

type slowProber struct {
	mu       sync.Mutex
	inFlight int
	peak     int
}

func (p *slowProber) Probe(ctx context.Context, url string) (imageprobe.Result, error) {
	p.mu.Lock()
	p.inFlight++
	if p.inFlight > p.peak {
		p.peak = p.inFlight
	}
	p.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	p.mu.Lock()
	p.inFlight--
	p.mu.Unlock()

	return imageprobe.Result{}, nil
}

func TestRun_BoundedPool(t *testing.T) {
	rows := make([]models.PhotoMeta, 40)
	for i := range rows {
		rows[i] = models.PhotoMeta{ID: uuid.New(), StorageKey: "https://cdn.example.com/x.jpg"}
	}

	store := new(MockPhotoStore)
	store.On("ScanPhotoMeta", mock.Anything, uuid.Nil, DefaultBatchSize).Return(rows, nil).Once()

	prober := &slowProber{}
	service := NewMetadataService(sl.NewDiscardLogger(), store, prober, nil, Config{})

	summary, err := service.Run(context.Background(), Options{Concurrency: 3})
	require.NoError(t, err)

	assert.Equal(t, 40, summary.Processed)
	assert.Equal(t, 40, summary.Skipped)
	assert.LessOrEqual(t, prober.peak, 3)
	assert.Equal(t, 0, prober.inFlight)
}
