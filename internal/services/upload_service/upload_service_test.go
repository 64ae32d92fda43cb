package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/storage"
	filestorage "tkphotos/internal/storage/filestorage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGalleryProvider struct {
	mock.Mock
}

func (m *MockGalleryProvider) GetGalleryByID(ctx context.Context, id int64) (models.Gallery, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Gallery), args.Error(1)
}

type MockPhotoCreator struct {
	mock.Mock
}

func (m *MockPhotoCreator) CreatePhoto(ctx context.Context, photo models.Photo) (models.Photo, error) {
	args := m.Called(ctx, photo)
	return args.Get(0).(models.Photo), args.Error(1)
}

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    map[string]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, fail: map[string]error{}}
}

func (s *memoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (filestorage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail[key]; err != nil {
		return filestorage.Object{}, err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return filestorage.Object{}, err
	}
	s.objects[key] = b
	return filestorage.Object{Key: key, URL: "https://cdn.example.com/photos/" + key, Size: size}, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func candidate(name string, data []byte) Candidate {
	return Candidate{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func newService(t *testing.T, store ObjectStore, creator PhotoCreator, limits Limits) *UploadService {
	galleries := new(MockGalleryProvider)
	galleries.On("GetGalleryByID", mock.Anything, int64(7)).Return(models.Gallery{ID: 7}, nil)
	galleries.On("GetGalleryByID", mock.Anything, int64(404)).Return(models.Gallery{}, storage.ErrNotFound)

	return NewUploadService(sl.NewDiscardLogger(), galleries, store, creator, limits, 0)
}

func TestOpen_UnknownGallery(t *testing.T) {
	svc := newService(t, newMemoryStore(), new(MockPhotoCreator), DefaultLimits())

	_, err := svc.Open(context.Background(), 404)
	assert.ErrorIs(t, err, ErrGalleryNotFound)
}

func TestAddFiles_Filters(t *testing.T) {
	ctx := context.Background()
	limits := Limits{MaxFiles: 2, MaxFileSize: 1 << 10, Allowed: []string{"image/*"}}
	svc := newService(t, newMemoryStore(), new(MockPhotoCreator), limits)

	view, err := svc.Open(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, StateIdle.String(), view.State)

	img := pngBytes(t, 3, 2)
	big := append(pngBytes(t, 1, 1), make([]byte, 2<<10)...)

	view, rejected, err := svc.AddFiles(ctx, view.ID, []Candidate{
		candidate("notes.txt", []byte("plain text pretending to be a photo")),
		candidate("huge.png", big),
		candidate("a.png", img),
		candidate("b.png", img),
		candidate("c.png", img),
	})
	require.NoError(t, err)

	reasons := map[string]string{}
	for _, r := range rejected {
		reasons[r.Name] = r.Reason
	}
	assert.Contains(t, reasons["notes.txt"], storage.ErrInvalidFileType.Error())
	assert.Equal(t, storage.ErrFileTooLarge.Error(), reasons["huge.png"])
	assert.Contains(t, reasons["c.png"], "too many files")

	assert.Equal(t, StateUploaded.String(), view.State)
	require.Len(t, view.Files, 2)
	for _, f := range view.Files {
		assert.Equal(t, FileUploaded, f.Status)
		assert.Equal(t, "image/png", f.MIME)
		assert.Equal(t, 3, f.Width)
		assert.Equal(t, 2, f.Height)
	}
}

func TestPersist_PartialFailure(t *testing.T) {
	ctx := context.Background()
	creator := new(MockPhotoCreator)
	svc := newService(t, newMemoryStore(), creator, DefaultLimits())

	view, err := svc.Open(ctx, 7)
	require.NoError(t, err)

	img := pngBytes(t, 4, 4)
	view, rejected, err := svc.AddFiles(ctx, view.ID, []Candidate{
		candidate("one.png", img),
		candidate("two.png", img),
		candidate("three.png", img),
	})
	require.NoError(t, err)
	require.Empty(t, rejected)

	isFile := func(name string) interface{} {
		return mock.MatchedBy(func(p models.Photo) bool { return p.Filename == name })
	}
	creator.On("CreatePhoto", mock.Anything, isFile("one.png")).Return(models.Photo{Filename: "one.png"}, nil).Once()
	creator.On("CreatePhoto", mock.Anything, isFile("two.png")).Return(models.Photo{}, errors.New("gallery_id: violates foreign key")).Once()
	creator.On("CreatePhoto", mock.Anything, isFile("three.png")).Return(models.Photo{Filename: "three.png"}, nil).Once()

	report, err := svc.Persist(ctx, view.ID)
	require.NoError(t, err)

	assert.Len(t, report.Saved, 2)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "two.png", report.Failed[0].Name)
	assert.False(t, report.Done)
	assert.Equal(t, StatePartialFailure.String(), report.State)

	var errorsShown int
	for _, n := range report.Notifications {
		if n.Level == NotifyError {
			errorsShown++
		}
	}
	assert.Equal(t, 1, errorsShown)
	assert.Equal(t, NotifyPartial, report.Notifications[0].Level)

	// retry only touches the file that failed
	creator.On("CreatePhoto", mock.Anything, isFile("two.png")).Return(models.Photo{Filename: "two.png"}, nil).Once()

	report, err = svc.Persist(ctx, view.ID)
	require.NoError(t, err)
	assert.Len(t, report.Saved, 1)
	assert.True(t, report.Done)
	require.Len(t, report.Notifications, 1)
	assert.Equal(t, NotifySuccess, report.Notifications[0].Level)

	_, err = svc.Get(view.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	creator.AssertExpectations(t)
	creator.AssertNumberOfCalls(t, "CreatePhoto", 4)
}

func TestPersist_AllFail(t *testing.T) {
	ctx := context.Background()
	creator := new(MockPhotoCreator)
	svc := newService(t, newMemoryStore(), creator, DefaultLimits())

	view, err := svc.Open(ctx, 7)
	require.NoError(t, err)

	img := pngBytes(t, 2, 2)
	_, _, err = svc.AddFiles(ctx, view.ID, []Candidate{candidate("a.png", img), candidate("b.png", img)})
	require.NoError(t, err)

	creator.On("CreatePhoto", mock.Anything, mock.Anything).Return(models.Photo{}, errors.New("db down")).Twice()

	report, err := svc.Persist(ctx, view.ID)
	require.NoError(t, err)
	assert.Empty(t, report.Saved)
	assert.Len(t, report.Notifications, 2)
	for _, n := range report.Notifications {
		assert.Equal(t, NotifyError, n.Level)
	}
	assert.False(t, report.Done)
}

func TestPersist_KeepsMetadata(t *testing.T) {
	ctx := context.Background()
	creator := new(MockPhotoCreator)
	svc := newService(t, newMemoryStore(), creator, DefaultLimits())

	view, err := svc.Open(ctx, 7)
	require.NoError(t, err)
	_, _, err = svc.AddFiles(ctx, view.ID, []Candidate{candidate("My Photo (1).png", pngBytes(t, 5, 6))})
	require.NoError(t, err)

	creator.On("CreatePhoto", mock.Anything, models.Photo{
		Filename:   "My_Photo_1_.png",
		StorageKey: "https://cdn.example.com/photos/7/My_Photo_1_.png",
		GalleryID:  7,
		Metadata:   models.Metadata{"width": 5, "height": 6, "type": "png"},
	}).Return(models.Photo{}, nil).Once()

	report, err := svc.Persist(ctx, view.ID)
	require.NoError(t, err)
	assert.True(t, report.Done)
	creator.AssertExpectations(t)
}

func TestUpload_StoreFailureIsRetried(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.fail["7/a.png"] = errors.New("bucket unreachable")
	svc := newService(t, store, new(MockPhotoCreator), DefaultLimits())

	view, err := svc.Open(ctx, 7)
	require.NoError(t, err)

	view, _, err = svc.AddFiles(ctx, view.ID, []Candidate{candidate("a.png", pngBytes(t, 1, 1))})
	require.NoError(t, err)
	require.Len(t, view.Files, 1)
	assert.Equal(t, FileFailed, view.Files[0].Status)
	assert.Equal(t, "bucket unreachable", view.Files[0].Error)

	delete(store.fail, "7/a.png")

	view, _, err = svc.AddFiles(ctx, view.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, FileUploaded, view.Files[0].Status)
	assert.Contains(t, store.objects, "7/a.png")
}

func TestPersist_RequiresUpload(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, newMemoryStore(), new(MockPhotoCreator), DefaultLimits())

	view, err := svc.Open(ctx, 7)
	require.NoError(t, err)

	_, err = svc.Persist(ctx, view.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, newMemoryStore(), new(MockPhotoCreator), DefaultLimits())

	view, err := svc.Open(ctx, 7)
	require.NoError(t, err)
	_, _, err = svc.AddFiles(ctx, view.ID, []Candidate{candidate("a.png", pngBytes(t, 1, 1))})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(view.ID))
	assert.ErrorIs(t, svc.Cancel(view.ID), ErrSessionNotFound)

	_, err = svc.Get(view.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "partial_failure", StatePartialFailure.String())
	assert.Equal(t, "unknown", State(42).String())
}
