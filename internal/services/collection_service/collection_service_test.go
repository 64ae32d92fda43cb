package services

import (
	"context"
	"errors"
	"testing"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/lib/pagination"
	"tkphotos/internal/storage"
	"tkphotos/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) CreateCollection(ctx context.Context, c models.Collection) (models.Collection, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) UpdateCollection(ctx context.Context, id int64, u models.CollectionUpdate) (models.Collection, error) {
	args := m.Called(ctx, id, u)
	return args.Get(0).(models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) DeleteCollection(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCollectionRepository) GetCollectionByID(ctx context.Context, id int64) (models.Collection, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) GetCollectionBySlug(ctx context.Context, slug string) (models.Collection, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) ListCollections(ctx context.Context, f models.CollectionFilter, w pagination.Window) ([]models.Collection, int, error) {
	args := m.Called(ctx, f, w)
	return args.Get(0).([]models.Collection), args.Int(1), args.Error(2)
}

func (m *MockCollectionRepository) AllCollections(ctx context.Context, limit int) ([]models.Collection, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) CollectionGalleries(ctx context.Context, id int64) ([]models.Gallery, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]models.Gallery), args.Error(1)
}

func (m *MockCollectionRepository) LinkGallery(ctx context.Context, collectionID, galleryID int64) error {
	return m.Called(ctx, collectionID, galleryID).Error(0)
}

func (m *MockCollectionRepository) UnlinkGallery(ctx context.Context, collectionID, galleryID int64) error {
	return m.Called(ctx, collectionID, galleryID).Error(0)
}

type MockGalleryProvider struct {
	mock.Mock
}

func (m *MockGalleryProvider) GetGalleryByID(ctx context.Context, id int64) (models.Gallery, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Gallery), args.Error(1)
}

type baseURL string

func (b baseURL) PublicURL(key string) string { return string(b) + "/" + key }

var ctx = context.Background()

func newService() (*CollectionService, *MockCollectionRepository, *MockGalleryProvider) {
	repo := new(MockCollectionRepository)
	galleries := new(MockGalleryProvider)
	return NewCollectionService(sl.NewDiscardLogger(), repo, galleries, baseURL("https://s3.example.com/photos")), repo, galleries
}

func TestCollectionService_CreateCollection(t *testing.T) {
	service, repo, _ := newService()

	repo.On("CreateCollection", ctx, mock.MatchedBy(func(c models.Collection) bool {
		return c.Slug == "weddings-2024" && c.Description == nil
	})).Return(models.Collection{ID: 1, Slug: "weddings-2024"}, nil).Once()
	repo.On("CreateCollection", ctx, mock.Anything).Return(models.Collection{}, storage.ErrAlreadyExists).Once()

	c, err := service.CreateCollection(ctx, dto.CreateCollectionRequest{Name: "Weddings 2024", Description: "  "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)

	_, err = service.CreateCollection(ctx, dto.CreateCollectionRequest{Name: "Weddings 2024"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCollectionService_UpdateCollection(t *testing.T) {
	service, repo, _ := newService()

	_, err := service.UpdateCollection(ctx, 1, dto.UpdateCollectionRequest{})
	assert.ErrorIs(t, err, ErrNoChanges)

	name := "Sport"
	repo.On("UpdateCollection", ctx, int64(5), models.CollectionUpdate{Name: &name}).Return(models.Collection{}, storage.ErrNotFound)

	_, err = service.UpdateCollection(ctx, 5, dto.UpdateCollectionRequest{Name: &name})
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestCollectionService_LinkGallery(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(repo *MockCollectionRepository, galleries *MockGalleryProvider)
		wantErr   error
	}{
		{
			name: "linked",
			mockSetup: func(repo *MockCollectionRepository, galleries *MockGalleryProvider) {
				repo.On("GetCollectionByID", ctx, int64(1)).Return(models.Collection{ID: 1}, nil)
				galleries.On("GetGalleryByID", ctx, int64(2)).Return(models.Gallery{ID: 2}, nil)
				repo.On("LinkGallery", ctx, int64(1), int64(2)).Return(nil)
			},
		},
		{
			name: "collection missing",
			mockSetup: func(repo *MockCollectionRepository, galleries *MockGalleryProvider) {
				repo.On("GetCollectionByID", ctx, int64(1)).Return(models.Collection{}, storage.ErrNotFound)
			},
			wantErr: ErrCollectionNotFound,
		},
		{
			name: "gallery missing",
			mockSetup: func(repo *MockCollectionRepository, galleries *MockGalleryProvider) {
				repo.On("GetCollectionByID", ctx, int64(1)).Return(models.Collection{ID: 1}, nil)
				galleries.On("GetGalleryByID", ctx, int64(2)).Return(models.Gallery{}, storage.ErrNotFound)
			},
			wantErr: ErrGalleryNotFound,
		},
		{
			name: "duplicate",
			mockSetup: func(repo *MockCollectionRepository, galleries *MockGalleryProvider) {
				repo.On("GetCollectionByID", ctx, int64(1)).Return(models.Collection{ID: 1}, nil)
				galleries.On("GetGalleryByID", ctx, int64(2)).Return(models.Gallery{ID: 2}, nil)
				repo.On("LinkGallery", ctx, int64(1), int64(2)).Return(storage.ErrAlreadyExists)
			},
			wantErr: ErrAlreadyLinked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, galleries := newService()
			tt.mockSetup(repo, galleries)

			err := service.LinkGallery(ctx, 1, 2)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestCollectionService_UnlinkGallery(t *testing.T) {
	service, repo, _ := newService()
	repo.On("UnlinkGallery", ctx, int64(1), int64(2)).Return(nil).Once()
	repo.On("UnlinkGallery", ctx, int64(1), int64(3)).Return(storage.ErrNotFound).Once()

	require.NoError(t, service.UnlinkGallery(ctx, 1, 2))
	assert.ErrorIs(t, service.UnlinkGallery(ctx, 1, 3), ErrNotLinked)
}

func TestCollectionService_WithGalleries(t *testing.T) {
	service, repo, _ := newService()

	cover := "9/cover.jpg"
	repo.On("GetCollectionBySlug", ctx, "weddings").Return(models.Collection{ID: 4, Slug: "weddings"}, nil)
	repo.On("CollectionGalleries", ctx, int64(4)).Return([]models.Gallery{
		{ID: 9, AccessKey: "hidden-key-1", CoverImage: &cover},
		{ID: 3},
	}, nil)

	got, err := service.WithGalleries(ctx, "weddings")
	require.NoError(t, err)
	require.Len(t, got.Galleries, 2)
	assert.Equal(t, int64(9), got.Galleries[0].ID)
	assert.Empty(t, got.Galleries[0].AccessKey)
	assert.Equal(t, "https://s3.example.com/photos/9/cover.jpg", *got.Galleries[0].CoverImage)
	assert.Equal(t, "9/cover.jpg", cover)
}

func TestCollectionService_Listing(t *testing.T) {
	service, repo, _ := newService()

	repo.On("AllCollections", ctx, MaxAllLimit).Return([]models.Collection{}, nil).Once()
	_, err := service.AllCollections(ctx, 10_000)
	require.NoError(t, err)

	repo.On("ListCollections", ctx, mock.Anything, mock.Anything).Return([]models.Collection(nil), 0, errors.New("timeout")).Once()
	page := service.ListCollections(ctx, dto.ListCollectionsQuery{})
	assert.Equal(t, "failed to load collections", page.Error)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	repo.AssertExpectations(t)
}
