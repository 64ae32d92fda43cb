package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/lib/pagination"
	"tkphotos/internal/lib/slug"
	"tkphotos/internal/lib/validation"
	"tkphotos/internal/storage"
	"tkphotos/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGalleryRepository struct {
	mock.Mock
}

func (m *MockGalleryRepository) CreateGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, error) {
	args := m.Called(ctx, gallery)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) UpdateGallery(ctx context.Context, id int64, update models.GalleryUpdate) (models.Gallery, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) DeleteGallery(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGalleryRepository) GetGalleryByID(ctx context.Context, id int64) (models.Gallery, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) GetGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) ListGalleries(ctx context.Context, filter models.GalleryFilter, window pagination.Window) ([]models.Gallery, int, error) {
	args := m.Called(ctx, filter, window)
	return args.Get(0).([]models.Gallery), args.Int(1), args.Error(2)
}

func (m *MockGalleryRepository) GalleryFeed(ctx context.Context, publicOnly bool, after *models.Cursor, fetch int) ([]models.Gallery, error) {
	args := m.Called(ctx, publicOnly, after, fetch)
	return args.Get(0).([]models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) RecentPublicGalleries(ctx context.Context, limit int) ([]models.Gallery, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Gallery), args.Error(1)
}

type MockPhotoLister struct {
	mock.Mock
}

func (m *MockPhotoLister) GalleryPhotos(ctx context.Context, galleryID int64, limit int) ([]models.Photo, error) {
	args := m.Called(ctx, galleryID, limit)
	return args.Get(0).([]models.Photo), args.Error(1)
}

func (m *MockPhotoLister) PhotosForGalleries(ctx context.Context, galleryIDs []int64, perGallery int) ([]models.Photo, error) {
	args := m.Called(ctx, galleryIDs, perGallery)
	return args.Get(0).([]models.Photo), args.Error(1)
}

type staticURLs struct{}

func (staticURLs) PublicURL(key string) string { return "https://s3.example.com/photos/" + key }

var testCtx = context.Background()

func newTestService() (*GalleryService, *MockGalleryRepository, *MockPhotoLister) {
	repo := new(MockGalleryRepository)
	photos := new(MockPhotoLister)
	return NewGalleryService(sl.NewDiscardLogger(), repo, photos, staticURLs{}), repo, photos
}

func TestGalleryService_CreateGallery(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateGalleryRequest
		mockSetup func(repo *MockGalleryRepository)
		wantSlug  string
		wantErr   error
	}{
		{
			name: "slug and access key generated",
			req:  dto.CreateGalleryRequest{Title: "My Photo Gallery!!", IsPublic: true},
			mockSetup: func(repo *MockGalleryRepository) {
				repo.On("CreateGallery", testCtx, mock.MatchedBy(func(g models.Gallery) bool {
					return g.Slug == "my-photo-gallery" && slug.AccessKeyPattern.MatchString(g.AccessKey) && len(g.AccessKey) == 12
				})).Return(models.Gallery{ID: 1, Slug: "my-photo-gallery"}, nil).Once()
			},
			wantSlug: "my-photo-gallery",
		},
		{
			name: "explicit slug wins",
			req:  dto.CreateGalleryRequest{Title: "Wedding", Slug: "anna-and-ben", AccessKey: "abcDEF123", EventDate: "2024-06-01"},
			mockSetup: func(repo *MockGalleryRepository) {
				repo.On("CreateGallery", testCtx, mock.MatchedBy(func(g models.Gallery) bool {
					return g.Slug == "anna-and-ben" && g.AccessKey == "abcDEF123" &&
						g.EventDate != nil && g.EventDate.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
				})).Return(models.Gallery{ID: 2, Slug: "anna-and-ben"}, nil).Once()
			},
			wantSlug: "anna-and-ben",
		},
		{
			name: "duplicate slug",
			req:  dto.CreateGalleryRequest{Title: "Wedding"},
			mockSetup: func(repo *MockGalleryRepository) {
				repo.On("CreateGallery", testCtx, mock.Anything).Return(models.Gallery{}, storage.ErrAlreadyExists).Once()
			},
			wantErr: ErrSlugTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := newTestService()
			tt.mockSetup(repo)

			got, err := service.CreateGallery(testCtx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, got.Slug)
			repo.AssertExpectations(t)
		})
	}
}

func TestGalleryService_CreateGallery_UnsluggableTitle(t *testing.T) {
	service, repo, _ := newTestService()

	_, err := service.CreateGallery(testCtx, dto.CreateGalleryRequest{Title: "!!!"})

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "slug")
	repo.AssertNotCalled(t, "CreateGallery", mock.Anything, mock.Anything)
}

func TestGalleryService_UpdateGallery(t *testing.T) {
	service, repo, _ := newTestService()

	_, err := service.UpdateGallery(testCtx, 1, dto.UpdateGalleryRequest{})
	assert.ErrorIs(t, err, ErrNoChanges)

	title := "Renamed"
	repo.On("UpdateGallery", testCtx, int64(1), models.GalleryUpdate{Title: &title}).
		Return(models.Gallery{ID: 1, Title: title}, nil).Once()
	repo.On("UpdateGallery", testCtx, int64(2), mock.Anything).
		Return(models.Gallery{}, storage.ErrNotFound).Once()

	got, err := service.UpdateGallery(testCtx, 1, dto.UpdateGalleryRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)

	_, err = service.UpdateGallery(testCtx, 2, dto.UpdateGalleryRequest{Title: &title})
	assert.ErrorIs(t, err, ErrGalleryNotFound)
}

func TestGalleryService_ListGalleries(t *testing.T) {
	t.Run("defaults and page metadata", func(t *testing.T) {
		service, repo, _ := newTestService()

		w := pagination.Normalize(2, DefaultPageSize, MaxPageSize)
		cover := "covers/one.jpg"
		repo.On("ListGalleries", testCtx, models.GalleryFilter{Search: "wed", PublicOnly: true}, w).
			Return([]models.Gallery{{ID: 1, CoverImage: &cover}}, 41, nil).Once()

		page := service.ListGalleries(testCtx, dto.ListGalleriesQuery{Page: 2, Search: "wed", PublicOnly: true})

		assert.Equal(t, 41, page.Total)
		assert.Equal(t, 3, page.PageCount)
		assert.True(t, page.HasMore)
		assert.Empty(t, page.Error)
		assert.Equal(t, "https://s3.example.com/photos/covers/one.jpg", *page.Data[0].CoverImage)
	})

	t.Run("page size clamped", func(t *testing.T) {
		service, repo, _ := newTestService()

		w := pagination.Normalize(1, MaxPageSize, MaxPageSize)
		repo.On("ListGalleries", testCtx, mock.Anything, w).Return([]models.Gallery{}, 0, nil).Once()

		page := service.ListGalleries(testCtx, dto.ListGalleriesQuery{PageSize: 5000})
		assert.Equal(t, MaxPageSize, page.PageSize)
		assert.Equal(t, 0, page.PageCount)
		assert.False(t, page.HasMore)
	})

	t.Run("store failure yields empty page", func(t *testing.T) {
		service, repo, _ := newTestService()

		repo.On("ListGalleries", testCtx, mock.Anything, mock.Anything).
			Return([]models.Gallery(nil), 0, errors.New("connection refused")).Once()

		page := service.ListGalleries(testCtx, dto.ListGalleriesQuery{Page: 3})
		assert.Empty(t, page.Data)
		assert.NotNil(t, page.Data)
		assert.Equal(t, 3, page.Page)
		assert.Equal(t, 0, page.Total)
		assert.False(t, page.HasMore)
		assert.NotEmpty(t, page.Error)
	})
}

func TestGalleryService_Feed(t *testing.T) {
	service, repo, _ := newTestService()

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.Gallery{
		{ID: 9, CreatedAt: ts},
		{ID: 8, CreatedAt: ts},
		{ID: 7, CreatedAt: ts.Add(-time.Hour)},
	}
	repo.On("GalleryFeed", testCtx, true, (*models.Cursor)(nil), 3).Return(rows, nil).Once()

	page, err := service.Feed(testCtx, true, dto.FeedQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.True(t, page.HasMore)

	c, err := pagination.Decode(page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, int64(8), c.ID)
	assert.True(t, c.CreatedAt.Equal(ts))

	_, err = service.Feed(testCtx, true, dto.FeedQuery{Cursor: "%%%not-a-cursor"})
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)

	repo.On("GalleryFeed", testCtx, false, mock.Anything, DefaultFeedLimit+1).Return([]models.Gallery(nil), errors.New("timeout")).Once()
	page, err = service.Feed(testCtx, false, dto.FeedQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.False(t, page.HasMore)
	assert.NotEmpty(t, page.Error)
}

func TestGalleryService_Homepage(t *testing.T) {
	service, repo, photos := newTestService()

	repo.On("RecentPublicGalleries", testCtx, DefaultHomepageLimit).Return([]models.Gallery{
		{ID: 3, AccessKey: "secretKey1"},
		{ID: 2, AccessKey: "secretKey2"},
	}, nil).Once()
	photos.On("PhotosForGalleries", testCtx, []int64{3, 2}, DefaultPhotosPerGallery).Return([]models.Photo{
		{GalleryID: 3, StorageKey: "3/a.jpg"},
	}, nil).Once()

	out, err := service.Homepage(testCtx, dto.HomepageQuery{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Empty(t, out[0].AccessKey)
	require.Len(t, out[0].Photos, 1)
	assert.Equal(t, "https://s3.example.com/photos/3/a.jpg", out[0].Photos[0].URL)
	assert.Empty(t, out[1].Photos)
	assert.NotNil(t, out[1].Photos)

	zero := 0
	repo.On("RecentPublicGalleries", testCtx, MaxHomepageLimit).Return([]models.Gallery{}, nil).Once()
	photos.On("PhotosForGalleries", testCtx, []int64{}, 0).Return([]models.Photo{}, nil).Once()

	out, err = service.Homepage(testCtx, dto.HomepageQuery{Limit: 99, PhotosPerGallery: &zero})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGalleryService_OpenGallery(t *testing.T) {
	private := models.Gallery{ID: 5, Slug: "private-event", AccessKey: "Key123456789"}
	public := models.Gallery{ID: 6, Slug: "open-day", AccessKey: "OtherKey1234", IsPublic: true}

	tests := []struct {
		name    string
		gallery models.Gallery
		key     string
		granted bool
		wantErr error
	}{
		{name: "public needs no key", gallery: public},
		{name: "private with key", gallery: private, key: "Key123456789"},
		{name: "private granted by session", gallery: private, granted: true},
		{name: "private wrong key", gallery: private, key: "Key12345678X", wantErr: ErrAccessDenied},
		{name: "private no key", gallery: private, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, photos := newTestService()
			repo.On("GetGalleryBySlug", testCtx, tt.gallery.Slug).Return(tt.gallery, nil).Once()
			photos.On("GalleryPhotos", testCtx, tt.gallery.ID, DefaultGalleryPhotos).
				Return([]models.Photo{{StorageKey: "https://cdn.example.com/x.jpg"}}, nil).Maybe()

			got, err := service.OpenGallery(testCtx, tt.gallery.Slug, tt.key, tt.granted, 0)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				photos.AssertNotCalled(t, "GalleryPhotos", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, got.AccessKey)
			assert.Equal(t, "https://cdn.example.com/x.jpg", got.Photos[0].URL)
		})
	}

	t.Run("unknown slug", func(t *testing.T) {
		service, repo, _ := newTestService()
		repo.On("GetGalleryBySlug", testCtx, "missing").Return(models.Gallery{}, storage.ErrNotFound).Once()

		_, err := service.OpenGallery(testCtx, "missing", "", false, 0)
		assert.ErrorIs(t, err, ErrGalleryNotFound)
	})
}

func TestGalleryService_NewAccessKey(t *testing.T) {
	service, _, _ := newTestService()

	for _, tt := range []struct{ in, want int }{{0, 12}, {3, 6}, {20, 20}, {500, 64}} {
		key, err := service.NewAccessKey(tt.in)
		require.NoError(t, err)
		assert.Len(t, key, tt.want)
		assert.Regexp(t, slug.AccessKeyPattern, key)
	}
}
