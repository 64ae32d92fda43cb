package repository

import (
	"context"
	"fmt"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/pagination"
	"tkphotos/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"
)

const photosTable = "photos"

var photoColumns = []string{
	"id",
	"filename",
	"storage_key",
	"gallery_id",
	"caption",
	"is_featured",
	"metadata",
	"created_at",
}

type PhotoRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewPhotoRepo(db *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{
		db: db,
		sb: statementBuilder(),
	}
}

func scanPhoto(row scanner, extra ...interface{}) (models.Photo, error) {
	var p models.Photo
	dest := []interface{}{
		&p.ID,
		&p.Filename,
		&p.StorageKey,
		&p.GalleryID,
		&p.Caption,
		&p.IsFeatured,
		&p.Metadata,
		&p.CreatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return p, err
}

func (r *PhotoRepo) CreatePhoto(ctx context.Context, photo models.Photo) (models.Photo, error) {
	const op = "repository.PhotoRepo.CreatePhoto"

	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}

	query, args, err := r.sb.Insert(photosTable).
		Columns(
			"id",
			"filename",
			"storage_key",
			"gallery_id",
			"caption",
			"is_featured",
			"metadata",
		).
		Values(
			photo.ID,
			photo.Filename,
			photo.StorageKey,
			photo.GalleryID,
			photo.Caption,
			photo.IsFeatured,
			photo.Metadata,
		).
		Suffix("RETURNING " + joinColumns(photoColumns)).
		ToSql()
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanPhoto(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return created, nil
}

func (r *PhotoRepo) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	const op = "repository.PhotoRepo.DeletePhoto"

	query, args, err := r.sb.Delete(photosTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (r *PhotoRepo) GetPhotoByID(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	const op = "repository.PhotoRepo.GetPhotoByID"

	query, args, err := r.sb.Select(photoColumns...).
		From(photosTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := scanPhoto(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return p, nil
}

func (r *PhotoRepo) ToggleFeatured(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	const op = "repository.PhotoRepo.ToggleFeatured"

	query, args, err := r.sb.Update(photosTable).
		Set("is_featured", squirrel.Expr("NOT is_featured")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(photoColumns)).
		ToSql()
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := scanPhoto(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return p, nil
}

func (r *PhotoRepo) ListPhotos(ctx context.Context, filter models.PhotoFilter, window pagination.Window) ([]models.Photo, int, error) {
	const op = "repository.PhotoRepo.ListPhotos"

	query, args, err := photoListQuery(r.sb, filter, window).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	photos := make([]models.Photo, 0, window.PageSize)
	total := 0
	for rows.Next() {
		p, err := scanPhoto(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan: %w", op, err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	if len(photos) == 0 && window.From > 0 {
		q, a, err := applyPhotoFilter(r.sb.Select("count(*)").From(photosTable), filter).ToSql()
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		if err := r.db.QueryRow(ctx, q, a...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("%s: count: %w", op, err)
		}
	}

	return photos, total, nil
}

func applyPhotoFilter(q squirrel.SelectBuilder, filter models.PhotoFilter) squirrel.SelectBuilder {
	if filter.GalleryID > 0 {
		q = q.Where(squirrel.Eq{"gallery_id": filter.GalleryID})
	}
	if filter.FeaturedOnly {
		q = q.Where(squirrel.Eq{"is_featured": true})
	}
	if term, ok := pagination.Search(filter.Search); ok {
		pattern := pagination.Contains(term)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"filename": pattern},
			squirrel.ILike{"caption": pattern},
		})
	}
	return q
}

func photoListQuery(sb squirrel.StatementBuilderType, filter models.PhotoFilter, window pagination.Window) squirrel.SelectBuilder {
	q := sb.Select(append(append([]string{}, photoColumns...), "count(*) OVER() AS total_count")...).
		From(photosTable)
	q = applyPhotoFilter(q, filter)

	dir := direction(filter.Ascending)
	if filter.OrderBy == models.PhotoOrderFilename {
		q = q.OrderBy("filename "+dir, "id "+dir)
	} else {
		q = q.OrderBy("created_at "+dir, "id "+dir)
	}

	return q.Limit(window.Limit()).Offset(window.Offset())
}

func (r *PhotoRepo) GalleryPhotos(ctx context.Context, galleryID int64, limit int) ([]models.Photo, error) {
	const op = "repository.PhotoRepo.GalleryPhotos"

	query, args, err := r.sb.Select(photoColumns...).
		From(photosTable).
		Where(squirrel.Eq{"gallery_id": galleryID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	photos, err := r.queryPhotos(ctx, query, args, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

// PhotosForGalleries returns the newest perGallery photos of each gallery in one query.
func (r *PhotoRepo) PhotosForGalleries(ctx context.Context, galleryIDs []int64, perGallery int) ([]models.Photo, error) {
	const op = "repository.PhotoRepo.PhotosForGalleries"

	if len(galleryIDs) == 0 || perGallery <= 0 {
		return []models.Photo{}, nil
	}

	query, args, err := photosForGalleriesQuery(r.sb, galleryIDs, perGallery).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	photos, err := r.queryPhotos(ctx, query, args, len(galleryIDs)*perGallery)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

func photosForGalleriesQuery(sb squirrel.StatementBuilderType, galleryIDs []int64, perGallery int) squirrel.SelectBuilder {
	ranked := sb.Select(append(append([]string{}, photoColumns...),
		"row_number() OVER (PARTITION BY gallery_id ORDER BY created_at DESC, id DESC) AS rn")...).
		From(photosTable).
		Where("gallery_id = ANY(?)", pq.Array(galleryIDs))

	return sb.Select(photoColumns...).
		FromSelect(ranked, "ranked").
		Where(squirrel.LtOrEq{"rn": perGallery}).
		OrderBy("gallery_id DESC", "rn")
}

func (r *PhotoRepo) FeaturedPhotos(ctx context.Context, limit int) ([]models.Photo, error) {
	const op = "repository.PhotoRepo.FeaturedPhotos"

	query, args, err := r.sb.Select(photoColumns...).
		From(photosTable).
		Where(squirrel.Eq{"is_featured": true}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	photos, err := r.queryPhotos(ctx, query, args, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

func (r *PhotoRepo) ScanPhotoMeta(ctx context.Context, after uuid.UUID, limit int) ([]models.PhotoMeta, error) {
	const op = "repository.PhotoRepo.ScanPhotoMeta"

	query, args, err := r.sb.Select("id", "storage_key", "metadata").
		From(photosTable).
		Where(squirrel.Gt{"id": after}).
		OrderBy("id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	batch := make([]models.PhotoMeta, 0, limit)
	for rows.Next() {
		var p models.PhotoMeta
		if err := rows.Scan(&p.ID, &p.StorageKey, &p.Metadata); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		batch = append(batch, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return batch, nil
}

func (r *PhotoRepo) UpdatePhotoMetadata(ctx context.Context, id uuid.UUID, metadata models.Metadata) error {
	const op = "repository.PhotoRepo.UpdatePhotoMetadata"

	query, args, err := r.sb.Update(photosTable).
		Set("metadata", metadata).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (r *PhotoRepo) queryPhotos(ctx context.Context, query string, args []interface{}, capacity int) ([]models.Photo, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]models.Photo, 0, capacity)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		photos = append(photos, p)
	}

	return photos, rows.Err()
}
