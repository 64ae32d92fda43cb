package repository

import (
	"context"
	"fmt"
	"strings"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/pagination"
	"tkphotos/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

const galleriesTable = "galleries"

var galleryColumns = []string{
	"id",
	"title",
	"slug",
	"description",
	"access_key",
	"is_public",
	"event_date",
	"cover_image",
	"created_at",
}

type GalleryRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewGalleryRepo(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: statementBuilder(),
	}
}

func scanGallery(row scanner, extra ...interface{}) (models.Gallery, error) {
	var g models.Gallery
	dest := []interface{}{
		&g.ID,
		&g.Title,
		&g.Slug,
		&g.Description,
		&g.AccessKey,
		&g.IsPublic,
		&g.EventDate,
		&g.CoverImage,
		&g.CreatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return g, err
}

// CreateGallery inserts a gallery and returns the stored row.
func (r *GalleryRepo) CreateGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, error) {
	const op = "repository.GalleryRepo.CreateGallery"

	query, args, err := r.sb.Insert(galleriesTable).
		Columns(
			"title",
			"slug",
			"description",
			"access_key",
			"is_public",
			"event_date",
			"cover_image",
		).
		Values(
			gallery.Title,
			gallery.Slug,
			gallery.Description,
			gallery.AccessKey,
			gallery.IsPublic,
			gallery.EventDate,
			gallery.CoverImage,
		).
		Suffix("RETURNING " + joinColumns(galleryColumns)).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return created, nil
}

// UpdateGallery writes only the fields present in update.
func (r *GalleryRepo) UpdateGallery(ctx context.Context, id int64, update models.GalleryUpdate) (models.Gallery, error) {
	const op = "repository.GalleryRepo.UpdateGallery"

	query, args, err := galleryUpdateQuery(r.sb, id, update).ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return updated, nil
}

func galleryUpdateQuery(sb squirrel.StatementBuilderType, id int64, u models.GalleryUpdate) squirrel.UpdateBuilder {
	q := sb.Update(galleriesTable)
	if u.Title != nil {
		q = q.Set("title", *u.Title)
	}
	if u.Slug != nil {
		q = q.Set("slug", *u.Slug)
	}
	if u.Description != nil {
		q = q.Set("description", *u.Description)
	}
	if u.AccessKey != nil {
		q = q.Set("access_key", *u.AccessKey)
	}
	if u.IsPublic != nil {
		q = q.Set("is_public", *u.IsPublic)
	}
	if u.EventDate != nil {
		q = q.Set("event_date", *u.EventDate)
	}
	if u.CoverImage != nil {
		q = q.Set("cover_image", *u.CoverImage)
	}

	return q.Where(squirrel.Eq{"id": id}).Suffix("RETURNING " + joinColumns(galleryColumns))
}

func (r *GalleryRepo) DeleteGallery(ctx context.Context, id int64) error {
	const op = "repository.GalleryRepo.DeleteGallery"

	query, args, err := r.sb.Delete(galleriesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (r *GalleryRepo) GetGalleryByID(ctx context.Context, id int64) (models.Gallery, error) {
	const op = "repository.GalleryRepo.GetGalleryByID"

	return r.getOne(ctx, op, squirrel.Eq{"id": id})
}

func (r *GalleryRepo) GetGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error) {
	const op = "repository.GalleryRepo.GetGalleryBySlug"

	return r.getOne(ctx, op, squirrel.Eq{"slug": slug})
}

func (r *GalleryRepo) getOne(ctx context.Context, op string, where squirrel.Eq) (models.Gallery, error) {
	query, args, err := r.sb.Select(galleryColumns...).
		From(galleriesTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	g, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return g, nil
}

// ListGalleries returns one offset window and the exact number of matching rows.
func (r *GalleryRepo) ListGalleries(ctx context.Context, filter models.GalleryFilter, window pagination.Window) ([]models.Gallery, int, error) {
	const op = "repository.GalleryRepo.ListGalleries"

	query, args, err := galleryListQuery(r.sb, filter, window).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	galleries := make([]models.Gallery, 0, window.PageSize)
	total := 0
	for rows.Next() {
		g, err := scanGallery(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan: %w", op, err)
		}
		galleries = append(galleries, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	if len(galleries) == 0 && window.From > 0 {
		total, err = r.countGalleries(ctx, filter)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	return galleries, total, nil
}

func (r *GalleryRepo) countGalleries(ctx context.Context, filter models.GalleryFilter) (int, error) {
	query, args, err := applyGalleryFilter(r.sb.Select("count(*)").From(galleriesTable), filter).ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func applyGalleryFilter(q squirrel.SelectBuilder, filter models.GalleryFilter) squirrel.SelectBuilder {
	if filter.PublicOnly {
		q = q.Where(squirrel.Eq{"is_public": true})
	}
	if term, ok := pagination.Search(filter.Search); ok {
		pattern := pagination.Contains(term)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"slug": pattern},
		})
	}
	return q
}

func galleryListQuery(sb squirrel.StatementBuilderType, filter models.GalleryFilter, window pagination.Window) squirrel.SelectBuilder {
	q := sb.Select(append(append([]string{}, galleryColumns...), "count(*) OVER() AS total_count")...).
		From(galleriesTable)
	q = applyGalleryFilter(q, filter)

	dir := direction(filter.Ascending)
	switch filter.OrderBy {
	case models.GalleryOrderEventDate:
		q = q.OrderBy("event_date "+dir+" NULLS LAST", "id "+dir)
	case models.GalleryOrderTitle:
		q = q.OrderBy("title "+dir, "id "+dir)
	default:
		q = q.OrderBy("created_at "+dir, "id "+dir)
	}

	return q.Limit(window.Limit()).Offset(window.Offset())
}

// GalleryFeed is the keyset variant ordered by (created_at DESC, id DESC).
func (r *GalleryRepo) GalleryFeed(ctx context.Context, publicOnly bool, after *models.Cursor, fetch int) ([]models.Gallery, error) {
	const op = "repository.GalleryRepo.GalleryFeed"

	query, args, err := galleryFeedQuery(r.sb, publicOnly, after, fetch).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	galleries, err := r.queryGalleries(ctx, query, args, fetch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return galleries, nil
}

func galleryFeedQuery(sb squirrel.StatementBuilderType, publicOnly bool, after *models.Cursor, fetch int) squirrel.SelectBuilder {
	q := sb.Select(galleryColumns...).From(galleriesTable)
	if publicOnly {
		q = q.Where(squirrel.Eq{"is_public": true})
	}
	if after != nil {
		q = q.Where(keysetBefore(*after))
	}

	return q.OrderBy("created_at DESC", "id DESC").Limit(uint64(fetch))
}

// keysetBefore selects rows strictly after c under (created_at DESC, id DESC).
func keysetBefore(c models.Cursor) squirrel.Sqlizer {
	return squirrel.Or{
		squirrel.Lt{"created_at": c.CreatedAt},
		squirrel.And{
			squirrel.Eq{"created_at": c.CreatedAt},
			squirrel.Lt{"id": c.ID},
		},
	}
}

func (r *GalleryRepo) RecentPublicGalleries(ctx context.Context, limit int) ([]models.Gallery, error) {
	const op = "repository.GalleryRepo.RecentPublicGalleries"

	query, args, err := r.sb.Select(galleryColumns...).
		From(galleriesTable).
		Where(squirrel.Eq{"is_public": true}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	galleries, err := r.queryGalleries(ctx, query, args, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return galleries, nil
}

func (r *GalleryRepo) queryGalleries(ctx context.Context, query string, args []interface{}, capacity int) ([]models.Gallery, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	galleries := make([]models.Gallery, 0, capacity)
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		galleries = append(galleries, g)
	}

	return galleries, rows.Err()
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
