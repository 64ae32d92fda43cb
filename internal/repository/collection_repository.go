package repository

import (
	"context"
	"fmt"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/pagination"
	"tkphotos/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	collectionsTable       = "collections"
	collectionGalleryTable = "collection_galleries"
)

var collectionColumns = []string{
	"id",
	"name",
	"slug",
	"description",
	"created_at",
}

type CollectionRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewCollectionRepo(db *pgxpool.Pool) *CollectionRepo {
	return &CollectionRepo{
		db: db,
		sb: statementBuilder(),
	}
}

func scanCollection(row scanner, extra ...interface{}) (models.Collection, error) {
	var c models.Collection
	dest := []interface{}{&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt}
	err := row.Scan(append(dest, extra...)...)
	return c, err
}

func (r *CollectionRepo) CreateCollection(ctx context.Context, collection models.Collection) (models.Collection, error) {
	const op = "repository.CollectionRepo.CreateCollection"

	query, args, err := r.sb.Insert(collectionsTable).
		Columns("name", "slug", "description").
		Values(collection.Name, collection.Slug, collection.Description).
		Suffix("RETURNING " + joinColumns(collectionColumns)).
		ToSql()
	if err != nil {
		return models.Collection{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanCollection(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Collection{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return created, nil
}

func (r *CollectionRepo) UpdateCollection(ctx context.Context, id int64, update models.CollectionUpdate) (models.Collection, error) {
	const op = "repository.CollectionRepo.UpdateCollection"

	q := r.sb.Update(collectionsTable)
	if update.Name != nil {
		q = q.Set("name", *update.Name)
	}
	if update.Slug != nil {
		q = q.Set("slug", *update.Slug)
	}
	if update.Description != nil {
		q = q.Set("description", *update.Description)
	}

	query, args, err := q.Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(collectionColumns)).
		ToSql()
	if err != nil {
		return models.Collection{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := scanCollection(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Collection{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return updated, nil
}

func (r *CollectionRepo) DeleteCollection(ctx context.Context, id int64) error {
	const op = "repository.CollectionRepo.DeleteCollection"

	query, args, err := r.sb.Delete(collectionsTable).Where(squirrel.Eq{"id": id}).ToSql()
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

func (r *CollectionRepo) GetCollectionByID(ctx context.Context, id int64) (models.Collection, error) {
	const op = "repository.CollectionRepo.GetCollectionByID"

	return r.getOne(ctx, op, squirrel.Eq{"id": id})
}

func (r *CollectionRepo) GetCollectionBySlug(ctx context.Context, slug string) (models.Collection, error) {
	const op = "repository.CollectionRepo.GetCollectionBySlug"

	return r.getOne(ctx, op, squirrel.Eq{"slug": slug})
}

func (r *CollectionRepo) getOne(ctx context.Context, op string, where squirrel.Eq) (models.Collection, error) {
	query, args, err := r.sb.Select(collectionColumns...).
		From(collectionsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return models.Collection{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := scanCollection(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Collection{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return c, nil
}

func (r *CollectionRepo) ListCollections(ctx context.Context, filter models.CollectionFilter, window pagination.Window) ([]models.Collection, int, error) {
	const op = "repository.CollectionRepo.ListCollections"

	query, args, err := collectionListQuery(r.sb, filter, window).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	collections := make([]models.Collection, 0, window.PageSize)
	total := 0
	for rows.Next() {
		c, err := scanCollection(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan: %w", op, err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	if len(collections) == 0 && window.From > 0 {
		q, a, err := applyCollectionFilter(r.sb.Select("count(*)").From(collectionsTable), filter).ToSql()
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		if err := r.db.QueryRow(ctx, q, a...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("%s: count: %w", op, err)
		}
	}

	return collections, total, nil
}

func applyCollectionFilter(q squirrel.SelectBuilder, filter models.CollectionFilter) squirrel.SelectBuilder {
	if term, ok := pagination.Search(filter.Search); ok {
		pattern := pagination.Contains(term)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"slug": pattern},
		})
	}
	return q
}

func collectionListQuery(sb squirrel.StatementBuilderType, filter models.CollectionFilter, window pagination.Window) squirrel.SelectBuilder {
	q := sb.Select(append(append([]string{}, collectionColumns...), "count(*) OVER() AS total_count")...).
		From(collectionsTable)
	q = applyCollectionFilter(q, filter)

	dir := direction(filter.Ascending)
	if filter.OrderBy == models.CollectionOrderName {
		q = q.OrderBy("name "+dir, "id "+dir)
	} else {
		q = q.OrderBy("created_at "+dir, "id "+dir)
	}

	return q.Limit(window.Limit()).Offset(window.Offset())
}

func (r *CollectionRepo) AllCollections(ctx context.Context, limit int) ([]models.Collection, error) {
	const op = "repository.CollectionRepo.AllCollections"

	query, args, err := r.sb.Select(collectionColumns...).
		From(collectionsTable).
		OrderBy("created_at DESC", "id DESC").
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

	collections := make([]models.Collection, 0, limit)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		collections = append(collections, c)
	}

	return collections, rows.Err()
}

// CollectionGalleries returns the linked galleries, newest link target first.
func (r *CollectionRepo) CollectionGalleries(ctx context.Context, collectionID int64) ([]models.Gallery, error) {
	const op = "repository.CollectionRepo.CollectionGalleries"

	cols := make([]string, len(galleryColumns))
	for i, c := range galleryColumns {
		cols[i] = "g." + c
	}

	query, args, err := r.sb.Select(cols...).
		From(collectionGalleryTable + " cg").
		Join(galleriesTable + " g ON g.id = cg.gallery_id").
		Where(squirrel.Eq{"cg.collection_id": collectionID}).
		OrderBy("cg.gallery_id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var galleries []models.Gallery
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		galleries = append(galleries, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return galleries, nil
}

// LinkGallery returns storage.ErrAlreadyExists when the pair is already linked.
func (r *CollectionRepo) LinkGallery(ctx context.Context, collectionID, galleryID int64) error {
	const op = "repository.CollectionRepo.LinkGallery"

	query, args, err := r.sb.Insert(collectionGalleryTable).
		Columns("collection_id", "gallery_id").
		Values(collectionID, galleryID).
		Suffix("ON CONFLICT (collection_id, gallery_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	return nil
}

func (r *CollectionRepo) UnlinkGallery(ctx context.Context, collectionID, galleryID int64) error {
	const op = "repository.CollectionRepo.UnlinkGallery"

	query, args, err := r.sb.Delete(collectionGalleryTable).
		Where(squirrel.Eq{"collection_id": collectionID, "gallery_id": galleryID}).
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
