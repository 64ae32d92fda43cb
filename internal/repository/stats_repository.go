package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

type StatsRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewStatsRepo(db *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{
		db: db,
		sb: statementBuilder(),
	}
}

func (r *StatsRepo) CountPhotos(ctx context.Context, featuredOnly bool) (int, error) {
	const op = "repository.StatsRepo.CountPhotos"

	q := r.sb.Select("count(*)").From(photosTable)
	if featuredOnly {
		q = q.Where(squirrel.Eq{"is_featured": true})
	}

	n, err := r.count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (r *StatsRepo) CountGalleries(ctx context.Context, publicOnly bool) (int, error) {
	const op = "repository.StatsRepo.CountGalleries"

	q := r.sb.Select("count(*)").From(galleriesTable)
	if publicOnly {
		q = q.Where(squirrel.Eq{"is_public": true})
	}

	n, err := r.count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (r *StatsRepo) CountCollections(ctx context.Context) (int, error) {
	const op = "repository.StatsRepo.CountCollections"

	n, err := r.count(ctx, r.sb.Select("count(*)").From(collectionsTable))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// PhotoTimestampsSince returns created_at of photos newer than since, newest first.
func (r *StatsRepo) PhotoTimestampsSince(ctx context.Context, since time.Time, limit int) ([]time.Time, error) {
	const op = "repository.StatsRepo.PhotoTimestampsSince"

	query, args, err := r.sb.Select("created_at").
		From(photosTable).
		Where(squirrel.GtOrEq{"created_at": since}).
		OrderBy("created_at DESC").
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

	var out []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, ts)
	}

	return out, rows.Err()
}

func (r *StatsRepo) count(ctx context.Context, q squirrel.SelectBuilder) (int, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
