package repository

import (
	"errors"

	"tkphotos/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	db         *pgxpool.Pool
	User       UserRepository
	Gallery    GalleryRepository
	Photo      PhotoRepository
	Collection CollectionRepository
	Stats      StatsRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepository(db),
		Gallery:    NewGalleryRepo(db),
		Photo:      NewPhotoRepo(db),
		Collection: NewCollectionRepo(db),
		Stats:      NewStatsRepo(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapErr translates driver errors into storage sentinels.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return storage.ErrAlreadyExists
		case pgForeignKeyViolation:
			return storage.ErrNotFound
		}
	}

	return err
}

func direction(ascending bool) string {
	if ascending {
		return "ASC"
	}
	return "DESC"
}
