package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict — нарушение уникальности (slug, username, имя категории).
	ErrConflict = errors.New("conflict")
	// ErrReferenced — строку нельзя удалить, на неё ссылаются (FK RESTRICT).
	ErrReferenced = errors.New("referenced")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapErr переводит ошибки pgx в ошибки репозитория.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrConflict
		case pgForeignKeyViolation:
			return ErrReferenced
		}
	}
	return err
}
