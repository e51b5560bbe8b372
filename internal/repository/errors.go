package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid input")
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// mapPgError переводит нарушения ограничений PostgreSQL в ошибки репозитория.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrConflict
	case pgCheckViolation:
		return ErrInvalid
	default:
		return err
	}
}
