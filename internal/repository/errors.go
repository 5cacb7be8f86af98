package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/do0han/tubespyv1/internal/model"
)

// uniqueViolation is the Postgres error code for duplicate keys. Sequential
// batch processing should prevent it on the (owner_id, external_id)
// constraints; if it surfaces anyway it becomes a ConflictError.
const uniqueViolation = "23505"

// mapError translates a pgx failure into the application error taxonomy.
// Anything that is not a uniqueness violation is treated as the store being
// unreachable or broken, which is fatal to the whole call.
func mapError(op, kind, key string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &model.ConflictError{Kind: kind, Key: key}
	}
	return &model.UpstreamError{Op: op, Err: err}
}
