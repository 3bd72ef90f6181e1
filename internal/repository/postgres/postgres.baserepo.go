// FilePath: internal/repository/postgres/postgres.baserepo.go
package postgres

import (
	"context"

	"github.com/breev/aqhub/internal/database"
	"github.com/breev/aqhub/internal/errors"
)

// PostgresBaseRepo carries the shared connection handle and transaction
// plumbing for the app-database repositories.
type PostgresBaseRepo struct {
	db database.DB
}

func (r *PostgresBaseRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *PostgresBaseRepo) Close() error {
	if err := r.db.GetDB().Close(); err != nil {
		return errors.NewDatabaseError("failed to close database", err)
	}
	return nil
}
