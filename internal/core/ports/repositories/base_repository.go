package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager exposes transaction lifecycle control to services that
// need multiple writes to land atomically, such as a job update plus its
// activity entry.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// RepositoryWithTx marks repositories that support transactional writes.
type RepositoryWithTx interface {
	TransactionManager
}
