package sqlite

import (
	"context"
	"database/sql"

	"github.com/ledgerline/backoffice/internal/backoffice/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // caller will commit/rollback; outer DB stays open

// Ping is a no-op for transactions; the connection is already established.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                 { return &usersRepo{db: t.tx} }
func (t *txStore) Sessions() store.Sessions           { return &sessionsRepo{db: t.tx} }
func (t *txStore) MFAChallenges() store.MFAChallenges { return &mfaChallengesRepo{db: t.tx} }
func (t *txStore) Invites() store.Invites             { return &invitesRepo{db: t.tx} }
func (t *txStore) Tenants() store.Tenants             { return &tenantsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // no-op; applied before any tx starts
