package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/goldshop-erp/ledger_engine/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories against a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(dbPool),
		PostingRepo: newPgxPostingRepository(dbPool),
	}
}
