package pgsql

import (
	portsrepo "github.com/rtmsys/weighbridge_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgx-backed repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		WeighingRepo: newPgxWeighingRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool),
	}
}
