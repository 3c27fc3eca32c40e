package pgsql

import (
	portsrepo "github.com/JobSiteOps/job_tracking_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		JobRepo:  newPgxJobRepository(dbPool),
		OrgRepo:  newPgxOrgRepository(dbPool),
		UserRepo: newPgxUserRepository(dbPool),
	}
}
