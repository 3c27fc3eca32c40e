package repositories

import (
	"context"

	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JobReader defines read operations for job data
type JobReader interface {
	// FindJobByID retrieves a specific job by its ID, including its full phase
	// history (phases are embedded in the job document, never loaded separately).
	FindJobByID(ctx context.Context, jobID string) (*domain.Job, error)

	// ListVisibleJobs retrieves a page of jobs restricted to the viewer's scope.
	// The scope predicate is pushed into the query so data outside the viewer's
	// scope is never transferred.
	ListVisibleJobs(ctx context.Context, viewer domain.ViewerContext, limit int, offset int) ([]domain.Job, error)
}

// JobWriter defines write operations for job data
type JobWriter interface {
	// SaveJob persists a new job with version 1.
	SaveJob(ctx context.Context, job domain.Job) error

	// UpdateJobCAS writes the whole job document iff the stored version still
	// equals expectedVersion, bumping the version by one. Returns
	// apperrors.ErrConflict when the compare-and-swap fails.
	UpdateJobCAS(ctx context.Context, job domain.Job, expectedVersion int64) error

	// UpdateJobCASInTx is UpdateJobCAS running inside a caller-owned transaction,
	// so the job write can commit together with its audit trail entry.
	UpdateJobCASInTx(ctx context.Context, tx pgx.Tx, job domain.Job, expectedVersion int64) error
}

// ActivityWriter records append-only audit trail entries for jobs.
type ActivityWriter interface {
	// SaveActivity persists one activity log entry.
	SaveActivity(ctx context.Context, entry domain.ActivityLog) error

	// SaveActivityInTx persists one activity log entry inside a caller-owned
	// transaction.
	SaveActivityInTx(ctx context.Context, tx pgx.Tx, entry domain.ActivityLog) error

	// ListActivityByJobID retrieves the audit trail for a job, newest first.
	ListActivityByJobID(ctx context.Context, jobID string, limit int) ([]domain.ActivityLog, error)
}

// JobRepositoryFacade combines all job-related repository interfaces
// This is a facade for clients that need access to all operations
type JobRepositoryFacade interface {
	JobReader
	JobWriter
	ActivityWriter
}

// JobRepositoryWithTx extends JobRepositoryFacade with transaction capabilities
type JobRepositoryWithTx interface {
	JobRepositoryFacade
	TransactionManager
}
