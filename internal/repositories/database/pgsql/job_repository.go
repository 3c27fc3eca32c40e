package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/JobSiteOps/job_tracking_app/internal/apperrors"
	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	portsrepo "github.com/JobSiteOps/job_tracking_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJobRepository struct {
	BaseRepository
}

// newPgxJobRepository creates a new repository for job data.
func newPgxJobRepository(pool *pgxpool.Pool) portsrepo.JobRepositoryWithTx {
	return &PgxJobRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJobRepository implements portsrepo.JobRepositoryWithTx
var _ portsrepo.JobRepositoryWithTx = (*PgxJobRepository)(nil)

// Phases, the contact/claim blocks and the assignment record are stored as
// JSONB on the jobs row so every mutation of the document is one atomic write.
var FULL_JOB_SELECT_QUERY = `
SELECT
	j.job_id, j.org_id, j.office_id, j.department_id, j.department_ids,
	j.status, j.job_name, j.customer, j.property, j.insurance, j.details,
	j.financials, j.assignments, j.assigned_user_ids, j.phases, j.version,
	j.created_at, j.created_by, j.last_updated_at, j.last_updated_by
FROM jobs j
`

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	err := row.Scan(
		&j.JobID,
		&j.OrgID,
		&j.OfficeID,
		&j.DepartmentID,
		&j.DepartmentIDs,
		&j.Status,
		&j.JobName,
		&j.Customer,
		&j.Property,
		&j.Insurance,
		&j.Details,
		&j.Financials,
		&j.Assignments,
		&j.AssignedUserIDs,
		&j.Phases,
		&j.Version,
		&j.CreatedAt,
		&j.CreatedBy,
		&j.LastUpdatedAt,
		&j.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *PgxJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	query := FULL_JOB_SELECT_QUERY + `WHERE j.job_id = $1;`
	job, err := scanJob(r.Pool.QueryRow(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("job " + jobID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find job "+jobID, err)
	}
	return job, nil
}

// ListVisibleJobs pushes the role's visibility predicate into the query so rows
// outside the viewer's scope never leave the database.
func (r *PgxJobRepository) ListVisibleJobs(ctx context.Context, viewer domain.ViewerContext, limit int, offset int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	filter := `WHERE j.org_id = $1 `
	args := []any{viewer.OrgID}

	switch viewer.Role {
	case domain.RoleOwner, domain.RoleOrgAdmin:
		// Org-wide visibility, no extra predicate.
	case domain.RoleOfficeAdmin:
		filter += `AND j.office_id = $2 `
		args = append(args, viewer.OfficeID)
	case domain.RoleDeptManager:
		// Current custody or anywhere in the job's department history.
		filter += `AND (j.department_id = $2 OR $2 = ANY(j.department_ids)) `
		args = append(args, viewer.DepartmentID)
	case domain.RoleMember:
		filter += `AND $2 = ANY(j.assigned_user_ids) `
		args = append(args, viewer.UserID)
	default:
		return []domain.Job{}, nil
	}

	filter += `ORDER BY j.last_updated_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, FULL_JOB_SELECT_QUERY+filter, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query visible jobs", err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan job row", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate job rows", err)
	}
	return jobs, nil
}

func (r *PgxJobRepository) SaveJob(ctx context.Context, job domain.Job) error {
	query := `
		INSERT INTO jobs (
			job_id, org_id, office_id, department_id, department_ids,
			status, job_name, customer, property, insurance, details,
			financials, assignments, assigned_user_ids, phases, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		job.JobID,
		job.OrgID,
		job.OfficeID,
		job.DepartmentID,
		job.DepartmentIDs,
		job.Status,
		job.JobName,
		job.Customer,
		job.Property,
		job.Insurance,
		job.Details,
		job.Financials,
		job.Assignments,
		job.AssignedUserIDs,
		job.Phases,
		1,
		job.CreatedAt,
		job.CreatedBy,
		job.LastUpdatedAt,
		job.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("job ID " + job.JobID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to insert job "+job.JobID, err)
	}
	return nil
}

const updateJobCASQuery = `
	UPDATE jobs
	SET department_id = $1, department_ids = $2, status = $3, job_name = $4,
		customer = $5, property = $6, insurance = $7, details = $8,
		financials = $9, assignments = $10, assigned_user_ids = $11,
		phases = $12, version = version + 1,
		last_updated_at = $13, last_updated_by = $14
	WHERE job_id = $15 AND version = $16;
`

func casArgs(job domain.Job, expectedVersion int64) []any {
	return []any{
		job.DepartmentID,
		job.DepartmentIDs,
		job.Status,
		job.JobName,
		job.Customer,
		job.Property,
		job.Insurance,
		job.Details,
		job.Financials,
		job.Assignments,
		job.AssignedUserIDs,
		job.Phases,
		job.LastUpdatedAt,
		job.LastUpdatedBy,
		job.JobID,
		expectedVersion,
	}
}

func (r *PgxJobRepository) UpdateJobCAS(ctx context.Context, job domain.Job, expectedVersion int64) error {
	result, err := r.Pool.Exec(ctx, updateJobCASQuery, casArgs(job, expectedVersion)...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update job "+job.JobID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewConflictError("job " + job.JobID + " was modified concurrently")
	}
	return nil
}

func (r *PgxJobRepository) UpdateJobCASInTx(ctx context.Context, tx pgx.Tx, job domain.Job, expectedVersion int64) error {
	result, err := tx.Exec(ctx, updateJobCASQuery, casArgs(job, expectedVersion)...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update job "+job.JobID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewConflictError("job " + job.JobID + " was modified concurrently")
	}
	return nil
}

const insertActivityQuery = `
	INSERT INTO job_activity (activity_id, job_id, user_id, action, created_at)
	VALUES ($1, $2, $3, $4, $5);
`

func (r *PgxJobRepository) SaveActivity(ctx context.Context, entry domain.ActivityLog) error {
	_, err := r.Pool.Exec(ctx, insertActivityQuery,
		entry.ActivityID, entry.JobID, entry.UserID, entry.Action, entry.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert activity for job "+entry.JobID, err)
	}
	return nil
}

func (r *PgxJobRepository) SaveActivityInTx(ctx context.Context, tx pgx.Tx, entry domain.ActivityLog) error {
	_, err := tx.Exec(ctx, insertActivityQuery,
		entry.ActivityID, entry.JobID, entry.UserID, entry.Action, entry.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert activity for job "+entry.JobID, err)
	}
	return nil
}

func (r *PgxJobRepository) ListActivityByJobID(ctx context.Context, jobID string, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT activity_id, job_id, user_id, action, created_at
		FROM job_activity
		WHERE job_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, jobID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query activity for job "+jobID, err)
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.ActivityLog])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.ActivityLog{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect activity rows", err)
	}
	return entries, nil
}
