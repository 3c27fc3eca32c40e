package pgsql

import (
	"context"
	"errors"

	"github.com/JobSiteOps/job_tracking_app/internal/apperrors"
	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	portsrepo "github.com/JobSiteOps/job_tracking_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrgRepository struct {
	BaseRepository
}

// newPgxOrgRepository creates a new repository for the organization hierarchy.
func newPgxOrgRepository(pool *pgxpool.Pool) portsrepo.OrgRepositoryFacade {
	return &PgxOrgRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxOrgRepository implements portsrepo.OrgRepositoryFacade
var _ portsrepo.OrgRepositoryFacade = (*PgxOrgRepository)(nil)

func (r *PgxOrgRepository) FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	query := `
		SELECT org_id, name, owner_id, created_at, created_by, last_updated_at, last_updated_by
		FROM organizations WHERE org_id = $1;
	`
	var org domain.Organization
	err := r.Pool.QueryRow(ctx, query, orgID).Scan(
		&org.OrgID, &org.Name, &org.OwnerID,
		&org.CreatedAt, &org.CreatedBy, &org.LastUpdatedAt, &org.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("organization " + orgID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find organization "+orgID, err)
	}
	return &org, nil
}

func (r *PgxOrgRepository) FindOfficeByID(ctx context.Context, officeID string) (*domain.Office, error) {
	query := `
		SELECT office_id, org_id, name, address, manager_id,
			created_at, created_by, last_updated_at, last_updated_by
		FROM offices WHERE office_id = $1;
	`
	var office domain.Office
	err := r.Pool.QueryRow(ctx, query, officeID).Scan(
		&office.OfficeID, &office.OrgID, &office.Name, &office.Address, &office.ManagerID,
		&office.CreatedAt, &office.CreatedBy, &office.LastUpdatedAt, &office.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("office " + officeID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find office "+officeID, err)
	}
	return &office, nil
}

func (r *PgxOrgRepository) ListOfficesByOrg(ctx context.Context, orgID string) ([]domain.Office, error) {
	query := `
		SELECT office_id, org_id, name, address, manager_id,
			created_at, created_by, last_updated_at, last_updated_by
		FROM offices WHERE org_id = $1 ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query offices", err)
	}
	defer rows.Close()

	offices, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Office])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Office{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect office rows", err)
	}
	return offices, nil
}

func (r *PgxOrgRepository) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	query := `
		SELECT department_id, org_id, office_id, name, manager_id,
			created_at, created_by, last_updated_at, last_updated_by
		FROM departments WHERE department_id = $1;
	`
	var dept domain.Department
	err := r.Pool.QueryRow(ctx, query, departmentID).Scan(
		&dept.DepartmentID, &dept.OrgID, &dept.OfficeID, &dept.Name, &dept.ManagerID,
		&dept.CreatedAt, &dept.CreatedBy, &dept.LastUpdatedAt, &dept.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("department " + departmentID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find department "+departmentID, err)
	}
	return &dept, nil
}

func (r *PgxOrgRepository) ListDepartmentsByOffice(ctx context.Context, officeID string) ([]domain.Department, error) {
	query := `
		SELECT department_id, org_id, office_id, name, manager_id,
			created_at, created_by, last_updated_at, last_updated_by
		FROM departments WHERE office_id = $1 ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, officeID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query departments", err)
	}
	defer rows.Close()

	departments, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Department])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Department{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect department rows", err)
	}
	return departments, nil
}

func (r *PgxOrgRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	query := `
		INSERT INTO organizations (org_id, name, owner_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		org.OrgID, org.Name, org.OwnerID,
		org.CreatedAt, org.CreatedBy, org.LastUpdatedAt, org.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("organization ID " + org.OrgID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to insert organization "+org.OrgID, err)
	}
	return nil
}

func (r *PgxOrgRepository) SaveOffice(ctx context.Context, office domain.Office) error {
	query := `
		INSERT INTO offices (office_id, org_id, name, address, manager_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		office.OfficeID, office.OrgID, office.Name, office.Address, office.ManagerID,
		office.CreatedAt, office.CreatedBy, office.LastUpdatedAt, office.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("office ID " + office.OfficeID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to insert office "+office.OfficeID, err)
	}
	return nil
}

func (r *PgxOrgRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	query := `
		INSERT INTO departments (department_id, org_id, office_id, name, manager_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		department.DepartmentID, department.OrgID, department.OfficeID, department.Name, department.ManagerID,
		department.CreatedAt, department.CreatedBy, department.LastUpdatedAt, department.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("department ID " + department.DepartmentID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to insert department "+department.DepartmentID, err)
	}
	return nil
}

func (r *PgxOrgRepository) UpdateDepartment(ctx context.Context, department domain.Department) error {
	query := `
		UPDATE departments
		SET name = $1, manager_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE department_id = $5;
	`
	result, err := r.Pool.Exec(ctx, query,
		department.Name, department.ManagerID,
		department.LastUpdatedAt, department.LastUpdatedBy,
		department.DepartmentID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update department "+department.DepartmentID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("department " + department.DepartmentID + " not found")
	}
	return nil
}
