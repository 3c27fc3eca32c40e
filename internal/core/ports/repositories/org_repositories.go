package repositories

import (
	"context"

	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
)

// OrgReader defines read operations for the organization hierarchy
type OrgReader interface {
	// FindOrganizationByID retrieves a specific organization by its ID.
	FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error)

	// FindOfficeByID retrieves a specific office by its ID.
	FindOfficeByID(ctx context.Context, officeID string) (*domain.Office, error)

	// ListOfficesByOrg retrieves all offices belonging to an organization.
	ListOfficesByOrg(ctx context.Context, orgID string) ([]domain.Office, error)

	// FindDepartmentByID retrieves a specific department by its ID.
	FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error)

	// ListDepartmentsByOffice retrieves all departments belonging to an office.
	ListDepartmentsByOffice(ctx context.Context, officeID string) ([]domain.Department, error)
}

// OrgWriter defines write operations for the organization hierarchy
type OrgWriter interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, org domain.Organization) error

	// SaveOffice persists a new office.
	SaveOffice(ctx context.Context, office domain.Office) error

	// SaveDepartment persists a new department.
	SaveDepartment(ctx context.Context, department domain.Department) error

	// UpdateDepartment updates an existing department (name, manager).
	UpdateDepartment(ctx context.Context, department domain.Department) error
}

// OrgRepositoryFacade combines all org-hierarchy repository interfaces
type OrgRepositoryFacade interface {
	OrgReader
	OrgWriter
}
