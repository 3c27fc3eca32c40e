package services

import (
	"context"

	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	"github.com/JobSiteOps/job_tracking_app/internal/dto"
)

// OrgReaderSvc defines read operations for the organization hierarchy.
type OrgReaderSvc interface {
	// GetOrganization retrieves an organization by ID.
	GetOrganization(ctx context.Context, orgID string) (*domain.Organization, error)

	// GetDepartment retrieves a department by ID.
	GetDepartment(ctx context.Context, departmentID string) (*domain.Department, error)

	// ListOffices retrieves all offices of an organization.
	ListOffices(ctx context.Context, orgID string) ([]domain.Office, error)

	// ListDepartments retrieves all departments of an office.
	ListDepartments(ctx context.Context, officeID string) ([]domain.Department, error)
}

// OrgWriterSvc defines write operations for the organization hierarchy.
type OrgWriterSvc interface {
	// CreateOrganization creates a new organization owned by the creator.
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)

	// CreateOffice creates a new office inside an organization.
	CreateOffice(ctx context.Context, req dto.CreateOfficeRequest, creatorUserID string) (*domain.Office, error)

	// CreateDepartment creates a new department inside an office.
	CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest, creatorUserID string) (*domain.Department, error)
}

// OrgSvcFacade combines all org-hierarchy service interfaces
type OrgSvcFacade interface {
	OrgReaderSvc
	OrgWriterSvc
}
