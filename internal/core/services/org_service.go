package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JobSiteOps/job_tracking_app/internal/apperrors"
	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	portsrepo "github.com/JobSiteOps/job_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/JobSiteOps/job_tracking_app/internal/core/ports/services"
	"github.com/JobSiteOps/job_tracking_app/internal/dto"
	"github.com/JobSiteOps/job_tracking_app/internal/middleware"
	"github.com/google/uuid"
)

type orgService struct {
	BaseService
	orgRepo  portsrepo.OrgRepositoryFacade
	userRepo portsrepo.UserRepositoryFacade
}

// NewOrgService creates a new service for the organization hierarchy.
func NewOrgService(orgRepo portsrepo.OrgRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.OrgSvcFacade {
	return &orgService{orgRepo: orgRepo, userRepo: userRepo}
}

var _ portssvc.OrgSvcFacade = (*orgService)(nil)

func (s *orgService) GetOrganization(ctx context.Context, orgID string) (*domain.Organization, error) {
	org, err := s.orgRepo.FindOrganizationByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization %s: %w", orgID, err)
	}
	return org, nil
}

func (s *orgService) GetDepartment(ctx context.Context, departmentID string) (*domain.Department, error) {
	dept, err := s.orgRepo.FindDepartmentByID(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get department %s: %w", departmentID, err)
	}
	return dept, nil
}

func (s *orgService) ListOffices(ctx context.Context, orgID string) ([]domain.Office, error) {
	offices, err := s.orgRepo.ListOfficesByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices for org %s: %w", orgID, err)
	}
	return offices, nil
}

func (s *orgService) ListDepartments(ctx context.Context, officeID string) ([]domain.Department, error) {
	departments, err := s.orgRepo.ListDepartmentsByOffice(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments for office %s: %w", officeID, err)
	}
	return departments, nil
}

func (s *orgService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	org := domain.Organization{
		OrgID:   uuid.NewString(),
		Name:    req.Name,
		OwnerID: creatorUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	logger.Info("Organization created", slog.String("org_id", org.OrgID))
	return &org, nil
}

func (s *orgService) CreateOffice(ctx context.Context, req dto.CreateOfficeRequest, creatorUserID string) (*domain.Office, error) {
	if err := s.authorizeHierarchyChange(ctx, creatorUserID, req.OrgID); err != nil {
		return nil, err
	}

	now := time.Now()
	office := domain.Office{
		OfficeID:  uuid.NewString(),
		OrgID:     req.OrgID,
		Name:      req.Name,
		Address:   req.Address,
		ManagerID: req.ManagerID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.orgRepo.SaveOffice(ctx, office); err != nil {
		return nil, fmt.Errorf("failed to create office: %w", err)
	}
	return &office, nil
}

func (s *orgService) CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest, creatorUserID string) (*domain.Department, error) {
	if err := s.authorizeHierarchyChange(ctx, creatorUserID, req.OrgID); err != nil {
		return nil, err
	}

	if _, err := s.orgRepo.FindOfficeByID(ctx, req.OfficeID); err != nil {
		return nil, fmt.Errorf("failed to load office %s for new department: %w", req.OfficeID, err)
	}

	now := time.Now()
	dept := domain.Department{
		DepartmentID: uuid.NewString(),
		OrgID:        req.OrgID,
		OfficeID:     req.OfficeID,
		Name:         req.Name,
		ManagerID:    req.ManagerID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.orgRepo.SaveDepartment(ctx, dept); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return &dept, nil
}

// authorizeHierarchyChange verifies the actor belongs to the org and may manage
// its offices and departments.
func (s *orgService) authorizeHierarchyChange(ctx context.Context, userID, orgID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %s for authorization: %w", userID, err)
	}
	if user.OrgID != orgID {
		return apperrors.NewForbiddenError("user does not belong to this organization")
	}
	if !user.Role.Has(domain.PermManageOffices) {
		return apperrors.NewForbiddenError("not permitted to manage the office hierarchy")
	}
	return nil
}
