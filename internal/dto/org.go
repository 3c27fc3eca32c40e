package dto

import (
	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
)

// --- Organization DTOs ---

// CreateOrganizationRequest defines data for creating a new organization.
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
}

// OrganizationResponse defines data returned for an organization.
type OrganizationResponse struct {
	OrgID   string `json:"orgId"`
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
}

// ToOrganizationResponse converts domain.Organization to DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrgID:   o.OrgID,
		Name:    o.Name,
		OwnerID: o.OwnerID,
	}
}

// --- Office DTOs ---

// CreateOfficeRequest defines data for creating a new office.
type CreateOfficeRequest struct {
	OrgID     string `json:"orgId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address"`
	ManagerID string `json:"managerId"`
}

// OfficeResponse defines data returned for an office.
type OfficeResponse struct {
	OfficeID  string `json:"officeId"`
	OrgID     string `json:"orgId"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	ManagerID string `json:"managerId"`
}

// ToOfficeResponse converts domain.Office to DTO.
func ToOfficeResponse(o *domain.Office) OfficeResponse {
	return OfficeResponse{
		OfficeID:  o.OfficeID,
		OrgID:     o.OrgID,
		Name:      o.Name,
		Address:   o.Address,
		ManagerID: o.ManagerID,
	}
}

// ListOfficesResponse wraps a list of offices.
type ListOfficesResponse struct {
	Offices []OfficeResponse `json:"offices"`
}

// ToListOfficesResponse converts a slice of domain.Office to DTO.
func ToListOfficesResponse(offices []domain.Office) ListOfficesResponse {
	list := make([]OfficeResponse, len(offices))
	for i, o := range offices {
		list[i] = ToOfficeResponse(&o)
	}
	return ListOfficesResponse{Offices: list}
}

// --- Department DTOs ---

// CreateDepartmentRequest defines data for creating a new department.
type CreateDepartmentRequest struct {
	OrgID     string `json:"orgId" binding:"required"`
	OfficeID  string `json:"officeId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	ManagerID string `json:"managerId"`
}

// DepartmentResponse defines data returned for a department.
type DepartmentResponse struct {
	DepartmentID string `json:"departmentId"`
	OrgID        string `json:"orgId"`
	OfficeID     string `json:"officeId"`
	Name         string `json:"name"`
	ManagerID    string `json:"managerId"`
}

// ToDepartmentResponse converts domain.Department to DTO.
func ToDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		DepartmentID: d.DepartmentID,
		OrgID:        d.OrgID,
		OfficeID:     d.OfficeID,
		Name:         d.Name,
		ManagerID:    d.ManagerID,
	}
}

// ListDepartmentsResponse wraps a list of departments.
type ListDepartmentsResponse struct {
	Departments []DepartmentResponse `json:"departments"`
}

// ToListDepartmentsResponse converts a slice of domain.Department to DTO.
func ToListDepartmentsResponse(departments []domain.Department) ListDepartmentsResponse {
	list := make([]DepartmentResponse, len(departments))
	for i, d := range departments {
		list[i] = ToDepartmentResponse(&d)
	}
	return ListDepartmentsResponse{Departments: list}
}
