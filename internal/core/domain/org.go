package domain

// Organization is the top of the ownership hierarchy.
type Organization struct {
	OrgID   string `json:"orgId"`
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
	AuditFields
}

// Office is a physical branch of an organization.
type Office struct {
	OfficeID  string `json:"officeId"`
	OrgID     string `json:"orgId"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	ManagerID string `json:"managerId"`
	AuditFields
}

// Department is a working unit inside an office (Mitigation, Reconstruction,
// Billing, ...). Its manager is auto-assigned as supervisor when a job is
// handed off to the department.
type Department struct {
	DepartmentID string `json:"departmentId"`
	OrgID        string `json:"orgId"`
	OfficeID     string `json:"officeId"`
	Name         string `json:"name"`
	ManagerID    string `json:"managerId"`
	AuditFields
}
