package domain

// Role is the five-tier hierarchy scoping what a user may see and mutate.
// Every authorization decision in the codebase goes through this table; no
// handler or service compares role strings directly.
type Role string

const (
	RoleOwner       Role = "OWNER"
	RoleOrgAdmin    Role = "ORG_ADMIN"
	RoleOfficeAdmin Role = "OFFICE_ADMIN"
	RoleDeptManager Role = "DEPT_MANAGER"
	RoleMember      Role = "MEMBER"
)

// Valid reports whether r is a defined role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleOrgAdmin, RoleOfficeAdmin, RoleDeptManager, RoleMember:
		return true
	}
	return false
}

// AdminTier reports whether the role is office-admin or above. Admin-tier roles
// may hand off any job inside their scope without being the phase supervisor.
func (r Role) AdminTier() bool {
	switch r {
	case RoleOwner, RoleOrgAdmin, RoleOfficeAdmin:
		return true
	}
	return false
}

// Permission names a discrete capability granted to a set of roles.
type Permission string

const (
	PermManageOrg         Permission = "manage_org"
	PermManageOffices     Permission = "manage_offices"
	PermManageUsers       Permission = "manage_users"
	PermViewOrgSettings   Permission = "view_org_settings"
	PermViewAllUsers      Permission = "view_all_users"
	PermCreateJob         Permission = "create_job"
	PermAssignJob         Permission = "assign_job"
	PermDeleteJob         Permission = "delete_job"
	PermUpdatePhaseStage  Permission = "update_phase_stage"
	PermAddNotes          Permission = "add_notes"
)

var rolePermissions = map[Permission][]Role{
	PermManageOrg:        {RoleOwner},
	PermManageOffices:    {RoleOwner, RoleOrgAdmin},
	PermManageUsers:      {RoleOwner, RoleOrgAdmin, RoleOfficeAdmin, RoleDeptManager},
	PermViewOrgSettings:  {RoleOwner, RoleOrgAdmin, RoleOfficeAdmin},
	PermViewAllUsers:     {RoleOwner, RoleOrgAdmin, RoleOfficeAdmin, RoleDeptManager},
	PermCreateJob:        {RoleOwner, RoleOrgAdmin, RoleOfficeAdmin, RoleDeptManager},
	PermAssignJob:        {RoleOwner, RoleOrgAdmin, RoleOfficeAdmin, RoleDeptManager},
	PermDeleteJob:        {RoleOwner, RoleOrgAdmin},
	PermUpdatePhaseStage: {RoleOwner, RoleOrgAdmin, RoleOfficeAdmin, RoleDeptManager},
	PermAddNotes:         {RoleOwner, RoleOrgAdmin, RoleOfficeAdmin, RoleDeptManager, RoleMember},
}

// Has reports whether the role carries the given permission.
func (r Role) Has(p Permission) bool {
	for _, allowed := range rolePermissions[p] {
		if allowed == r {
			return true
		}
	}
	return false
}

// ViewerContext is the explicit scoping value passed into every read and write
// path. It is never read from ambient/global state: handlers build it from the
// authenticated user's profile and hand it down.
type ViewerContext struct {
	UserID       string
	Role         Role
	OrgID        string
	OfficeID     string // empty when the role is not office-scoped
	DepartmentID string // empty when the role is not department-scoped
}

// CanViewJob is the authoritative visibility predicate. It is applied at the
// query boundary (see the repository's scoped list queries) and re-checked on
// every direct-by-id fetch.
func (v ViewerContext) CanViewJob(j Job) bool {
	if v.OrgID != j.OrgID {
		return false
	}
	switch v.Role {
	case RoleOwner, RoleOrgAdmin:
		return true
	case RoleOfficeAdmin:
		return v.OfficeID == j.OfficeID
	case RoleDeptManager:
		return v.DepartmentID == j.DepartmentID || j.HasDepartment(v.DepartmentID)
	case RoleMember:
		for _, uid := range j.AssignedUserIDs {
			if uid == v.UserID {
				return true
			}
		}
		return false
	}
	return false
}

// CanTransfer reports whether the viewer may hand off the job: an admin-tier
// role scoped to the job, or the supervisor of the currently ACTIVE phase.
func (v ViewerContext) CanTransfer(j Job) bool {
	if v.Role.AdminTier() && v.CanViewJob(j) {
		return true
	}
	active := j.ActivePhase()
	if active == nil || active.Assignments.SupervisorID == nil {
		return false
	}
	return *active.Assignments.SupervisorID == v.UserID
}
