package domain_test

import (
	"testing"

	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestViewerContext_CanViewJob(t *testing.T) {
	job := jobWithHistory() // org-1 / office-1, owned by d2, history includes d1, mgr2 assigned

	tests := []struct {
		name   string
		viewer domain.ViewerContext
		want   bool
	}{
		{
			name:   "owner sees everything in the org",
			viewer: domain.ViewerContext{UserID: "owner", Role: domain.RoleOwner, OrgID: "org-1"},
			want:   true,
		},
		{
			name:   "org admin sees everything in the org",
			viewer: domain.ViewerContext{UserID: "admin", Role: domain.RoleOrgAdmin, OrgID: "org-1"},
			want:   true,
		},
		{
			name:   "owner of another org sees nothing",
			viewer: domain.ViewerContext{UserID: "owner", Role: domain.RoleOwner, OrgID: "org-2"},
			want:   false,
		},
		{
			name:   "office admin scoped to the job's office",
			viewer: domain.ViewerContext{UserID: "oa", Role: domain.RoleOfficeAdmin, OrgID: "org-1", OfficeID: "office-1"},
			want:   true,
		},
		{
			name:   "office admin scoped to another office",
			viewer: domain.ViewerContext{UserID: "oa", Role: domain.RoleOfficeAdmin, OrgID: "org-1", OfficeID: "office-2"},
			want:   false,
		},
		{
			name:   "dept manager of the owning department",
			viewer: domain.ViewerContext{UserID: "mgr2", Role: domain.RoleDeptManager, OrgID: "org-1", DepartmentID: "d2"},
			want:   true,
		},
		{
			name:   "dept manager keeps visibility after handing off",
			viewer: domain.ViewerContext{UserID: "mgr1", Role: domain.RoleDeptManager, OrgID: "org-1", DepartmentID: "d1"},
			want:   true,
		},
		{
			name:   "dept manager of an uninvolved department",
			viewer: domain.ViewerContext{UserID: "mgr9", Role: domain.RoleDeptManager, OrgID: "org-1", DepartmentID: "d9"},
			want:   false,
		},
		{
			name:   "member assigned to the job",
			viewer: domain.ViewerContext{UserID: "mgr2", Role: domain.RoleMember, OrgID: "org-1"},
			want:   true,
		},
		{
			name:   "member not assigned to the job",
			viewer: domain.ViewerContext{UserID: "stranger", Role: domain.RoleMember, OrgID: "org-1"},
			want:   false,
		},
		{
			name:   "unknown role sees nothing",
			viewer: domain.ViewerContext{UserID: "x", Role: domain.Role("INTERN"), OrgID: "org-1"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.viewer.CanViewJob(job))
		})
	}
}

func TestViewerContext_CanTransfer(t *testing.T) {
	job := jobWithHistory() // active phase supervised by mgr2

	supervisor := domain.ViewerContext{UserID: "mgr2", Role: domain.RoleDeptManager, OrgID: "org-1", DepartmentID: "d2"}
	assert.True(t, supervisor.CanTransfer(job))

	priorSupervisor := domain.ViewerContext{UserID: "mgr1", Role: domain.RoleDeptManager, OrgID: "org-1", DepartmentID: "d1"}
	assert.False(t, priorSupervisor.CanTransfer(job), "a department that handed off lost transfer rights")

	officeAdmin := domain.ViewerContext{UserID: "oa", Role: domain.RoleOfficeAdmin, OrgID: "org-1", OfficeID: "office-1"}
	assert.True(t, officeAdmin.CanTransfer(job))

	otherOfficeAdmin := domain.ViewerContext{UserID: "oa", Role: domain.RoleOfficeAdmin, OrgID: "org-1", OfficeID: "office-2"}
	assert.False(t, otherOfficeAdmin.CanTransfer(job), "admin tier still needs visibility scope")

	member := domain.ViewerContext{UserID: "tech1", Role: domain.RoleMember, OrgID: "org-1"}
	assert.False(t, member.CanTransfer(job))
}

func TestRole_Has(t *testing.T) {
	assert.True(t, domain.RoleOwner.Has(domain.PermManageOrg))
	assert.False(t, domain.RoleOrgAdmin.Has(domain.PermManageOrg))

	assert.True(t, domain.RoleOrgAdmin.Has(domain.PermManageOffices))
	assert.False(t, domain.RoleOfficeAdmin.Has(domain.PermManageOffices))

	assert.True(t, domain.RoleDeptManager.Has(domain.PermCreateJob))
	assert.False(t, domain.RoleMember.Has(domain.PermCreateJob))

	assert.True(t, domain.RoleMember.Has(domain.PermAddNotes))
	assert.False(t, domain.RoleMember.Has(domain.PermAssignJob))

	assert.False(t, domain.Role("INTERN").Has(domain.PermAddNotes))
}

func TestRole_AdminTier(t *testing.T) {
	assert.True(t, domain.RoleOwner.AdminTier())
	assert.True(t, domain.RoleOrgAdmin.AdminTier())
	assert.True(t, domain.RoleOfficeAdmin.AdminTier())
	assert.False(t, domain.RoleDeptManager.AdminTier())
	assert.False(t, domain.RoleMember.AdminTier())
}
