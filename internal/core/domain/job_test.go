package domain_test

import (
	"testing"
	"time"

	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func stagePtr(s domain.PhaseStage) *domain.PhaseStage { return &s }

// jobWithHistory builds a job that moved D1 -> D2; D1's phase is frozen with
// its snapshot and D2 holds the live record.
func jobWithHistory() domain.Job {
	completedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.Job{
		JobID:         "job-1",
		OrgID:         "org-1",
		OfficeID:      "office-1",
		DepartmentID:  "d2",
		DepartmentIDs: []string{"d1", "d2"},
		Status:        domain.StatusPending,
		Assignments:   domain.JobAssignments{SupervisorID: strPtr("mgr2"), TeamMemberIDs: []string{}},
		AssignedUserIDs: []string{"mgr2"},
		Phases: []domain.Phase{
			{
				PhaseID:      "p1",
				DepartmentID: "d1",
				Status:       domain.PhaseCompleted,
				Stage:        stagePtr(domain.StageReview),
				Assignments:  domain.JobAssignments{SupervisorID: strPtr("mgr1"), TeamMemberIDs: []string{"tech1"}},
				CompletedBy:  strPtr("mgr1"),
				CompletedAt:  &completedAt,
			},
			{
				PhaseID:      "p2",
				DepartmentID: "d2",
				Status:       domain.PhaseActive,
				Assignments:  domain.JobAssignments{SupervisorID: strPtr("mgr2"), TeamMemberIDs: []string{}},
			},
		},
	}
}

func TestJob_ActivePhase(t *testing.T) {
	job := jobWithHistory()
	active := job.ActivePhase()
	assert.NotNil(t, active)
	assert.Equal(t, "p2", active.PhaseID)

	var empty domain.Job
	assert.Nil(t, empty.ActivePhase())
}

func TestJob_PhaseForDepartment_MostRecentWins(t *testing.T) {
	// D1 -> D2 -> D1 again: d1's lookup must return the newest phase.
	job := jobWithHistory()
	job.Phases[1].Status = domain.PhaseCompleted
	job.Phases = append(job.Phases, domain.Phase{
		PhaseID:      "p3",
		DepartmentID: "d1",
		Status:       domain.PhaseActive,
	})

	phase := job.PhaseForDepartment("d1")
	assert.NotNil(t, phase)
	assert.Equal(t, "p3", phase.PhaseID)

	assert.Nil(t, job.PhaseForDepartment("d9"))
}

func TestResolveAssignments_OwningDepartmentSeesLive(t *testing.T) {
	job := jobWithHistory()

	got := domain.ResolveAssignments(job, "d2")
	assert.False(t, got.IsHistorical)
	assert.Equal(t, "mgr2", *got.Assignments.SupervisorID)
	assert.Equal(t, string(domain.StatusPending), got.Status)
}

func TestResolveAssignments_PriorDepartmentSeesFrozenSnapshot(t *testing.T) {
	job := jobWithHistory()

	got := domain.ResolveAssignments(job, "d1")
	assert.True(t, got.IsHistorical)
	assert.Equal(t, "mgr1", *got.Assignments.SupervisorID)
	assert.Equal(t, []string{"tech1"}, got.Assignments.TeamMemberIDs)
	assert.Equal(t, string(domain.StageReview), got.Status)

	// Mutating the resolved copy must not leak back into the phase record.
	got.Assignments.TeamMemberIDs[0] = "someone-else"
	assert.Equal(t, []string{"tech1"}, job.Phases[0].Assignments.TeamMemberIDs)
}

func TestResolveAssignments_UnscopedViewerSeesLive(t *testing.T) {
	job := jobWithHistory()

	got := domain.ResolveAssignments(job, "")
	assert.False(t, got.IsHistorical)
	assert.Equal(t, "mgr2", *got.Assignments.SupervisorID)
}

func TestResolveAssignments_UnknownDepartmentIsEmptyReadOnly(t *testing.T) {
	job := jobWithHistory()

	got := domain.ResolveAssignments(job, "d9")
	assert.True(t, got.IsHistorical)
	assert.True(t, got.Assignments.IsEmpty())
}

func TestResolveStatus(t *testing.T) {
	job := jobWithHistory()
	job.Status = domain.StatusMitigation
	job.Phases[0].Stage = stagePtr(domain.StageBilling)

	owning := domain.ResolveStatus(job, "d2")
	assert.Equal(t, string(domain.StatusMitigation), owning.Status)
	assert.False(t, owning.IsHistorical)

	prior := domain.ResolveStatus(job, "d1")
	assert.Equal(t, string(domain.StageBilling), prior.Status)
	assert.True(t, prior.IsHistorical)

	unknown := domain.ResolveStatus(job, "d9")
	assert.Equal(t, string(domain.StatusMitigation), unknown.Status)
}

func TestJobAssignments_UserIDs(t *testing.T) {
	a := domain.JobAssignments{
		SupervisorID:     strPtr("sup"),
		LeadTechnicianID: strPtr("lead"),
		TeamMemberIDs:    []string{"m1", "sup", "m1", ""},
	}
	assert.Equal(t, []string{"sup", "lead", "m1"}, a.UserIDs())

	assert.Empty(t, domain.JobAssignments{}.UserIDs())
	assert.True(t, domain.JobAssignments{}.IsEmpty())
}

func TestJobAssignments_CloneIsDeep(t *testing.T) {
	a := domain.JobAssignments{
		SupervisorID:  strPtr("sup"),
		TeamMemberIDs: []string{"m1"},
	}
	b := a.Clone()
	*b.SupervisorID = "other"
	b.TeamMemberIDs[0] = "other"

	assert.Equal(t, "sup", *a.SupervisorID)
	assert.Equal(t, []string{"m1"}, a.TeamMemberIDs)
}

func TestStageAdvances(t *testing.T) {
	assert.True(t, domain.StageAdvances(domain.StageReview, domain.StageBilling))
	assert.False(t, domain.StageAdvances(domain.StageBilling, domain.StageReview))
	assert.False(t, domain.StageAdvances(domain.StageReview, domain.StageReview))
	assert.False(t, domain.StageAdvances(domain.StageBilling, domain.StageBilling))
}
