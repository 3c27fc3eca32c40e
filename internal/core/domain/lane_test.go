package domain_test

import (
	"testing"

	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyLane(t *testing.T) {
	tests := []struct {
		name string
		job  domain.Job
		want domain.Lane
	}{
		{
			name: "closeout always lands in done",
			job:  domain.Job{Status: domain.StatusCloseout, AssignedUserIDs: []string{"u1"}},
			want: domain.LaneDone,
		},
		{
			name: "review lands in review even with assignees",
			job:  domain.Job{Status: domain.StatusReview, AssignedUserIDs: []string{"u1"}},
			want: domain.LaneReview,
		},
		{
			name: "mitigation with assignees is in progress",
			job:  domain.Job{Status: domain.StatusMitigation, AssignedUserIDs: []string{"u1"}},
			want: domain.LaneInProgress,
		},
		{
			name: "reconstruction with assignees is in progress",
			job:  domain.Job{Status: domain.StatusReconstruction, AssignedUserIDs: []string{"u1", "u2"}},
			want: domain.LaneInProgress,
		},
		{
			name: "mitigation without assignees falls back to unassigned",
			job:  domain.Job{Status: domain.StatusMitigation},
			want: domain.LaneUnassigned,
		},
		{
			name: "pending with assignees is still unassigned",
			job:  domain.Job{Status: domain.StatusPending, AssignedUserIDs: []string{"u1"}},
			want: domain.LaneUnassigned,
		},
		{
			name: "zero-value job classifies",
			job:  domain.Job{},
			want: domain.LaneUnassigned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ClassifyLane(tt.job))
		})
	}
}

func TestClassifyLane_Total(t *testing.T) {
	// Every (status, hasAssignees) pair must map to a defined lane.
	statuses := []domain.JobStatus{
		domain.StatusPending,
		domain.StatusMitigation,
		domain.StatusReconstruction,
		domain.StatusReview,
		domain.StatusCloseout,
	}
	for _, status := range statuses {
		for _, assignees := range [][]string{nil, {"u1"}} {
			job := domain.Job{Status: status, AssignedUserIDs: assignees}
			assert.True(t, domain.ClassifyLane(job).Valid(),
				"status %s with %d assignees produced an invalid lane", status, len(assignees))
		}
	}
}

func TestLaneMove_SameLaneIsNoOp(t *testing.T) {
	job := domain.Job{Status: domain.StatusMitigation, AssignedUserIDs: []string{"u1"}}
	patch := domain.LaneMove(job, domain.LaneInProgress, "actor")
	assert.True(t, patch.IsZero())
}

func TestLaneMove_ToUnassignedClearsAssignments(t *testing.T) {
	sup := "sup"
	job := domain.Job{
		Status:          domain.StatusMitigation,
		Assignments:     domain.JobAssignments{SupervisorID: &sup},
		AssignedUserIDs: []string{"sup"},
	}

	patch := domain.LaneMove(job, domain.LaneUnassigned, "actor")
	assert.Nil(t, patch.Status)
	assert.NotNil(t, patch.Assignments)

	patch.Apply(&job)
	assert.Empty(t, job.AssignedUserIDs)
	assert.Nil(t, job.Assignments.SupervisorID)
	// Status is untouched; only the assignment record empties.
	assert.Equal(t, domain.StatusMitigation, job.Status)
}

func TestLaneMove_ToInProgressSelfAssignsWhenEmpty(t *testing.T) {
	job := domain.Job{Status: domain.StatusPending}

	patch := domain.LaneMove(job, domain.LaneInProgress, "actor")
	patch.Apply(&job)

	assert.Equal(t, domain.StatusMitigation, job.Status)
	assert.Equal(t, []string{"actor"}, job.AssignedUserIDs)
	assert.Equal(t, domain.LaneInProgress, domain.ClassifyLane(job))
}

func TestLaneMove_ToInProgressKeepsExistingAssignees(t *testing.T) {
	lead := "lead"
	job := domain.Job{
		Status:          domain.StatusReview,
		Assignments:     domain.JobAssignments{LeadTechnicianID: &lead},
		AssignedUserIDs: []string{"lead"},
	}

	patch := domain.LaneMove(job, domain.LaneInProgress, "actor")
	patch.Apply(&job)

	assert.Equal(t, domain.StatusMitigation, job.Status)
	assert.Equal(t, []string{"lead"}, job.AssignedUserIDs, "actor must not be self-assigned over existing assignees")
}

func TestLaneMove_ToReviewAndDone(t *testing.T) {
	job := domain.Job{Status: domain.StatusMitigation, AssignedUserIDs: []string{"u1"}}

	patch := domain.LaneMove(job, domain.LaneReview, "actor")
	patch.Apply(&job)
	assert.Equal(t, domain.StatusReview, job.Status)

	patch = domain.LaneMove(job, domain.LaneDone, "actor")
	patch.Apply(&job)
	assert.Equal(t, domain.StatusCloseout, job.Status)
	assert.Equal(t, domain.LaneDone, domain.ClassifyLane(job))
}

func TestLaneMove_MoveLandsInTargetLane(t *testing.T) {
	// After applying a move the job must classify into the target lane. The
	// unassigned lane only guarantees this from non-review states, since a
	// drop there clears assignments without touching the status.
	for _, start := range []domain.Job{
		{Status: domain.StatusPending},
		{Status: domain.StatusMitigation, AssignedUserIDs: []string{"u1"}},
	} {
		for _, target := range domain.Lanes() {
			job := start
			job.AssignedUserIDs = append([]string{}, start.AssignedUserIDs...)
			patch := domain.LaneMove(job, target, "actor")
			patch.Apply(&job)
			assert.Equal(t, target, domain.ClassifyLane(job),
				"moving from %s to %s did not land in %s", start.Status, target, target)
		}
	}
}
