package services

import (
	"context"

	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	"github.com/JobSiteOps/job_tracking_app/internal/dto"
)

// JobReaderSvc defines read operations for jobs, always scoped to a viewer.
type JobReaderSvc interface {
	// GetJob retrieves a single job by ID. A job outside the viewer's scope
	// fails with apperrors.ErrOutOfScope rather than being silently filtered.
	GetJob(ctx context.Context, jobID string, requestingUserID string) (*domain.Job, error)

	// ListJobs retrieves a page of jobs visible to the requesting user.
	ListJobs(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.Job, error)

	// BoardJobs retrieves the viewer's visible jobs bucketed by Kanban lane.
	BoardJobs(ctx context.Context, requestingUserID string) (map[domain.Lane][]domain.Job, error)

	// GetEffectiveAssignments resolves the assignment view (live vs. frozen
	// snapshot) for the requesting user's department context.
	GetEffectiveAssignments(ctx context.Context, jobID string, requestingUserID string) (*domain.EffectiveAssignments, error)

	// ListActivity retrieves the job's audit trail, newest first.
	ListActivity(ctx context.Context, jobID string, requestingUserID string, limit int) ([]domain.ActivityLog, error)
}

// JobWriterSvc defines the mutation operations on jobs.
type JobWriterSvc interface {
	// CreateJob opens a new job with one ACTIVE phase in the creator's department.
	CreateJob(ctx context.Context, req dto.CreateJobRequest, creatorUserID string) (*domain.Job, error)

	// Handoff transfers ownership of a job to another department, completing
	// the ACTIVE phase and opening a new one. Atomic on the job document.
	Handoff(ctx context.Context, jobID string, targetDepartmentID string, actorUserID string) (*domain.Job, error)

	// UpdateCompletedPhaseStage advances the internal stage of a department's
	// already-completed phase (REVIEW to BILLING, forward only).
	UpdateCompletedPhaseStage(ctx context.Context, jobID string, departmentID string, newStage domain.PhaseStage, actorUserID string) (*domain.Job, error)

	// ApplyLaneMove applies the mutation a Kanban drop implies. No-op when the
	// job is already in the target lane.
	ApplyLaneMove(ctx context.Context, jobID string, targetLane domain.Lane, actorUserID string) (*domain.Job, error)

	// UpdateAssignments replaces the live assignment record of the job's ACTIVE
	// phase. Rejected when the actor's department only holds a completed phase.
	UpdateAssignments(ctx context.Context, jobID string, assignments domain.JobAssignments, actorUserID string) (*domain.Job, error)
}

// JobStreamerSvc defines the push-based read path used by list/board views.
type JobStreamerSvc interface {
	// SubscribeVisibleJobs returns a channel that receives the viewer's visible
	// job set after every committed mutation, plus a cancel function. The first
	// snapshot is delivered immediately.
	SubscribeVisibleJobs(ctx context.Context, requestingUserID string) (<-chan []domain.Job, func(), error)
}

// JobSvcFacade combines all job-related service interfaces
type JobSvcFacade interface {
	JobReaderSvc
	JobWriterSvc
	JobStreamerSvc
}
