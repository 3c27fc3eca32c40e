package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JobSiteOps/job_tracking_app/internal/apperrors"
	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	portsrepo "github.com/JobSiteOps/job_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/JobSiteOps/job_tracking_app/internal/core/ports/services"
	"github.com/JobSiteOps/job_tracking_app/internal/dto"
	"github.com/JobSiteOps/job_tracking_app/internal/middleware"
	"github.com/JobSiteOps/job_tracking_app/internal/platform/metrics"
	"github.com/google/uuid"
)

// boardListLimit caps how many jobs the board and stream paths pull per viewer.
const boardListLimit = 500

type jobService struct {
	BaseService
	jobRepo  portsrepo.JobRepositoryWithTx
	userRepo portsrepo.UserRepositoryFacade
	orgRepo  portsrepo.OrgRepositoryFacade
	watcher  *jobWatcher
}

// NewJobService creates the job service. The returned facade also owns the
// in-process watcher that backs SubscribeVisibleJobs.
func NewJobService(jobRepo portsrepo.JobRepositoryWithTx, userRepo portsrepo.UserRepositoryFacade, orgRepo portsrepo.OrgRepositoryFacade) portssvc.JobSvcFacade {
	s := &jobService{
		jobRepo:  jobRepo,
		userRepo: userRepo,
		orgRepo:  orgRepo,
	}
	s.watcher = newJobWatcher(func(ctx context.Context, requestingUserID string) ([]domain.Job, error) {
		return s.ListJobs(ctx, requestingUserID, boardListLimit, 0)
	})
	return s
}

var _ portssvc.JobSvcFacade = (*jobService)(nil)

// viewerFor loads the requesting user and builds their scoping context.
func (s *jobService) viewerFor(ctx context.Context, userID string) (domain.ViewerContext, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.ViewerContext{}, apperrors.ErrUnauthorized
		}
		return domain.ViewerContext{}, fmt.Errorf("failed to load requesting user %s: %w", userID, err)
	}
	return user.Viewer(), nil
}

func (s *jobService) GetJob(ctx context.Context, jobID string, requestingUserID string) (*domain.Job, error) {
	viewer, err := s.viewerFor(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanViewJob(*job) {
		// A direct-by-id fetch outside the viewer's scope is fatal to the
		// request, never silently filtered.
		return nil, apperrors.NewOutOfScopeError("job " + jobID + " is outside your visibility scope")
	}
	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.Job, error) {
	viewer, err := s.viewerFor(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > boardListLimit {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	jobs, err := s.jobRepo.ListVisibleJobs(ctx, viewer, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list visible jobs: %w", err)
	}
	return jobs, nil
}

func (s *jobService) BoardJobs(ctx context.Context, requestingUserID string) (map[domain.Lane][]domain.Job, error) {
	jobs, err := s.ListJobs(ctx, requestingUserID, boardListLimit, 0)
	if err != nil {
		return nil, err
	}
	buckets := make(map[domain.Lane][]domain.Job, 4)
	for _, lane := range domain.Lanes() {
		buckets[lane] = []domain.Job{}
	}
	for _, job := range jobs {
		lane := domain.ClassifyLane(job)
		buckets[lane] = append(buckets[lane], job)
	}
	return buckets, nil
}

func (s *jobService) GetEffectiveAssignments(ctx context.Context, jobID string, requestingUserID string) (*domain.EffectiveAssignments, error) {
	viewer, err := s.viewerFor(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanViewJob(*job) {
		return nil, apperrors.NewOutOfScopeError("job " + jobID + " is outside your visibility scope")
	}
	ea := domain.ResolveAssignments(*job, viewer.DepartmentID)
	return &ea, nil
}

func (s *jobService) ListActivity(ctx context.Context, jobID string, requestingUserID string, limit int) ([]domain.ActivityLog, error) {
	if _, err := s.GetJob(ctx, jobID, requestingUserID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := s.jobRepo.ListActivityByJobID(ctx, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity for job %s: %w", jobID, err)
	}
	return entries, nil
}

func (s *jobService) CreateJob(ctx context.Context, req dto.CreateJobRequest, creatorUserID string) (*domain.Job, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	creator, err := s.userRepo.FindUserByID(ctx, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}
	if !creator.Role.Has(domain.PermCreateJob) {
		return nil, apperrors.NewForbiddenError("not permitted to create jobs")
	}

	departmentID := req.DepartmentID
	if departmentID == "" && creator.DepartmentID != nil {
		departmentID = *creator.DepartmentID
	}
	if departmentID == "" {
		return nil, apperrors.NewValidationFailedError("departmentId is required when the creator has no department")
	}

	dept, err := s.orgRepo.FindDepartmentByID(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load department %s: %w", departmentID, err)
	}
	if dept.OrgID != creator.OrgID {
		return nil, apperrors.NewForbiddenError("department belongs to another organization")
	}
	if dept.OfficeID != req.OfficeID {
		return nil, apperrors.NewValidationFailedError("department does not belong to the given office")
	}

	assignments := domain.JobAssignments{TeamMemberIDs: []string{}}
	if dept.ManagerID != "" {
		managerID := dept.ManagerID
		assignments.SupervisorID = &managerID
	}

	now := time.Now()
	jobName := req.JobName
	if jobName == "" {
		jobName = req.Customer.Name + " - " + req.Property.Address
	}

	job := domain.Job{
		JobID:         uuid.NewString(),
		OrgID:         creator.OrgID,
		OfficeID:      req.OfficeID,
		DepartmentID:  departmentID,
		DepartmentIDs: []string{departmentID},
		Status:        domain.StatusPending,
		JobName:       jobName,
		Customer:      domain.Customer(req.Customer),
		Property:      domain.Property(req.Property),
		Insurance:     domain.Insurance(req.Insurance),
		Details:       domain.JobDetails(req.Details),
		Assignments:   assignments.Clone(),
		Phases: []domain.Phase{{
			PhaseID:      uuid.NewString(),
			DepartmentID: departmentID,
			Name:         dept.Name,
			Status:       domain.PhaseActive,
			Assignments:  assignments.Clone(),
		}},
		Version: 1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	job.AssignedUserIDs = job.Assignments.UserIDs()

	if err := s.jobRepo.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save new job: %w", err)
	}
	s.recordActivity(ctx, job.JobID, creatorUserID, "JOB_CREATED in department "+dept.Name)
	logger.Info("Job created", slog.String("job_id", job.JobID), slog.String("department_id", departmentID))

	s.watcher.Broadcast()
	return &job, nil
}

// Handoff transfers ownership of a job to another department. The active phase
// is frozen with a snapshot of the current assignments, a fresh ACTIVE phase is
// appended for the target department, and the job-level fields follow. The
// whole mutation is one compare-and-swap on the job document committed together
// with its audit entry.
func (s *jobService) Handoff(ctx context.Context, jobID string, targetDepartmentID string, actorUserID string) (*domain.Job, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	viewer, err := s.viewerFor(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanViewJob(*job) {
		return nil, apperrors.NewOutOfScopeError("job " + jobID + " is outside your visibility scope")
	}
	if !viewer.CanTransfer(*job) {
		return nil, apperrors.NewForbiddenError("only the active phase supervisor or an admin may hand off a job")
	}

	if job.Status.Terminal() {
		return nil, apperrors.NewInvalidTransitionError("job is closed out and cannot be handed off")
	}
	if targetDepartmentID == job.DepartmentID {
		return nil, apperrors.NewInvalidTransitionError("job is already owned by department " + targetDepartmentID)
	}

	active := job.ActivePhase()
	if active == nil {
		return nil, apperrors.NewInvalidTransitionError("job has no active phase")
	}

	target, err := s.orgRepo.FindDepartmentByID(ctx, targetDepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load target department %s: %w", targetDepartmentID, err)
	}
	if target.OrgID != job.OrgID {
		return nil, apperrors.NewValidationFailedError("target department belongs to another organization")
	}

	now := time.Now()
	expectedVersion := job.Version

	// Freeze the outgoing phase with a snapshot of its working assignments.
	stage := domain.StageReview
	active.Status = domain.PhaseCompleted
	active.Stage = &stage
	active.Assignments = job.Assignments.Clone()
	active.CompletedBy = &actorUserID
	active.CompletedAt = &now

	// The incoming department starts with its manager supervising and nobody
	// else assigned.
	incoming := domain.JobAssignments{TeamMemberIDs: []string{}}
	if target.ManagerID != "" {
		managerID := target.ManagerID
		incoming.SupervisorID = &managerID
	}
	job.Phases = append(job.Phases, domain.Phase{
		PhaseID:      uuid.NewString(),
		DepartmentID: targetDepartmentID,
		Name:         target.Name,
		Status:       domain.PhaseActive,
		Assignments:  incoming.Clone(),
	})

	job.DepartmentID = targetDepartmentID
	if !job.HasDepartment(targetDepartmentID) {
		job.DepartmentIDs = append(job.DepartmentIDs, targetDepartmentID)
	}
	job.Status = domain.StatusPending
	job.Assignments = incoming.Clone()
	job.AssignedUserIDs = job.Assignments.UserIDs()
	job.LastUpdatedAt = now
	job.LastUpdatedBy = actorUserID

	entry := domain.ActivityLog{
		ActivityID: uuid.NewString(),
		JobID:      job.JobID,
		UserID:     actorUserID,
		Action:     "HANDOFF to department " + target.Name,
		CreatedAt:  now,
	}
	if err := s.commitJobWithActivity(ctx, *job, expectedVersion, entry); err != nil {
		return nil, err
	}

	metrics.HandoffsTotal.Inc()
	logger.Info("Job handed off",
		slog.String("job_id", job.JobID),
		slog.String("target_department_id", targetDepartmentID),
	)
	s.watcher.Broadcast()
	return job, nil
}

func (s *jobService) UpdateCompletedPhaseStage(ctx context.Context, jobID string, departmentID string, newStage domain.PhaseStage, actorUserID string) (*domain.Job, error) {
	viewer, err := s.viewerFor(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	if !viewer.Role.Has(domain.PermUpdatePhaseStage) {
		return nil, apperrors.NewForbiddenError("not permitted to update phase stages")
	}
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanViewJob(*job) {
		return nil, apperrors.NewOutOfScopeError("job " + jobID + " is outside your visibility scope")
	}
	// Department managers may only advance their own department's phase.
	if !viewer.Role.AdminTier() && viewer.DepartmentID != departmentID {
		return nil, apperrors.NewForbiddenError("cannot advance another department's phase")
	}

	phase := job.PhaseForDepartment(departmentID)
	if phase == nil {
		return nil, apperrors.NewNotFoundError("department " + departmentID + " has no phase on this job")
	}
	if phase.Status != domain.PhaseCompleted {
		return nil, apperrors.NewInvalidTransitionError("phase stage only applies to completed phases")
	}

	current := domain.StageReview
	if phase.Stage != nil {
		current = *phase.Stage
	}
	if current == newStage {
		return job, nil
	}
	if !domain.StageAdvances(current, newStage) {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("cannot move phase stage from %s to %s", current, newStage))
	}

	now := time.Now()
	expectedVersion := job.Version
	phase.Stage = &newStage
	job.LastUpdatedAt = now
	job.LastUpdatedBy = actorUserID

	entry := domain.ActivityLog{
		ActivityID: uuid.NewString(),
		JobID:      job.JobID,
		UserID:     actorUserID,
		Action:     fmt.Sprintf("PHASE_STAGE %s -> %s", current, newStage),
		CreatedAt:  now,
	}
	if err := s.commitJobWithActivity(ctx, *job, expectedVersion, entry); err != nil {
		return nil, err
	}
	s.watcher.Broadcast()
	return job, nil
}

func (s *jobService) ApplyLaneMove(ctx context.Context, jobID string, targetLane domain.Lane, actorUserID string) (*domain.Job, error) {
	if !targetLane.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown lane: " + string(targetLane))
	}
	viewer, err := s.viewerFor(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanViewJob(*job) {
		return nil, apperrors.NewOutOfScopeError("job " + jobID + " is outside your visibility scope")
	}

	patch := domain.LaneMove(*job, targetLane, actorUserID)
	if patch.IsZero() {
		// Dropping a card in its own lane changes nothing.
		return job, nil
	}

	now := time.Now()
	expectedVersion := job.Version
	patch.Apply(job)
	if active := job.ActivePhase(); active != nil && patch.Assignments != nil {
		active.Assignments = job.Assignments.Clone()
	}
	job.LastUpdatedAt = now
	job.LastUpdatedBy = actorUserID

	entry := domain.ActivityLog{
		ActivityID: uuid.NewString(),
		JobID:      job.JobID,
		UserID:     actorUserID,
		Action:     "LANE_MOVE to " + string(targetLane),
		CreatedAt:  now,
	}
	if err := s.commitJobWithActivity(ctx, *job, expectedVersion, entry); err != nil {
		return nil, err
	}

	metrics.LaneMovesTotal.WithLabelValues(string(targetLane)).Inc()
	s.watcher.Broadcast()
	return job, nil
}

func (s *jobService) UpdateAssignments(ctx context.Context, jobID string, assignments domain.JobAssignments, actorUserID string) (*domain.Job, error) {
	viewer, err := s.viewerFor(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	if !viewer.Role.Has(domain.PermAssignJob) {
		return nil, apperrors.NewForbiddenError("not permitted to edit assignments")
	}
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanViewJob(*job) {
		return nil, apperrors.NewOutOfScopeError("job " + jobID + " is outside your visibility scope")
	}
	// A department that handed the job off sees a frozen snapshot; only the
	// owning department's record is live.
	if viewer.DepartmentID != "" && viewer.DepartmentID != job.DepartmentID {
		return nil, apperrors.NewForbiddenError("assignments are frozen once the job leaves your department")
	}

	now := time.Now()
	expectedVersion := job.Version
	job.Assignments = assignments.Clone()
	job.AssignedUserIDs = job.Assignments.UserIDs()
	if active := job.ActivePhase(); active != nil {
		active.Assignments = job.Assignments.Clone()
	}
	job.LastUpdatedAt = now
	job.LastUpdatedBy = actorUserID

	entry := domain.ActivityLog{
		ActivityID: uuid.NewString(),
		JobID:      job.JobID,
		UserID:     actorUserID,
		Action:     "ASSIGNMENTS_UPDATED",
		CreatedAt:  now,
	}
	if err := s.commitJobWithActivity(ctx, *job, expectedVersion, entry); err != nil {
		return nil, err
	}
	s.watcher.Broadcast()
	return job, nil
}

func (s *jobService) SubscribeVisibleJobs(ctx context.Context, requestingUserID string) (<-chan []domain.Job, func(), error) {
	// Validate the subscriber up front so a bad user ID fails the request
	// instead of producing an empty stream.
	if _, err := s.viewerFor(ctx, requestingUserID); err != nil {
		return nil, nil, err
	}
	return s.watcher.Subscribe(ctx, requestingUserID)
}

// commitJobWithActivity writes the job document via compare-and-swap and its
// audit entry in one transaction.
func (s *jobService) commitJobWithActivity(ctx context.Context, job domain.Job, expectedVersion int64, entry domain.ActivityLog) error {
	tx, err := s.jobRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.jobRepo.Rollback(ctx, tx)

	if err := s.jobRepo.UpdateJobCASInTx(ctx, tx, job, expectedVersion); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			metrics.VersionConflictsTotal.Inc()
		}
		return err
	}
	if err := s.jobRepo.SaveActivityInTx(ctx, tx, entry); err != nil {
		return err
	}
	return s.jobRepo.Commit(ctx, tx)
}

// recordActivity appends an audit entry outside a transaction, logging on
// failure rather than failing the caller.
func (s *jobService) recordActivity(ctx context.Context, jobID, userID, action string) {
	entry := domain.ActivityLog{
		ActivityID: uuid.NewString(),
		JobID:      jobID,
		UserID:     userID,
		Action:     action,
		CreatedAt:  time.Now(),
	}
	if err := s.jobRepo.SaveActivity(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to record job activity", slog.String("job_id", jobID))
	}
}
