package dto

import (
	"time"

	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Request DTOs ---

// CustomerDTO mirrors the customer contact block.
type CustomerDTO struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" binding:"omitempty,email"`
}

// PropertyDTO mirrors the loss-site address block.
type PropertyDTO struct {
	Address string  `json:"address" binding:"required"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Zip     string  `json:"zip"`
	County  *string `json:"county"`
}

// InsuranceDTO mirrors the carrier and claim identifiers.
type InsuranceDTO struct {
	Carrier       string  `json:"carrier"`
	ClaimNumber   string  `json:"claimNumber"`
	AdjusterName  *string `json:"adjusterName"`
	AdjusterPhone *string `json:"adjusterPhone"`
}

// JobDetailsDTO mirrors the descriptive metadata block.
type JobDetailsDTO struct {
	PropertyType    string  `json:"propertyType"`
	YearBuilt       *int    `json:"yearBuilt"`
	LossCategory    string  `json:"lossCategory"`
	Deductible      *string `json:"deductible"`
	PolicyNumber    *string `json:"policyNumber"`
	MortgageCompany *string `json:"mortgageCompany"`
	LoanNumber      *string `json:"loanNumber"`
	BillingContact  *string `json:"billingContact"`
	BillingNotes    *string `json:"billingNotes"`
	Notes           *string `json:"notes"`
}

// CreateJobRequest defines data for opening a new job. The job starts with one
// ACTIVE phase in the given department (defaulting to the creator's) and
// status PENDING.
type CreateJobRequest struct {
	JobName      string        `json:"jobName"`
	OfficeID     string        `json:"officeId" binding:"required"`
	DepartmentID string        `json:"departmentId"`
	Customer     CustomerDTO   `json:"customer" binding:"required"`
	Property     PropertyDTO   `json:"property" binding:"required"`
	Insurance    InsuranceDTO  `json:"insurance"`
	Details      JobDetailsDTO `json:"details"`
}

// HandoffRequest names the department receiving the job.
type HandoffRequest struct {
	TargetDepartmentID string `json:"targetDepartmentId" binding:"required"`
}

// LaneMoveRequest carries the lane a board card was dropped into.
type LaneMoveRequest struct {
	TargetLane string `json:"targetLane" binding:"required,oneof=unassigned in_progress review done"`
}

// UpdatePhaseStageRequest advances a completed phase's internal stage.
type UpdatePhaseStageRequest struct {
	DepartmentID string `json:"departmentId" binding:"required"`
	Stage        string `json:"stage" binding:"required,oneof=REVIEW BILLING"`
}

// AssignmentsDTO mirrors the working-level assignment record.
type AssignmentsDTO struct {
	SupervisorID     *string  `json:"supervisorId"`
	LeadTechnicianID *string  `json:"leadTechnicianId"`
	TeamMemberIDs    []string `json:"teamMemberIds"`
}

// ToDomain converts the DTO into a domain assignment record.
func (a AssignmentsDTO) ToDomain() domain.JobAssignments {
	out := domain.JobAssignments{
		SupervisorID:     a.SupervisorID,
		LeadTechnicianID: a.LeadTechnicianID,
		TeamMemberIDs:    a.TeamMemberIDs,
	}
	if out.TeamMemberIDs == nil {
		out.TeamMemberIDs = []string{}
	}
	return out
}

// UpdateAssignmentsRequest replaces the job's live assignment record.
type UpdateAssignmentsRequest struct {
	Assignments AssignmentsDTO `json:"assignments" binding:"required"`
}

// ListJobsParams defines query parameters for listing jobs. A pageToken, when
// present, takes precedence over the raw offset.
type ListJobsParams struct {
	Limit     int    `form:"limit,default=20"`
	Offset    int    `form:"offset,default=0"`
	PageToken string `form:"pageToken"`
}

// --- Response DTOs ---

// PhaseResponse defines the data returned for one phase of a job.
type PhaseResponse struct {
	PhaseID      string         `json:"phaseId"`
	DepartmentID string         `json:"departmentId"`
	Name         string         `json:"name"`
	Status       string         `json:"status"`
	Stage        *string        `json:"stage,omitempty"`
	Assignments  AssignmentsDTO `json:"assignments"`
	CompletedBy  *string        `json:"completedBy,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
}

// JobResponse defines the data returned for a job, including its full phase
// history and the lane it classifies into.
type JobResponse struct {
	JobID           string           `json:"jobId"`
	OrgID           string           `json:"orgId"`
	OfficeID        string           `json:"officeId"`
	DepartmentID    string           `json:"departmentId"`
	DepartmentIDs   []string         `json:"departmentIds"`
	Status          string           `json:"status"`
	Lane            string           `json:"lane"`
	JobName         string           `json:"jobName"`
	Customer        CustomerDTO      `json:"customer"`
	Property        PropertyDTO      `json:"property"`
	Insurance       InsuranceDTO     `json:"insurance"`
	Details         JobDetailsDTO    `json:"details"`
	Revenue         *decimal.Decimal `json:"revenue,omitempty"`
	Assignments     AssignmentsDTO   `json:"assignments"`
	AssignedUserIDs []string         `json:"assignedUserIds"`
	Phases          []PhaseResponse  `json:"phases"`
	Version         int64            `json:"version"`
	CreatedAt       time.Time        `json:"createdAt"`
	CreatedBy       string           `json:"createdBy"`
	LastUpdatedAt   time.Time        `json:"lastUpdatedAt"`
}

func toAssignmentsDTO(a domain.JobAssignments) AssignmentsDTO {
	members := a.TeamMemberIDs
	if members == nil {
		members = []string{}
	}
	return AssignmentsDTO{
		SupervisorID:     a.SupervisorID,
		LeadTechnicianID: a.LeadTechnicianID,
		TeamMemberIDs:    members,
	}
}

func toPhaseResponse(p domain.Phase) PhaseResponse {
	resp := PhaseResponse{
		PhaseID:      p.PhaseID,
		DepartmentID: p.DepartmentID,
		Name:         p.Name,
		Status:       string(p.Status),
		Assignments:  toAssignmentsDTO(p.Assignments),
		CompletedBy:  p.CompletedBy,
		CompletedAt:  p.CompletedAt,
	}
	if p.Stage != nil {
		s := string(*p.Stage)
		resp.Stage = &s
	}
	return resp
}

// ToJobResponse converts domain.Job to DTO.
func ToJobResponse(j *domain.Job) JobResponse {
	phases := make([]PhaseResponse, len(j.Phases))
	for i, p := range j.Phases {
		phases[i] = toPhaseResponse(p)
	}
	resp := JobResponse{
		JobID:           j.JobID,
		OrgID:           j.OrgID,
		OfficeID:        j.OfficeID,
		DepartmentID:    j.DepartmentID,
		DepartmentIDs:   j.DepartmentIDs,
		Status:          string(j.Status),
		Lane:            string(domain.ClassifyLane(*j)),
		JobName:         j.JobName,
		Customer:        CustomerDTO(j.Customer),
		Property:        PropertyDTO(j.Property),
		Insurance:       InsuranceDTO(j.Insurance),
		Details:         JobDetailsDTO(j.Details),
		Assignments:     toAssignmentsDTO(j.Assignments),
		AssignedUserIDs: j.AssignedUserIDs,
		Phases:          phases,
		Version:         j.Version,
		CreatedAt:       j.CreatedAt,
		CreatedBy:       j.CreatedBy,
		LastUpdatedAt:   j.LastUpdatedAt,
	}
	if j.Financials != nil {
		rev := j.Financials.Revenue
		resp.Revenue = &rev
	}
	if resp.AssignedUserIDs == nil {
		resp.AssignedUserIDs = []string{}
	}
	return resp
}

// ListJobsResponse wraps a page of jobs. NextPageToken is set only when a
// further page may exist.
type ListJobsResponse struct {
	Jobs          []JobResponse `json:"jobs"`
	NextPageToken *string       `json:"nextPageToken,omitempty"`
}

// ToListJobsResponse converts a slice of domain.Job to DTO.
func ToListJobsResponse(jobs []domain.Job) ListJobsResponse {
	list := make([]JobResponse, len(jobs))
	for i := range jobs {
		list[i] = ToJobResponse(&jobs[i])
	}
	return ListJobsResponse{Jobs: list}
}

// BoardResponse groups a viewer's visible jobs by Kanban lane.
type BoardResponse struct {
	Lanes map[string][]JobResponse `json:"lanes"`
}

// ToBoardResponse converts the lane buckets to DTO, keeping every lane present
// even when empty so the board renders all columns.
func ToBoardResponse(buckets map[domain.Lane][]domain.Job) BoardResponse {
	lanes := make(map[string][]JobResponse, len(buckets))
	for _, lane := range domain.Lanes() {
		jobs := buckets[lane]
		list := make([]JobResponse, len(jobs))
		for i := range jobs {
			list[i] = ToJobResponse(&jobs[i])
		}
		lanes[string(lane)] = list
	}
	return BoardResponse{Lanes: lanes}
}

// EffectiveAssignmentsResponse is the assignment and status view for a
// department-scoped reader. Status carries the viewer department's completed
// phase stage when the job has moved on.
type EffectiveAssignmentsResponse struct {
	Assignments  AssignmentsDTO `json:"assignments"`
	Status       string         `json:"status"`
	IsHistorical bool           `json:"isHistorical"`
}

// ToEffectiveAssignmentsResponse converts the domain resolution to DTO.
func ToEffectiveAssignmentsResponse(ea domain.EffectiveAssignments) EffectiveAssignmentsResponse {
	return EffectiveAssignmentsResponse{
		Assignments:  toAssignmentsDTO(ea.Assignments),
		Status:       ea.Status,
		IsHistorical: ea.IsHistorical,
	}
}

// ActivityResponse defines one audit trail entry.
type ActivityResponse struct {
	ActivityID string    `json:"activityId"`
	JobID      string    `json:"jobId"`
	UserID     string    `json:"userId"`
	Action     string    `json:"action"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToListActivityResponse converts a slice of domain.ActivityLog to DTO.
func ToListActivityResponse(entries []domain.ActivityLog) []ActivityResponse {
	list := make([]ActivityResponse, len(entries))
	for i, e := range entries {
		list[i] = ActivityResponse(e)
	}
	return list
}
