package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobStatus indicates where a job sits inside its currently-owning department.
type JobStatus string

const (
	StatusPending        JobStatus = "PENDING"
	StatusMitigation     JobStatus = "IN_PROGRESS_MITIGATION"
	StatusReconstruction JobStatus = "IN_PROGRESS_RECONSTRUCTION"
	StatusReview         JobStatus = "REVIEW"
	StatusCloseout       JobStatus = "CLOSEOUT"
)

// InProgress reports whether the status is one of the two concrete in-progress kinds.
func (s JobStatus) InProgress() bool {
	return s == StatusMitigation || s == StatusReconstruction
}

// Terminal reports whether no further handoff is possible.
func (s JobStatus) Terminal() bool {
	return s == StatusCloseout
}

// Valid reports whether s is one of the defined job statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusPending, StatusMitigation, StatusReconstruction, StatusReview, StatusCloseout:
		return true
	}
	return false
}

// PhaseStatus indicates whether a phase is the job's live custody record or history.
type PhaseStatus string

const (
	PhaseActive    PhaseStatus = "ACTIVE"
	PhaseCompleted PhaseStatus = "COMPLETED"
)

// PhaseStage is a completed department's own internal progress on its phase,
// independent of the job's overall status. Forward-only: REVIEW then BILLING.
type PhaseStage string

const (
	StageReview  PhaseStage = "REVIEW"
	StageBilling PhaseStage = "BILLING"
)

// StageAdvances reports whether moving from one stage to another is a forward step.
func StageAdvances(from, to PhaseStage) bool {
	return from == StageReview && to == StageBilling
}

// JobAssignments is the working-level assignment record for one phase of a job.
type JobAssignments struct {
	SupervisorID     *string  `json:"supervisorId"`
	LeadTechnicianID *string  `json:"leadTechnicianId"`
	TeamMemberIDs    []string `json:"teamMemberIds"`
}

// UserIDs flattens the assignment record into the set of assigned user IDs.
// Order is stable (supervisor, lead, members) and duplicates are removed.
func (a JobAssignments) UserIDs() []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, 2+len(a.TeamMemberIDs))
	appendID := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if a.SupervisorID != nil {
		appendID(*a.SupervisorID)
	}
	if a.LeadTechnicianID != nil {
		appendID(*a.LeadTechnicianID)
	}
	for _, id := range a.TeamMemberIDs {
		appendID(id)
	}
	return ids
}

// Clone returns a deep copy so frozen snapshots cannot alias live state.
func (a JobAssignments) Clone() JobAssignments {
	out := JobAssignments{}
	if a.SupervisorID != nil {
		v := *a.SupervisorID
		out.SupervisorID = &v
	}
	if a.LeadTechnicianID != nil {
		v := *a.LeadTechnicianID
		out.LeadTechnicianID = &v
	}
	if a.TeamMemberIDs != nil {
		out.TeamMemberIDs = append([]string{}, a.TeamMemberIDs...)
	}
	return out
}

// IsEmpty reports whether no user is assigned at all.
func (a JobAssignments) IsEmpty() bool {
	return len(a.UserIDs()) == 0
}

// Phase records one department's custody interval over a job's life.
// Exactly one phase per job is ACTIVE at all times.
type Phase struct {
	PhaseID      string         `json:"phaseId"`
	DepartmentID string         `json:"departmentId"`
	Name         string         `json:"name"`
	Status       PhaseStatus    `json:"status"`
	Stage        *PhaseStage    `json:"stage,omitempty"`
	Assignments  JobAssignments `json:"assignments"`
	CompletedBy  *string        `json:"completedBy,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	Data         map[string]any `json:"data,omitempty"` // opaque estimate/analysis payload
}

// Customer holds the claim's customer contact block.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Property holds the loss-site address block.
type Property struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Zip     string  `json:"zip"`
	County  *string `json:"county,omitempty"`
}

// Insurance holds the carrier and claim identifiers.
type Insurance struct {
	Carrier       string  `json:"carrier"`
	ClaimNumber   string  `json:"claimNumber"`
	AdjusterName  *string `json:"adjusterName,omitempty"`
	AdjusterPhone *string `json:"adjusterPhone,omitempty"`
}

// JobDetails is descriptive metadata, opaque to the phase machine.
type JobDetails struct {
	PropertyType    string  `json:"propertyType"`
	YearBuilt       *int    `json:"yearBuilt,omitempty"`
	LossCategory    string  `json:"lossCategory"`
	Deductible      *string `json:"deductible,omitempty"`
	PolicyNumber    *string `json:"policyNumber,omitempty"`
	MortgageCompany *string `json:"mortgageCompany,omitempty"`
	LoanNumber      *string `json:"loanNumber,omitempty"`
	BillingContact  *string `json:"billingContact,omitempty"`
	BillingNotes    *string `json:"billingNotes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// JobFinancials tracks the job's booked revenue.
type JobFinancials struct {
	Revenue decimal.Decimal `json:"revenue"`
}

// Job is a restoration/insurance claim tracked through the organization's
// department hierarchy. DepartmentID always names the department of the
// currently-ACTIVE phase; DepartmentIDs is the ever-growing set of departments
// that have held the job. Version backs optimistic concurrency on every mutation.
type Job struct {
	JobID        string `json:"jobId"`
	OrgID        string `json:"orgId"`
	OfficeID     string `json:"officeId"`
	DepartmentID string `json:"departmentId"`

	DepartmentIDs []string  `json:"departmentIds"`
	Status        JobStatus `json:"status"`
	JobName       string    `json:"jobName"`

	Customer   Customer       `json:"customer"`
	Property   Property       `json:"property"`
	Insurance  Insurance      `json:"insurance"`
	Details    JobDetails     `json:"details"`
	Financials *JobFinancials `json:"financials,omitempty"`

	Assignments     JobAssignments `json:"assignments"`
	AssignedUserIDs []string       `json:"assignedUserIds"`

	Phases []Phase `json:"phases"`

	Version int64 `json:"version"`
	AuditFields
}

// ActivePhase returns the job's single ACTIVE phase, or nil if the document is
// malformed (callers treat that as an invalid transition, not a panic).
func (j *Job) ActivePhase() *Phase {
	for i := range j.Phases {
		if j.Phases[i].Status == PhaseActive {
			return &j.Phases[i]
		}
	}
	return nil
}

// PhaseForDepartment returns the most recent phase held by departmentID, or nil.
// Most-recent wins so that a department re-entering a job's history (D1, D2, D1)
// sees its latest custody record, not the stale first one.
func (j *Job) PhaseForDepartment(departmentID string) *Phase {
	for i := len(j.Phases) - 1; i >= 0; i-- {
		if j.Phases[i].DepartmentID == departmentID {
			return &j.Phases[i]
		}
	}
	return nil
}

// HasDepartment reports whether departmentID appears in the job's custody history.
func (j *Job) HasDepartment(departmentID string) bool {
	for _, id := range j.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}

// EffectiveAssignments is the assignment and status view a department-scoped
// reader should get.
type EffectiveAssignments struct {
	Assignments  JobAssignments
	Status       string
	IsHistorical bool
}

// ResolveAssignments answers "what assignment set and status label should this
// viewer see, and is it editable?". The owning department gets the live record;
// a department that handed the job off gets its frozen snapshot; a department
// with no phase in the history gets an empty, read-only set.
func ResolveAssignments(j Job, viewerDepartmentID string) EffectiveAssignments {
	status := ResolveStatus(j, viewerDepartmentID).Status
	if viewerDepartmentID == "" || viewerDepartmentID == j.DepartmentID {
		return EffectiveAssignments{Assignments: j.Assignments.Clone(), Status: status}
	}
	if phase := j.PhaseForDepartment(viewerDepartmentID); phase != nil {
		return EffectiveAssignments{Assignments: phase.Assignments.Clone(), Status: status, IsHistorical: true}
	}
	return EffectiveAssignments{Status: status, IsHistorical: true}
}

// EffectiveStatus is the status label a department-scoped reader should get.
type EffectiveStatus struct {
	Status       string
	IsHistorical bool
}

// ResolveStatus returns the live job status for the owning department, or the
// viewer department's completed-phase stage when the job has moved on.
func ResolveStatus(j Job, viewerDepartmentID string) EffectiveStatus {
	if viewerDepartmentID == "" || viewerDepartmentID == j.DepartmentID {
		return EffectiveStatus{Status: string(j.Status)}
	}
	if phase := j.PhaseForDepartment(viewerDepartmentID); phase != nil {
		stage := StageReview
		if phase.Stage != nil {
			stage = *phase.Stage
		}
		return EffectiveStatus{Status: string(stage), IsHistorical: true}
	}
	return EffectiveStatus{Status: string(j.Status)}
}

// ActivityLog is an append-only audit trail entry for a job.
type ActivityLog struct {
	ActivityID string    `json:"activityId"`
	JobID      string    `json:"jobId"`
	UserID     string    `json:"userId"`
	Action     string    `json:"action"`
	CreatedAt  time.Time `json:"createdAt"`
}
