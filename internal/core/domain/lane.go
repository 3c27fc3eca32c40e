package domain

// Lane is the presentation-agnostic Kanban bucket derived from a job's status and
// assignment presence. The board only needs ClassifyLane to place cards and
// LaneMove to react to a drop; no drag-drop library leaks in here.
type Lane string

const (
	LaneUnassigned Lane = "unassigned"
	LaneInProgress Lane = "in_progress"
	LaneReview     Lane = "review"
	LaneDone       Lane = "done"
)

// Lanes lists every lane in board order.
func Lanes() []Lane {
	return []Lane{LaneUnassigned, LaneInProgress, LaneReview, LaneDone}
}

// Valid reports whether l is a defined lane.
func (l Lane) Valid() bool {
	switch l {
	case LaneUnassigned, LaneInProgress, LaneReview, LaneDone:
		return true
	}
	return false
}

// ClassifyLane derives the lane for a job. Total and deterministic: every
// (status, hasAssignees) pair maps to exactly one lane. Rules apply in order,
// first match wins.
func ClassifyLane(j Job) Lane {
	switch {
	case j.Status == StatusCloseout:
		return LaneDone
	case j.Status == StatusReview:
		return LaneReview
	case len(j.AssignedUserIDs) > 0 && j.Status.InProgress():
		return LaneInProgress
	default:
		return LaneUnassigned
	}
}

// LaneMovePatch is the field delta a lane move produces. Nil fields are untouched.
// AssignedUserIDs is always recomputed from Assignments when Assignments is set.
type LaneMovePatch struct {
	Status      *JobStatus
	Assignments *JobAssignments
}

// IsZero reports whether the patch changes nothing.
func (p LaneMovePatch) IsZero() bool {
	return p.Status == nil && p.Assignments == nil
}

// LaneMove computes the inverse mapping used when a card is dropped in a lane.
// Moving a card to the lane it is already in yields an empty patch (idempotent).
func LaneMove(j Job, target Lane, actorUserID string) LaneMovePatch {
	if ClassifyLane(j) == target {
		return LaneMovePatch{}
	}

	patch := LaneMovePatch{}
	switch target {
	case LaneUnassigned:
		patch.Assignments = &JobAssignments{TeamMemberIDs: []string{}}
	case LaneInProgress:
		if !j.Status.InProgress() {
			s := StatusMitigation
			patch.Status = &s
		}
		if len(j.AssignedUserIDs) == 0 {
			a := j.Assignments.Clone()
			a.TeamMemberIDs = append(a.TeamMemberIDs, actorUserID)
			patch.Assignments = &a
		}
	case LaneReview:
		s := StatusReview
		patch.Status = &s
	case LaneDone:
		s := StatusCloseout
		patch.Status = &s
	}
	return patch
}

// Apply folds the patch into the job, mirroring AssignedUserIDs from Assignments.
func (p LaneMovePatch) Apply(j *Job) {
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.Assignments != nil {
		j.Assignments = p.Assignments.Clone()
		j.AssignedUserIDs = j.Assignments.UserIDs()
	}
}
