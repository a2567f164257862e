package models

import "time"

// Status is the lifecycle status of a submission.
type Status string

// Submission lifecycle statuses as reported by the plan store.
const (
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Decided reports whether s is a terminal review status.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

// Role constants for organization role records
const (
	RoleEvaluator = "evaluator"
	RoleAdmin     = "admin"
	RolePlanner   = "planner"
)

// DecisionRecord is one reviewer's recorded outcome on a submission.
// ReviewerID is the per-organization role-record id of the reviewer,
// not a global user id.
type DecisionRecord struct {
	ReviewerID int64      `json:"reviewer"`
	Outcome    Status     `json:"outcome"`
	Feedback   string     `json:"feedback"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

// Submission is the canonical projection of a plan record held by the
// remote store. OrganizationName and OwnDecision are transient
// annotations filled in by the set builders; the store never sends them.
type Submission struct {
	ID             int64            `json:"id"`
	OrganizationID int64            `json:"organization"`
	Submitter      string           `json:"submitted_by"`
	Status         Status           `json:"status"`
	SubmittedAt    *time.Time       `json:"submitted_at,omitempty"`
	PeriodStart    string           `json:"period_start,omitempty"`
	PeriodEnd      string           `json:"period_end,omitempty"`
	Decisions      []DecisionRecord `json:"approvals,omitempty"`

	OrganizationName string          `json:"organization_name,omitempty"`
	OwnDecision      *DecisionRecord `json:"own_decision,omitempty"`
}

// DecisionBy returns the first decision record on s whose reviewer id is
// in reviewerIDs, or nil when no decision belongs to that set. Traversal
// order is the store's record order.
func (s *Submission) DecisionBy(reviewerIDs map[int64]struct{}) *DecisionRecord {
	for i := range s.Decisions {
		if _, ok := reviewerIDs[s.Decisions[i].ReviewerID]; ok {
			return &s.Decisions[i]
		}
	}
	return nil
}

// DecisionLogEntry is one locally recorded decision submission.
type DecisionLogEntry struct {
	ID               int64     `json:"id"`
	SubmissionID     int64     `json:"submission_id"`
	ReviewerRecordID int64     `json:"reviewer_record_id"`
	Outcome          Status    `json:"outcome"`
	Feedback         string    `json:"feedback"`
	CreatedAt        time.Time `json:"created_at"`
}
