package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// The plan store is loose about shapes: list responses arrive either as
// a paginated envelope {"results": [...]} or as a bare array, and most
// record fields are optional. Everything is normalized here, at the
// boundary, so consumers only ever see canonical Submission values.

type rawDecision struct {
	Reviewer  *int64     `json:"reviewer"`
	Status    string     `json:"status"`
	Feedback  *string    `json:"feedback"`
	CreatedAt *time.Time `json:"created_at"`
}

type rawSubmission struct {
	ID           int64         `json:"id"`
	Organization int64         `json:"organization"`
	SubmittedBy  *string       `json:"submitted_by"`
	Status       string        `json:"status"`
	SubmittedAt  *time.Time    `json:"submitted_at"`
	PeriodStart  *string       `json:"period_start"`
	PeriodEnd    *string       `json:"period_end"`
	Approvals    []rawDecision `json:"approvals"`
}

type listEnvelope struct {
	Results []rawSubmission `json:"results"`
}

// ParseSubmissionList decodes a plan-store list response, tolerating
// both the paginated envelope and the bare-array shape. Records without
// a positive id or with an unknown status are dropped; malformed
// decision records on an otherwise valid submission are dropped the
// same way. Order is preserved.
func ParseSubmissionList(data []byte) ([]Submission, error) {
	var envelope listEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Results != nil {
		return normalizeAll(envelope.Results), nil
	}

	var bare []rawSubmission
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("unrecognized plan list payload: %w", err)
	}
	return normalizeAll(bare), nil
}

func normalizeAll(raws []rawSubmission) []Submission {
	out := make([]Submission, 0, len(raws))
	for _, raw := range raws {
		if sub, ok := normalize(raw); ok {
			out = append(out, sub)
		}
	}
	return out
}

func normalize(raw rawSubmission) (Submission, bool) {
	status := Status(raw.Status)
	if raw.ID <= 0 || !status.Valid() {
		return Submission{}, false
	}

	sub := Submission{
		ID:             raw.ID,
		OrganizationID: raw.Organization,
		Status:         status,
		SubmittedAt:    raw.SubmittedAt,
	}
	if raw.SubmittedBy != nil {
		sub.Submitter = *raw.SubmittedBy
	}
	if raw.PeriodStart != nil {
		sub.PeriodStart = *raw.PeriodStart
	}
	if raw.PeriodEnd != nil {
		sub.PeriodEnd = *raw.PeriodEnd
	}

	for _, rd := range raw.Approvals {
		outcome := Status(rd.Status)
		if rd.Reviewer == nil || !outcome.Decided() {
			continue
		}
		record := DecisionRecord{
			ReviewerID: *rd.Reviewer,
			Outcome:    outcome,
			DecidedAt:  rd.CreatedAt,
		}
		if rd.Feedback != nil {
			record.Feedback = *rd.Feedback
		}
		sub.Decisions = append(sub.Decisions, record)
	}

	return sub, true
}
