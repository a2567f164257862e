package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmissionListEnvelope(t *testing.T) {
	payload := []byte(`{
		"results": [
			{
				"id": 1,
				"organization": 10,
				"submitted_by": "Acme Co",
				"status": "submitted",
				"approvals": [
					{"reviewer": 9, "status": "approved", "feedback": "fine"}
				]
			},
			{"id": 2, "organization": 11, "status": "approved"}
		]
	}`)

	subs, err := ParseSubmissionList(payload)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, int64(1), subs[0].ID)
	assert.Equal(t, "Acme Co", subs[0].Submitter)
	assert.Equal(t, StatusSubmitted, subs[0].Status)
	require.Len(t, subs[0].Decisions, 1)
	assert.Equal(t, int64(9), subs[0].Decisions[0].ReviewerID)
	assert.Equal(t, "fine", subs[0].Decisions[0].Feedback)

	assert.Equal(t, StatusApproved, subs[1].Status)
	assert.Empty(t, subs[1].Decisions)
}

func TestParseSubmissionListBareArray(t *testing.T) {
	payload := []byte(`[
		{"id": 3, "organization": 10, "status": "rejected"}
	]`)

	subs, err := ParseSubmissionList(payload)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, int64(3), subs[0].ID)
	assert.Equal(t, StatusRejected, subs[0].Status)
}

func TestParseSubmissionListDropsMalformedRecords(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantIDs []int64
	}{
		{
			name:    "missing id",
			payload: `[{"organization": 1, "status": "submitted"}, {"id": 4, "organization": 1, "status": "submitted"}]`,
			wantIDs: []int64{4},
		},
		{
			name:    "unknown status",
			payload: `[{"id": 5, "organization": 1, "status": "draft"}, {"id": 6, "organization": 1, "status": "approved"}]`,
			wantIDs: []int64{6},
		},
		{
			name:    "empty list",
			payload: `{"results": []}`,
			wantIDs: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs, err := ParseSubmissionList([]byte(tt.payload))
			require.NoError(t, err)

			ids := make([]int64, 0, len(subs))
			for _, s := range subs {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestParseSubmissionListDropsMalformedDecisions(t *testing.T) {
	payload := []byte(`[{
		"id": 7,
		"organization": 2,
		"status": "approved",
		"approvals": [
			{"status": "approved", "feedback": "no reviewer id"},
			{"reviewer": 3, "status": "pending"},
			{"reviewer": 4, "status": "rejected", "feedback": "too vague"}
		]
	}]`)

	subs, err := ParseSubmissionList(payload)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Len(t, subs[0].Decisions, 1)
	assert.Equal(t, int64(4), subs[0].Decisions[0].ReviewerID)
	assert.Equal(t, StatusRejected, subs[0].Decisions[0].Outcome)
}

func TestParseSubmissionListRejectsGarbage(t *testing.T) {
	_, err := ParseSubmissionList([]byte(`"not a list"`))
	require.Error(t, err)
}

func TestDecisionBy(t *testing.T) {
	sub := &Submission{
		ID: 1,
		Decisions: []DecisionRecord{
			{ReviewerID: 9, Outcome: StatusApproved},
			{ReviewerID: 7, Outcome: StatusRejected, Feedback: "first match"},
			{ReviewerID: 7, Outcome: StatusApproved, Feedback: "second match"},
		},
	}

	mine := map[int64]struct{}{7: {}}
	record := sub.DecisionBy(mine)
	require.NotNil(t, record)
	assert.Equal(t, "first match", record.Feedback)

	theirs := map[int64]struct{}{5: {}}
	assert.Nil(t, sub.DecisionBy(theirs))

	empty := &Submission{ID: 2}
	assert.Nil(t, empty.DecisionBy(mine))
}
