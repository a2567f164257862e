// Package repository handles local persistence of dashboard bookkeeping.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/evandahm/reviewdesk/internal/models"
)

// DecisionLogRepository appends and lists locally recorded decision
// submissions. The remote plan store stays authoritative; this log is
// bookkeeping only and is never consulted by the set builders.
type DecisionLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDecisionLogRepository creates a new decision log repository
func NewDecisionLogRepository(db *sql.DB, logger *zap.Logger) *DecisionLogRepository {
	return &DecisionLogRepository{
		db:     db,
		logger: logger,
	}
}

// Record appends one submitted decision to the log.
func (r *DecisionLogRepository) Record(ctx context.Context, entry *models.DecisionLogEntry) error {
	query := `
		INSERT INTO decision_log (
			submission_id, reviewer_record_id, outcome, feedback, created_at
		) VALUES (?, ?, ?, ?, ?)
	`

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx, query,
		entry.SubmissionID,
		entry.ReviewerRecordID,
		string(entry.Outcome),
		entry.Feedback,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to record decision", zap.Error(err))
		return fmt.Errorf("failed to record decision: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	entry.ID = id
	return nil
}

// Recent lists the most recently recorded decisions, newest first.
func (r *DecisionLogRepository) Recent(ctx context.Context, limit int) ([]*models.DecisionLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, submission_id, reviewer_record_id, outcome, feedback, created_at
		FROM decision_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list decision log", zap.Error(err))
		return nil, fmt.Errorf("failed to list decision log: %w", err)
	}
	defer rows.Close()

	var entries []*models.DecisionLogEntry
	for rows.Next() {
		var entry models.DecisionLogEntry
		var outcome string
		if err := rows.Scan(
			&entry.ID,
			&entry.SubmissionID,
			&entry.ReviewerRecordID,
			&outcome,
			&entry.Feedback,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan decision log row: %w", err)
		}
		entry.Outcome = models.Status(outcome)
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
