// Package submissions persists processed wizard applications in Postgres.
// The draft store holds in-progress work; a row lands here only when branch
// staff trigger the terminal Process action.
package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "philfund-wizard/internal/common/errors"
	"philfund-wizard/internal/common/logger"
	"philfund-wizard/internal/wizard"

	"github.com/google/uuid"
)

// Submission is one completed wizard run ready for durable storage.
type Submission struct {
	WizardID    string
	ApplicantID string
	Draft       wizard.CachedDraft
}

// Record is the stored row returned to the caller.
type Record struct {
	ID          string `json:"id"`
	WizardID    string `json:"wizard_id"`
	ApplicantID string `json:"applicant_id"`
	ReferenceNo string `json:"reference_no"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

const (
	StatusProcessed = "processed"
	StatusArchived  = "archived"
)

type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// Create inserts the processed submission. Processing the same applicant
// twice for the same wizard is rejected so a double-clicked Process button
// cannot produce two loan records.
func (r *Repository) Create(ctx context.Context, sub *Submission) (*Record, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM wizard_submissions
			WHERE wizard_id = $1 AND applicant_id = $2 AND status = $3
		)`, sub.WizardID, sub.ApplicantID, StatusProcessed).Scan(&exists)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("duplicate check failed: %w", err))
	}
	if exists {
		return nil, apperrors.NewDuplicateSubmissionError(sub.WizardID + "/" + sub.ApplicantID)
	}

	payloadJSON, err := json.Marshal(sub.Draft)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal draft: %w", err))
	}

	record := &Record{
		ID:          uuid.New().String(),
		WizardID:    sub.WizardID,
		ApplicantID: sub.ApplicantID,
		ReferenceNo: newReferenceNo(sub.WizardID),
		Status:      StatusProcessed,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO wizard_submissions (
			id, wizard_id, applicant_id, reference_no, payload, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		record.ID,
		record.WizardID,
		record.ApplicantID,
		record.ReferenceNo,
		payloadJSON,
		record.Status,
		record.CreatedAt,
	)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("insert failed: %w", err))
	}

	// Audit trail is non-critical; a failed insert is logged, never surfaced.
	auditJSON, err := json.Marshal(map[string]interface{}{
		"wizardId":    record.WizardID,
		"applicantId": record.ApplicantID,
		"referenceNo": record.ReferenceNo,
		"steps":       len(sub.Draft),
	})
	if err != nil {
		auditJSON = []byte("{}")
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"submission_processed",
		"wizard_submission",
		record.ID,
		auditJSON,
		record.CreatedAt,
	)
	if err != nil {
		r.logger.WithError(err).Warn("audit log insert failed", map[string]interface{}{
			"submissionId": record.ID,
		})
	}

	r.logger.Info("submission processed", map[string]interface{}{
		"submissionId": record.ID,
		"wizardId":     record.WizardID,
		"applicantId":  record.ApplicantID,
		"referenceNo":  record.ReferenceNo,
	})

	return record, nil
}

// Archive marks any processed rows for the applicant as archived. Archiving
// is a status flip, never a delete.
func (r *Repository) Archive(ctx context.Context, wizardID, applicantID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.ExecContext(ctx, `
		UPDATE wizard_submissions
		SET status = $1, updated_at = $2
		WHERE wizard_id = $3 AND applicant_id = $4 AND status = $5`,
		StatusArchived, now, wizardID, applicantID, StatusProcessed,
	)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("archive failed: %w", err))
	}
	return nil
}

// newReferenceNo builds the branch-facing reference, e.g. "PF-LC-2026-3F9A21D0".
func newReferenceNo(wizardID string) string {
	code := "XX"
	switch wizardID {
	case "borrower-profile":
		code = "BP"
	case "cash-advance":
		code = "CA"
	case "loan-computation":
		code = "LC"
	}
	short := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("PF-%s-%d-%s", code, time.Now().UTC().Year(), short)
}
