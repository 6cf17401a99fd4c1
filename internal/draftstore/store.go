// Package draftstore persists per-step wizard drafts in Redis. Each wizard
// instance is one hash keyed by (wizard, applicant) with one field per draft
// slot ("step_1", "step_2", ...), so step submission is an upsert and resume
// is a single HGETALL.
package draftstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"philfund-wizard/internal/common/database"
	apperrors "philfund-wizard/internal/common/errors"
	"philfund-wizard/internal/common/logger"
	"philfund-wizard/internal/wizard"
)

type Store struct {
	redis *database.RedisClient
	ttl   time.Duration
	log   logger.Logger
}

func New(redis *database.RedisClient, ttl time.Duration, log logger.Logger) *Store {
	return &Store{redis: redis, ttl: ttl, log: log}
}

func draftKey(wizardID, applicantID string) string {
	return fmt.Sprintf("draft:%s:%s", wizardID, applicantID)
}

// UpsertStep writes one step's payload. Re-submitting the same step with
// identical payload is safe; the hash field is simply overwritten.
func (s *Store) UpsertStep(ctx context.Context, wizardID, applicantID string, position int, payload json.RawMessage) error {
	key := draftKey(wizardID, applicantID)
	if err := s.redis.HSet(ctx, key, wizard.DraftKey(position), string(payload)); err != nil {
		return apperrors.NewDraftStoreFailedError(wizard.DraftKey(position), err)
	}
	if err := s.redis.Expire(ctx, key, s.ttl); err != nil {
		s.log.WithError(err).Warn("failed to refresh draft TTL", map[string]interface{}{
			"key": key,
		})
	}
	return nil
}

// Fetch returns the cached draft map, or found=false when nothing is held.
// Archived drafts are reported as not-found so the wizard cannot resume them;
// Restore lifts the flag.
func (s *Store) Fetch(ctx context.Context, wizardID, applicantID string) (wizard.CachedDraft, bool, error) {
	fields, err := s.redis.HGetAll(ctx, draftKey(wizardID, applicantID))
	if err != nil {
		return nil, false, apperrors.NewDraftFetchFailedError(err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	if _, archived := fields[archivedField]; archived {
		return nil, false, nil
	}

	cached := make(wizard.CachedDraft, len(fields))
	for slot, raw := range fields {
		cached[slot] = json.RawMessage(raw)
	}
	return cached, true, nil
}

const archivedField = "_archived"

// Archive flags the draft without destroying it, so an archived application
// can be restored by branch staff.
func (s *Store) Archive(ctx context.Context, wizardID, applicantID string) error {
	key := draftKey(wizardID, applicantID)
	if err := s.redis.HSet(ctx, key, archivedField, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return apperrors.NewDraftStoreFailedError(archivedField, err)
	}
	return nil
}

// Restore lifts the archive flag, making the draft resumable again.
func (s *Store) Restore(ctx context.Context, wizardID, applicantID string) error {
	if err := s.redis.HDel(ctx, draftKey(wizardID, applicantID), archivedField); err != nil {
		return apperrors.NewDraftStoreFailedError(archivedField, err)
	}
	return nil
}

// Delete removes the draft entirely. Called after a successful Process, when
// the submission has moved to durable storage.
func (s *Store) Delete(ctx context.Context, wizardID, applicantID string) error {
	if err := s.redis.Del(ctx, draftKey(wizardID, applicantID)); err != nil {
		return apperrors.NewDraftStoreFailedError("delete", err)
	}
	return nil
}
