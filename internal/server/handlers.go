package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "philfund-wizard/internal/common/errors"
	"philfund-wizard/internal/common/metrics"
	"philfund-wizard/internal/notifier"
	"philfund-wizard/internal/submissions"

	"github.com/google/uuid"
)

// stepSlots maps the URL path segment to the draft slot it writes.
var stepSlots = map[string]string{
	"step-one":   "step_1",
	"step-two":   "step_2",
	"step-three": "step_3",
	"step-four":  "step_4",
	"step-five":  "step_5",
	"step-six":   "step_6",
	"step-seven": "step_7",
}

// applicantID identifies whose draft a request touches. Branch staff work
// one applicant per session, so the client pins the ID in a header.
func applicantID(r *http.Request) string {
	if id := r.Header.Get("X-Applicant-ID"); id != "" {
		return id
	}
	if id := r.Header.Get("X-Branch-ID"); id != "" {
		return id
	}
	return "default"
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleCached(w http.ResponseWriter, r *http.Request) {
	wizardID := r.PathValue("wizard")
	if !s.knownWizard(wizardID) {
		writeError(w, http.StatusNotFound, "unknown wizard", nil)
		return
	}

	cached, found, err := s.drafts.Fetch(r.Context(), wizardID, applicantID(r))
	if err != nil {
		s.logger.WithError(err).Error("draft fetch failed", map[string]interface{}{
			"wizard": wizardID,
		})
		writeError(w, http.StatusInternalServerError, "failed to fetch cached draft", nil)
		return
	}
	if !found {
		metrics.DraftCacheMisses.WithLabelValues(wizardID).Inc()
		writeError(w, http.StatusNotFound, "no cached draft", nil)
		return
	}

	metrics.DraftCacheHits.WithLabelValues(wizardID).Inc()
	data, err := json.Marshal(cached)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode draft", nil)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Status:  "FETCHED",
		Message: "cached draft found",
		Data:    data,
	})
}

func (s *Server) handleSubmitStep(w http.ResponseWriter, r *http.Request) {
	wizardID := r.PathValue("wizard")
	slot, ok := stepSlots[r.PathValue("step")]
	if !ok || !s.schemas.Has(wizardID, slot) {
		writeError(w, http.StatusNotFound, "unknown step", nil)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body", nil)
		return
	}

	// Save-for-interview stores the slot as-is; only full submissions are
	// gated on the step schema.
	draftSave := r.Header.Get("X-Draft-Save") == "true"
	if draftSave {
		if !json.Valid(body) {
			writeError(w, http.StatusBadRequest, "payload is not valid JSON", nil)
			return
		}
	} else {
		fieldErrors, err := s.schemas.Validate(wizardID, slot, body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		if len(fieldErrors) > 0 {
			metrics.StepsRejected.WithLabelValues(wizardID, slot, string(apperrors.ErrCodeServerValidationFailed)).Inc()
			writeError(w, http.StatusUnprocessableEntity, "validation failed", fieldErrors)
			return
		}
	}

	position := slotPosition(slot)
	if err := s.drafts.UpsertStep(r.Context(), wizardID, applicantID(r), position, body); err != nil {
		s.logger.WithError(err).Error("draft upsert failed", map[string]interface{}{
			"wizard": wizardID,
			"slot":   slot,
		})
		writeError(w, http.StatusInternalServerError, "failed to store step", nil)
		return
	}

	metrics.StepsSubmitted.WithLabelValues(wizardID, slot).Inc()

	if draftSave {
		writeJSON(w, http.StatusOK, envelope{
			Status:  "success",
			Message: fmt.Sprintf("%s draft saved", slot),
		})
		return
	}

	data := s.stepResponseData(wizardID, slot)
	writeJSON(w, http.StatusOK, envelope{
		Status:  "success",
		Message: fmt.Sprintf("%s saved", slot),
		Data:    data,
	})
}

// stepResponseData returns server-derived values the wizard prefills from a
// step response. Accepting the co-maker allocates the promissory note number.
func (s *Server) stepResponseData(wizardID, slot string) json.RawMessage {
	if wizardID == "loan-computation" && slot == "step_3" {
		pn := fmt.Sprintf("PN-%s", strings.ToUpper(uuid.New().String()[:8]))
		data, _ := json.Marshal(map[string]string{"pn_number": pn})
		return data
	}
	return nil
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	wizardID := r.PathValue("wizard")
	if !s.knownWizard(wizardID) {
		writeError(w, http.StatusNotFound, "unknown wizard", nil)
		return
	}
	applicant := applicantID(r)

	cached, found, err := s.drafts.Fetch(r.Context(), wizardID, applicant)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch draft", nil)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "no draft to process", nil)
		return
	}
	if missing := s.missingSlots(wizardID, cached); len(missing) > 0 {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("draft incomplete, missing: %s", strings.Join(missing, ", ")), nil)
		return
	}
	// Slots written by save-for-interview may hold partial data; every step
	// has to pass its schema before the submission becomes durable.
	for i := 1; i <= len(stepSchemas[wizardID]); i++ {
		slot := fmt.Sprintf("step_%d", i)
		fieldErrors, err := s.schemas.Validate(wizardID, slot, cached[slot])
		if err != nil || len(fieldErrors) > 0 {
			writeError(w, http.StatusConflict,
				fmt.Sprintf("draft incomplete, %s has unresolved fields", slot), fieldErrors)
			return
		}
	}

	record, err := s.repo.Create(r.Context(), &submissions.Submission{
		WizardID:    wizardID,
		ApplicantID: applicant,
		Draft:       cached,
	})
	if err != nil {
		if stdErr, ok := err.(*apperrors.StandardError); ok && stdErr.Code == apperrors.ErrCodeDuplicateSubmission {
			writeError(w, http.StatusConflict, stdErr.Message, nil)
			return
		}
		s.logger.WithError(err).Error("submission insert failed", map[string]interface{}{
			"wizard": wizardID,
		})
		writeError(w, http.StatusInternalServerError, "failed to process submission", nil)
		return
	}

	// The processed record is durable; the draft is working state only.
	if err := s.drafts.Delete(r.Context(), wizardID, applicant); err != nil {
		s.logger.WithError(err).Warn("draft cleanup failed", map[string]interface{}{
			"wizard": wizardID,
		})
	}

	if s.notifier != nil {
		recipient := recipientFromDraft(wizardID, cached)
		if _, err := s.notifier.Send(r.Context(), wizardID, record.ReferenceNo, recipient); err != nil {
			s.logger.WithError(err).Warn("completion notification failed", map[string]interface{}{
				"wizard":      wizardID,
				"referenceNo": record.ReferenceNo,
			})
		}
	}

	metrics.WizardsProcessed.WithLabelValues(wizardID).Inc()
	data, _ := json.Marshal(record)
	writeJSON(w, http.StatusOK, envelope{
		Status:  "success",
		Message: "submission processed",
		Data:    data,
	})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	wizardID := r.PathValue("wizard")
	if !s.knownWizard(wizardID) {
		writeError(w, http.StatusNotFound, "unknown wizard", nil)
		return
	}
	applicant := applicantID(r)

	if err := s.drafts.Archive(r.Context(), wizardID, applicant); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to archive draft", nil)
		return
	}
	if err := s.repo.Archive(r.Context(), wizardID, applicant); err != nil {
		s.logger.WithError(err).Warn("submission archive failed", map[string]interface{}{
			"wizard": wizardID,
		})
	}

	writeJSON(w, http.StatusOK, envelope{
		Status:  "success",
		Message: "application archived",
	})
}

// handleRestore lifts the archive flag so branch staff can resume an
// archived application.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	wizardID := r.PathValue("wizard")
	if !s.knownWizard(wizardID) {
		writeError(w, http.StatusNotFound, "unknown wizard", nil)
		return
	}

	if err := s.drafts.Restore(r.Context(), wizardID, applicantID(r)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to restore draft", nil)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Status:  "success",
		Message: "application restored",
	})
}

func (s *Server) knownWizard(wizardID string) bool {
	_, ok := stepSchemas[wizardID]
	return ok
}

// missingSlots lists unfilled steps in order, so the error names the first
// gap the branch has to go back and complete.
func (s *Server) missingSlots(wizardID string, cached map[string]json.RawMessage) []string {
	var missing []string
	for i := 1; i <= len(stepSchemas[wizardID]); i++ {
		slot := fmt.Sprintf("step_%d", i)
		if _, ok := cached[slot]; !ok {
			missing = append(missing, slot)
		}
	}
	return missing
}

func slotPosition(slot string) int {
	var n int
	fmt.Sscanf(slot, "step_%d", &n)
	return n
}

// recipientFromDraft pulls the applicant's contact details out of the first
// step payload. Field names differ per wizard.
func recipientFromDraft(wizardID string, cached map[string]json.RawMessage) notifier.Recipient {
	raw, ok := cached["step_1"]
	if !ok {
		return notifier.Recipient{}
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return notifier.Recipient{}
	}

	str := func(key string) string {
		if v, ok := fields[key].(string); ok {
			return v
		}
		return ""
	}

	switch wizardID {
	case "borrower-profile":
		return notifier.Recipient{
			Name:   strings.TrimSpace(str("bi_first_name") + " " + str("bi_last_name")),
			Email:  str("bi_email"),
			Mobile: str("bi_mobile_number"),
		}
	case "cash-advance":
		return notifier.Recipient{Name: str("ca_borrower_name")}
	default:
		return notifier.Recipient{}
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type errorEnvelope struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string, fieldErrors map[string][]string) {
	writeJSON(w, status, errorEnvelope{Message: message, Errors: fieldErrors})
}
