package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"philfund-wizard/internal/common/config"
	"philfund-wizard/internal/common/database"
	"philfund-wizard/internal/common/logger"
	"philfund-wizard/internal/draftstore"
	"philfund-wizard/internal/submissions"
)

type testFixture struct {
	server *Server
	redis  *miniredis.Miniredis
	sql    sqlmock.Sqlmock
}

func newTestServer(t *testing.T) *testFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := &database.RedisClient{
		Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
	t.Cleanup(func() { redisClient.Close() })

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewNoOpLogger()
	drafts := draftstore.New(redisClient, time.Hour, log)
	repo := submissions.NewRepository(db, log)

	srv, err := New(config.ServerConfig{Port: 8080, ReadTimeout: 5000, WriteTimeout: 5000}, drafts, repo, nil, log)
	require.NoError(t, err)

	return &testFixture{server: srv, redis: mr, sql: mock}
}

func (f *testFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Applicant-ID", "applicant-1")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func validCashAdvanceSteps() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"ca_borrower_name":  "Maria Santos",
			"ca_loan_reference": "LR-1",
			"ca_advance_amount": 10000,
			"ca_purpose":        "medical",
			"ca_request_date":   "2026-01-05",
		},
		{
			"ca_processing_fee_rate": 5,
			"ca_service_charge":      200,
			"ca_total_deductions":    700,
			"ca_net_proceeds":        9300,
		},
		{
			"ca_release_date":   "2026-01-06",
			"ca_release_method": "cash card",
			"ca_received_by":    "Maria Santos",
		},
	}
}

func TestHealth(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestCachedMiss(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/cash-advance/cached", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no cached draft", decodeError(t, rec).Message)
}

func TestCachedUnknownWizard(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/no-such-wizard/cached", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown wizard", decodeError(t, rec).Message)
}

func TestSubmitStepThenFetchCached(t *testing.T) {
	f := newTestServer(t)
	steps := validCashAdvanceSteps()

	rec := f.do(t, http.MethodPost, "/cash-advance/step-one", steps[0])
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "step_1 saved", env.Message)

	rec = f.do(t, http.MethodGet, "/cash-advance/cached", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.Equal(t, "FETCHED", env.Status)

	var draft map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	assert.Contains(t, draft, "step_1")
	assert.Contains(t, string(draft["step_1"]), "Maria Santos")
}

func TestSubmitStepSchemaRejection(t *testing.T) {
	f := newTestServer(t)

	payload := map[string]interface{}{
		"ca_borrower_name":  "",
		"ca_advance_amount": -5,
	}
	rec := f.do(t, http.MethodPost, "/cash-advance/step-one", payload)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	env := decodeError(t, rec)
	assert.Equal(t, "validation failed", env.Message)
	assert.NotEmpty(t, env.Errors["ca_borrower_name"])
	assert.NotEmpty(t, env.Errors["ca_advance_amount"])
	assert.NotEmpty(t, env.Errors["ca_loan_reference"])

	// A rejected payload never lands in the draft store.
	assert.False(t, f.redis.Exists("draft:cash-advance:applicant-1"))
}

func TestSubmitStepInvalidJSON(t *testing.T) {
	f := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/cash-advance/step-one", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitStepUnknownStep(t *testing.T) {
	f := newTestServer(t)

	// cash-advance has three steps; step-four exists only for longer wizards.
	rec := f.do(t, http.MethodPost, "/cash-advance/step-four", map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/cash-advance/step-nine", map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitCoMakerAssignsPNNumber(t *testing.T) {
	f := newTestServer(t)

	payload := map[string]interface{}{
		"lc_co_maker_name":    "Jose Cruz",
		"lc_co_maker_address": "Cebu City",
		"lc_co_maker_contact": "09181234567",
	}
	rec := f.do(t, http.MethodPost, "/loan-computation/step-three", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var data map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Regexp(t, `^PN-[0-9A-F]{8}$`, data["pn_number"])
}

func TestSubmitCoMakerContactPattern(t *testing.T) {
	f := newTestServer(t)

	payload := map[string]interface{}{
		"lc_co_maker_name":    "Jose Cruz",
		"lc_co_maker_address": "Cebu City",
		"lc_co_maker_contact": "0918-123-4567",
	}
	rec := f.do(t, http.MethodPost, "/loan-computation/step-three", payload)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, decodeError(t, rec).Errors["lc_co_maker_contact"])
}

func TestProcessIncompleteDraft(t *testing.T) {
	f := newTestServer(t)
	steps := validCashAdvanceSteps()

	rec := f.do(t, http.MethodPost, "/cash-advance/step-one", steps[0])
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/cash-advance/process", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	env := decodeError(t, rec)
	assert.Contains(t, env.Message, "draft incomplete")
	assert.Contains(t, env.Message, "step_2")
	assert.Contains(t, env.Message, "step_3")
}

func TestProcessNoDraft(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodPost, "/cash-advance/process", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProcessCompleteDraft(t *testing.T) {
	f := newTestServer(t)

	for i, payload := range validCashAdvanceSteps() {
		path := []string{"/cash-advance/step-one", "/cash-advance/step-two", "/cash-advance/step-three"}[i]
		rec := f.do(t, http.MethodPost, path, payload)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	f.sql.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	f.sql.ExpectExec("INSERT INTO wizard_submissions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	f.sql.ExpectExec("INSERT INTO audit_log").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := f.do(t, http.MethodPost, "/cash-advance/process", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var record submissions.Record
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, "cash-advance", record.WizardID)
	assert.Equal(t, submissions.StatusProcessed, record.Status)
	assert.Regexp(t, `^PF-CA-`, record.ReferenceNo)

	// The draft is cleaned up once the submission is durable.
	assert.False(t, f.redis.Exists("draft:cash-advance:applicant-1"))
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestProcessDuplicate(t *testing.T) {
	f := newTestServer(t)

	for i, payload := range validCashAdvanceSteps() {
		path := []string{"/cash-advance/step-one", "/cash-advance/step-two", "/cash-advance/step-three"}[i]
		rec := f.do(t, http.MethodPost, path, payload)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	f.sql.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rec := f.do(t, http.MethodPost, "/cash-advance/process", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	// The draft survives a rejected process attempt.
	assert.True(t, f.redis.Exists("draft:cash-advance:applicant-1"))
}

func TestArchive(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/cash-advance/step-one", validCashAdvanceSteps()[0])
	require.Equal(t, http.StatusOK, rec.Code)

	f.sql.ExpectExec("UPDATE wizard_submissions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec = f.do(t, http.MethodPost, "/cash-advance/archive", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application archived", decodeEnvelope(t, rec).Message)

	// Archiving flags the draft without destroying it, but the wizard can
	// no longer resume it.
	assert.True(t, f.redis.Exists("draft:cash-advance:applicant-1"))
	assert.NotEmpty(t, f.redis.HGet("draft:cash-advance:applicant-1", "_archived"))
	rec = f.do(t, http.MethodGet, "/cash-advance/cached", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRestoreArchivedDraft(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/cash-advance/step-one", validCashAdvanceSteps()[0])
	require.Equal(t, http.StatusOK, rec.Code)

	f.sql.ExpectExec("UPDATE wizard_submissions").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rec = f.do(t, http.MethodPost, "/cash-advance/archive", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/cash-advance/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application restored", decodeEnvelope(t, rec).Message)

	rec = f.do(t, http.MethodGet, "/cash-advance/cached", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "FETCHED", decodeEnvelope(t, rec).Status)
}

func TestRestoreUnknownWizard(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodPost, "/payroll-deduction/restore", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func (f *testFixture) doDraftSave(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("X-Applicant-ID", "applicant-1")
	req.Header.Set("X-Draft-Save", "true")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestDraftSaveAcceptsPartialStep(t *testing.T) {
	f := newTestServer(t)

	// Only one of the step's required fields is present.
	rec := f.doDraftSave(t, "/cash-advance/step-one", map[string]interface{}{
		"ca_borrower_name": "Maria Santos",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "step_1 draft saved", env.Message)
	assert.Empty(t, env.Data)

	assert.NotEmpty(t, f.redis.HGet("draft:cash-advance:applicant-1", "step_1"))

	// A regular submit of the same partial payload is still gated.
	rec = f.do(t, http.MethodPost, "/cash-advance/step-one", map[string]interface{}{
		"ca_borrower_name": "Maria Santos",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDraftSaveRejectsMalformedJSON(t *testing.T) {
	f := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/cash-advance/step-one", bytes.NewReader([]byte("{not json")))
	req.Header.Set("X-Applicant-ID", "applicant-1")
	req.Header.Set("X-Draft-Save", "true")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, f.redis.Exists("draft:cash-advance:applicant-1"))
}

func TestProcessRejectsPartialDraftSlot(t *testing.T) {
	f := newTestServer(t)

	steps := validCashAdvanceSteps()
	for i, payload := range steps[:2] {
		path := []string{"/cash-advance/step-one", "/cash-advance/step-two"}[i]
		rec := f.do(t, http.MethodPost, path, payload)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	// The last step was parked by save-for-interview with fields missing.
	rec := f.doDraftSave(t, "/cash-advance/step-three", map[string]interface{}{
		"ca_release_method": "cash card",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/cash-advance/process", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	env := decodeError(t, rec)
	assert.Contains(t, env.Message, "step_3")
	assert.NotEmpty(t, env.Errors)

	// The draft stays put for the interview to finish.
	assert.True(t, f.redis.Exists("draft:cash-advance:applicant-1"))
}

func TestApplicantIsolation(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/cash-advance/step-one", validCashAdvanceSteps()[0])
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/cash-advance/cached", nil)
	req.Header.Set("X-Applicant-ID", "someone-else")
	other := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(other, req)
	assert.Equal(t, http.StatusNotFound, other.Code)
}

func TestShutdown(t *testing.T) {
	f := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, f.server.Shutdown(ctx))
}

func TestBorrowerProfileFullStepSet(t *testing.T) {
	f := newTestServer(t)

	payloads := map[string]map[string]interface{}{
		"/borrower-profile/step-one": {
			"bi_first_name":    "Maria",
			"bi_last_name":     "Santos",
			"bi_birth_date":    "1990-03-12",
			"bi_birth_place":   "Cebu City",
			"bi_gender":        "female",
			"bi_civil_status":  "single",
			"bi_mobile_number": "09171234567",
		},
		"/borrower-profile/step-two": {
			"dependents": []map[string]interface{}{
				{"name": "Ana", "birthdate": "2015-05-02"},
			},
		},
		"/borrower-profile/step-three": {
			"same_as_current": true,
			"current_address": map[string]interface{}{
				"street":   "Osmena Blvd",
				"barangay": "Capitol Site",
				"city":     "Cebu City",
				"province": "Cebu",
			},
		},
		"/borrower-profile/step-four": {
			"wi_employer_name":   "Acme Trading",
			"wi_position":        "Clerk",
			"wi_work_address":    "Colon St",
			"wi_monthly_income":  18000,
			"wi_office_map_link": "https://www.google.com/maps/place/Acme",
		},
		"/borrower-profile/step-five": {
			"authorized_persons": []map[string]interface{}{
				{"name": "Pedro Cruz", "relationship": "brother", "contact_number": "09191234567"},
			},
		},
		"/borrower-profile/step-six": {
			"cc_card_holder_name": "Maria Santos",
			"cc_card_number":      "4111222233334444",
			"cc_expiry_date":      "2028-01-01",
		},
		"/borrower-profile/step-seven": {
			"vf_id_presented": "passport",
			"vf_id_number":    "P1234567",
			"vf_acknowledged": true,
		},
	}
	for path, payload := range payloads {
		rec := f.do(t, http.MethodPost, path, payload)
		assert.Equal(t, http.StatusOK, rec.Code, "path %s: %s", path, rec.Body.String())
	}
}

func TestVerificationAcknowledgementRequired(t *testing.T) {
	f := newTestServer(t)

	payload := map[string]interface{}{
		"vf_id_presented": "passport",
		"vf_id_number":    "P1234567",
		"vf_acknowledged": false,
	}
	rec := f.do(t, http.MethodPost, "/borrower-profile/step-seven", payload)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, decodeError(t, rec).Errors["vf_acknowledged"])
}
