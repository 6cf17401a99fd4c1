package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"philfund-wizard/internal/common/config"
	"philfund-wizard/internal/common/httpapi"
	"philfund-wizard/internal/common/logger"
	"philfund-wizard/internal/notify"
	"philfund-wizard/internal/wizard"
	"philfund-wizard/internal/wizard/draft"
	borrowerprofile "philfund-wizard/internal/wizards/borrower-profile"
)

// Drives the borrower-profile shell against the real server over HTTP to
// verify save-for-interview end to end: a half-filled first step is parked
// in the draft store even though a regular submit would be gated.
func TestShellSaveDraftRoundTrip(t *testing.T) {
	f := newTestServer(t)
	srv := httptest.NewServer(f.server.Handler())
	defer srv.Close()

	client := httpapi.NewClient(config.APIConfig{
		BaseURL:   srv.URL,
		Timeout:   2000,
		AuthToken: "test-token",
		BranchID:  "branch-7",
	})

	var shell *wizard.Shell[borrowerprofile.Aggregate]
	translator := borrowerprofile.NewTranslator(func() *borrowerprofile.Aggregate {
		return shell.Aggregate()
	})
	bridge := draft.NewBridge(client, borrowerprofile.Endpoints, translator, logger.NewTestLogger(t))

	rec := notify.NewRecorder()
	shell = wizard.NewShell(borrowerprofile.NewDefinition(nil, nil), bridge, rec, logger.NewTestLogger(t))
	shell.Open(context.Background())

	// First name alone would never clear the basic-info validators.
	shell.Update(wizard.Patch{"firstName": "Maria"})
	require.NoError(t, shell.SaveDraft(context.Background()))

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.LevelSuccess, last.Level)
	assert.Equal(t, "Draft Saved", last.Title)

	// The client identifies itself by branch, so the slot lands under it.
	slot := f.redis.HGet("draft:borrower-profile:branch-7", "step_1")
	require.NotEmpty(t, slot)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(slot), &fields))
	assert.Equal(t, "Maria", fields["bi_first_name"])
}

// Reopening the wizard after a save-for-interview restores the parked step.
func TestShellResumeSavedDraft(t *testing.T) {
	f := newTestServer(t)
	srv := httptest.NewServer(f.server.Handler())
	defer srv.Close()

	client := httpapi.NewClient(config.APIConfig{
		BaseURL:   srv.URL,
		Timeout:   2000,
		AuthToken: "test-token",
		BranchID:  "branch-7",
	})

	newShell := func() *wizard.Shell[borrowerprofile.Aggregate] {
		var shell *wizard.Shell[borrowerprofile.Aggregate]
		translator := borrowerprofile.NewTranslator(func() *borrowerprofile.Aggregate {
			return shell.Aggregate()
		})
		bridge := draft.NewBridge(client, borrowerprofile.Endpoints, translator, logger.NewTestLogger(t))
		shell = wizard.NewShell(borrowerprofile.NewDefinition(nil, nil), bridge, notify.NewRecorder(), logger.NewTestLogger(t))
		return shell
	}

	first := newShell()
	first.Open(context.Background())
	first.Update(wizard.Patch{"firstName": "Maria", "lastName": "Santos"})
	require.NoError(t, first.SaveDraft(context.Background()))

	second := newShell()
	second.Open(context.Background())
	agg := second.Aggregate()
	assert.Equal(t, "Maria", agg.FirstName)
	assert.Equal(t, "Santos", agg.LastName)
}
