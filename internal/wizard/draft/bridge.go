// Package draft implements the bridge between a wizard shell and the remote
// draft store: fetching cached partial submissions, persisting per-step
// payloads, and translating server-side field errors back into UI field
// names.
package draft

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "philfund-wizard/internal/common/errors"
	"philfund-wizard/internal/common/httpapi"
	"philfund-wizard/internal/common/logger"
	"philfund-wizard/internal/wizard"
)

// Endpoints maps a wizard onto its API surface.
type Endpoints struct {
	// Cached is the GET path returning the per-step draft map,
	// e.g. "/borrower-profile/cached".
	Cached string

	// Steps maps each step to its POST path, e.g. "/borrower-profile/step-one".
	Steps map[wizard.Step]string
}

// Bridge is the HTTP-backed wizard.DraftBridge.
type Bridge struct {
	client     *httpapi.Client
	endpoints  Endpoints
	translator Translator
	log        logger.Logger
}

func NewBridge(client *httpapi.Client, endpoints Endpoints, translator Translator, log logger.Logger) *Bridge {
	if translator == nil {
		translator = identityTranslator{}
	}
	return &Bridge{
		client:     client,
		endpoints:  endpoints,
		translator: translator,
		log:        log,
	}
}

// FetchCachedDraft returns the server-held partial submission. A 404 means
// no draft exists; transport failures surface as NETWORK_ERROR and other
// server failures as DRAFT_FETCH_FAILED.
func (b *Bridge) FetchCachedDraft(ctx context.Context) (wizard.CachedDraft, bool, error) {
	envelope, err := b.client.Request(ctx, http.MethodGet, b.endpoints.Cached, nil, httpapi.Options{
		UseAuth:     true,
		UseBranchID: true,
	})
	if err != nil {
		if apiErr, ok := err.(*httpapi.APIError); ok {
			if apiErr.IsNotFound() {
				return nil, false, nil
			}
			return nil, false, apperrors.NewDraftFetchFailedError(apiErr)
		}
		return nil, false, apperrors.NewNetworkError("fetchCachedDraft", err)
	}

	var cached wizard.CachedDraft
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &cached); err != nil {
			return nil, false, apperrors.NewDraftFetchFailedError(err)
		}
	}
	if len(cached) == 0 {
		return nil, false, nil
	}
	return cached, true, nil
}

// SubmitStep upserts one step's payload. Server field errors come back as a
// SERVER_VALIDATION_FAILED error whose FieldErrors are already translated to
// UI names; transport failures come back as NETWORK_ERROR.
func (b *Bridge) SubmitStep(ctx context.Context, step wizard.Step, payload map[string]interface{}) (json.RawMessage, error) {
	return b.submit(ctx, step, payload, false)
}

// SaveDraftStep upserts one step's payload in draft mode: the server stores
// the slot as-is, without gating it on the step's required fields, so a
// partially filled step survives a save-for-interview.
func (b *Bridge) SaveDraftStep(ctx context.Context, step wizard.Step, payload map[string]interface{}) (json.RawMessage, error) {
	return b.submit(ctx, step, payload, true)
}

func (b *Bridge) submit(ctx context.Context, step wizard.Step, payload map[string]interface{}, draftSave bool) (json.RawMessage, error) {
	path, ok := b.endpoints.Steps[step]
	if !ok {
		return nil, apperrors.NewSubmissionFailedError(string(step), errNoEndpoint{step})
	}

	envelope, err := b.client.Request(ctx, http.MethodPost, path, payload, httpapi.Options{
		UseAuth:     true,
		UseBranchID: true,
		DraftSave:   draftSave,
	})
	if err != nil {
		apiErr, ok := err.(*httpapi.APIError)
		if !ok {
			return nil, apperrors.NewNetworkError("submitStep", err)
		}
		if len(apiErr.Errors) > 0 {
			return nil, apperrors.NewServerValidationError(string(step), b.translateFieldErrors(apiErr.Errors))
		}
		return nil, apperrors.NewSubmissionFailedError(string(step), apiErr)
	}

	b.log.Debug("step submitted", map[string]interface{}{
		"step":   string(step),
		"status": envelope.Status,
	})
	return envelope.Data, nil
}

// translateFieldErrors maps server field names onto UI names, keeping the
// first message per field. Untranslatable names pass through unchanged so a
// new server field still surfaces somewhere visible.
func (b *Bridge) translateFieldErrors(serverErrors map[string][]string) map[string]string {
	out := make(map[string]string, len(serverErrors))
	for serverField, messages := range serverErrors {
		if len(messages) == 0 {
			continue
		}
		uiField := b.translator.Translate(serverField)
		if _, exists := out[uiField]; !exists {
			out[uiField] = messages[0]
		}
	}
	return out
}

type errNoEndpoint struct {
	step wizard.Step
}

func (e errNoEndpoint) Error() string {
	return "no submit endpoint configured for step " + string(e.step)
}
