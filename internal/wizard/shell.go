package wizard

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	apperrors "philfund-wizard/internal/common/errors"
	"philfund-wizard/internal/common/logger"
	"philfund-wizard/internal/common/metrics"
	"philfund-wizard/internal/notify"
)

// DraftBridge is the remote draft store seam. FetchCachedDraft and
// SubmitStep are the only blocking operations a wizard performs.
type DraftBridge interface {
	// FetchCachedDraft returns the cached partial submission, or found=false
	// when the server holds nothing for this wizard instance.
	FetchCachedDraft(ctx context.Context) (CachedDraft, bool, error)

	// SubmitStep upserts one step's validated payload. The returned raw data
	// is the server's response body, used to prefill server-derived defaults.
	SubmitStep(ctx context.Context, step Step, payload map[string]interface{}) (json.RawMessage, error)

	// SaveDraftStep upserts one step's payload as-is. The server skips its
	// required-field gating, so a partially filled step is stored.
	SaveDraftStep(ctx context.Context, step Step, payload map[string]interface{}) (json.RawMessage, error)
}

// StepDef binds one step to its validator and submission payload builder.
type StepDef[A any] struct {
	ID       Step
	Validate func(*A) ValidationErrors
	Payload  func(*A) map[string]interface{}

	// AfterSubmit merges server-derived fields from the submission response
	// into the aggregate (e.g. a promissory note number). Optional.
	AfterSubmit func(*A, json.RawMessage)
}

// TerminalFunc performs a terminal action (Process, Archive) against an
// external submission collaborator.
type TerminalFunc[A any] func(context.Context, *A) error

// Definition describes one complete wizard: its ordered steps, aggregate
// defaults, patch semantics, and terminal actions.
type Definition[A any] struct {
	ID         string
	Steps      []StepDef[A]
	Defaults   func() *A
	Apply      ApplyFunc[A]
	Derive     DeriveFunc[A]
	MergeDraft func(*A, CachedDraft)

	Process TerminalFunc[A]
	Archive TerminalFunc[A]
}

// Sequence returns the ordered step identifiers.
func (d *Definition[A]) Sequence() Sequence {
	steps := make(Sequence, len(d.Steps))
	for i, def := range d.Steps {
		steps[i] = def.ID
	}
	return steps
}

func (d *Definition[A]) stepDef(id Step) (StepDef[A], bool) {
	for _, def := range d.Steps {
		if def.ID == id {
			return def, true
		}
	}
	return StepDef[A]{}, false
}

// Shell owns one wizard instance: the aggregate store, the sequencer, and
// the draft bridge. All state transitions are serialized behind its mutex;
// the store and errors live exactly as long as the shell and are discarded
// on Cancel.
type Shell[A any] struct {
	def      *Definition[A]
	store    *Store[A]
	seq      *Sequencer
	bridge   DraftBridge
	notifier notify.Notifier
	log      logger.Logger

	notifyDuration time.Duration

	mu            sync.Mutex
	inFlight      bool
	mounted       bool
	terminalReady bool
}

// Option configures a Shell.
type Option func(*shellOptions)

type shellOptions struct {
	notifyDuration time.Duration
}

// WithNotifyDuration overrides the default toast duration.
func WithNotifyDuration(d time.Duration) Option {
	return func(o *shellOptions) {
		o.notifyDuration = d
	}
}

func NewShell[A any](def *Definition[A], bridge DraftBridge, notifier notify.Notifier, log logger.Logger, opts ...Option) *Shell[A] {
	options := shellOptions{notifyDuration: 5 * time.Second}
	for _, opt := range opts {
		opt(&options)
	}

	return &Shell[A]{
		def:            def,
		store:          NewStore(def.Defaults(), def.Apply, def.Derive),
		seq:            NewSequencer(def.Sequence()),
		bridge:         bridge,
		notifier:       notifier,
		log:            log,
		notifyDuration: options.notifyDuration,
		mounted:        true,
	}
}

// Open fetches the cached draft and overlays it onto the default aggregate.
// Transport failures are logged and treated as "no draft": the wizard still
// opens with defaults so the user is never locked out by a flaky network.
func (s *Shell[A]) Open(ctx context.Context) {
	draft, found, err := s.bridge.FetchCachedDraft(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return
	}

	if err != nil {
		metrics.DraftCacheMisses.WithLabelValues(s.def.ID).Inc()
		s.log.WithError(err).Warn("cached draft fetch failed, opening with defaults", map[string]interface{}{
			"wizard": s.def.ID,
		})
		return
	}
	if !found {
		metrics.DraftCacheMisses.WithLabelValues(s.def.ID).Inc()
		return
	}

	metrics.DraftCacheHits.WithLabelValues(s.def.ID).Inc()
	if s.def.MergeDraft != nil {
		s.def.MergeDraft(s.store.Aggregate(), draft)
		if s.def.Derive != nil {
			s.def.Derive(s.store.Aggregate())
		}
	}
	s.seq.SetEnabled(ComputeEnabledSteps(draft, s.seq.Steps()))
}

// Update shallow-merges a patch into the aggregate.
func (s *Shell[A]) Update(p Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return
	}
	s.store.Update(p)
}

// Aggregate returns the live aggregate.
func (s *Shell[A]) Aggregate() *A {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Aggregate()
}

// Errors returns a copy of the current validation errors.
func (s *Shell[A]) Errors() ValidationErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Errors().Clone()
}

// Active returns the active step.
func (s *Shell[A]) Active() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Active()
}

// EnabledSteps returns the steps the user may navigate to, in order.
func (s *Shell[A]) EnabledSteps() []Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Enabled()
}

// ValidateActive runs the active step's validator, replaces that step's
// error namespace wholesale, and returns a copy of the result.
func (s *Shell[A]) ValidateActive() ValidationErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateActiveLocked()
}

func (s *Shell[A]) validateActiveLocked() ValidationErrors {
	def, ok := s.def.stepDef(s.seq.Active())
	if !ok || def.Validate == nil {
		return ValidationErrors{}
	}
	errs := def.Validate(s.store.Aggregate())
	s.store.SetErrors(errs.Clone())
	if errs.IsEmpty() && s.seq.IsLast() {
		s.terminalReady = true
	}
	return errs
}

// Next validates the active step and, when valid, submits its payload to
// the draft store before advancing. A second Next while a submission is in
// flight is ignored; a failed validation or submission never advances.
// Exactly one notification is emitted per failed attempt.
func (s *Shell[A]) Next(ctx context.Context) error {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return nil
	}
	if s.inFlight {
		s.log.Debug("next ignored: submission already in flight", map[string]interface{}{
			"wizard": s.def.ID,
			"step":   string(s.seq.Active()),
		})
		s.mu.Unlock()
		return nil
	}

	step := s.seq.Active()
	errs := s.validateActiveLocked()
	if !errs.IsEmpty() {
		metrics.ValidationFailures.WithLabelValues(s.def.ID, string(step)).Inc()
		s.mu.Unlock()
		s.notifyError("Validation Failed", "Please correct the highlighted fields before continuing.")
		return apperrors.NewValidationFailedError(string(step), len(errs))
	}

	if s.seq.IsLast() {
		// Last step has no next; terminal actions take over.
		s.mu.Unlock()
		return nil
	}

	def, _ := s.def.stepDef(step)
	payload := map[string]interface{}{}
	if def.Payload != nil {
		payload = def.Payload(s.store.Aggregate())
	}
	s.inFlight = true
	s.mu.Unlock()

	started := time.Now()
	data, err := s.bridge.SubmitStep(ctx, step, payload)

	s.mu.Lock()
	s.inFlight = false
	if !s.mounted {
		// Wizard cancelled while the submission was in flight; discard.
		s.mu.Unlock()
		return nil
	}

	if err != nil {
		s.mu.Unlock()
		return s.reportSubmitFailure(step, err)
	}

	if def.AfterSubmit != nil {
		def.AfterSubmit(s.store.Aggregate(), data)
		if s.def.Derive != nil {
			s.def.Derive(s.store.Aggregate())
		}
	}

	// Refetch the cached draft before re-reading the enabled set so the UI
	// never renders a stale locked tab.
	s.refreshEnabledLocked(ctx)
	s.seq.Advance()

	metrics.StepsSubmitted.WithLabelValues(s.def.ID, string(step)).Inc()
	metrics.SubmissionDuration.WithLabelValues(s.def.ID, string(step)).Observe(time.Since(started).Seconds())
	s.mu.Unlock()

	s.notifier.Notify(notify.Notification{
		Level:       notify.LevelSuccess,
		Title:       "Step Saved",
		Description: "Your progress has been saved.",
		Duration:    s.notifyDuration,
	})
	return nil
}

func (s *Shell[A]) refreshEnabledLocked(ctx context.Context) {
	draft, found, err := s.bridge.FetchCachedDraft(ctx)
	if err != nil || !found {
		// The submit succeeded, so the next step is unlocked even if the
		// refetch did not come back.
		next, ok := s.seq.Steps().Next(s.seq.Active())
		if ok {
			s.seq.SetEnabled(append(s.seq.Enabled(), next))
		}
		if err != nil {
			s.log.WithError(err).Warn("draft refetch after submit failed", map[string]interface{}{
				"wizard": s.def.ID,
			})
		}
		return
	}
	s.seq.SetEnabled(ComputeEnabledSteps(draft, s.seq.Steps()))
}

func (s *Shell[A]) reportSubmitFailure(step Step, err error) error {
	stdErr, ok := err.(*apperrors.StandardError)
	if !ok {
		stdErr = apperrors.NewUnexpectedError(err)
	}

	metrics.StepsRejected.WithLabelValues(s.def.ID, string(step), string(stdErr.Code)).Inc()

	switch stdErr.Code {
	case apperrors.ErrCodeServerValidationFailed:
		serverErrs := ValidationErrors{}
		for field, message := range stdErr.FieldErrors {
			serverErrs.Add(field, message)
		}
		s.mu.Lock()
		s.store.SetErrors(serverErrs)
		s.mu.Unlock()
		s.notifyError("Submission Rejected", "The server rejected some fields. Please review and resubmit.")
	case apperrors.ErrCodeNetworkError:
		// Aggregate left untouched so the user can retry without re-entry.
		s.notifyError("Network Error", "Could not reach the server. Please check your connection and try again.")
	default:
		s.log.WithError(stdErr).Error("step submission failed", map[string]interface{}{
			"wizard": s.def.ID,
			"step":   string(step),
		})
		s.notifyError("Something Went Wrong", "An unexpected error occurred. You can retry or cancel.")
	}
	return stdErr
}

// GoTo jumps to a previously unlocked step. Navigation is rejected while a
// submission for the current step is outstanding.
func (s *Shell[A]) GoTo(step Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return nil
	}
	if s.inFlight {
		return apperrors.NewStepInFlightError(string(s.seq.Active()))
	}
	return s.seq.GoTo(step)
}

// SaveDraft persists the active step's payload as-is, without requiring the
// step to validate. Used by the "Save for Interview" action.
func (s *Shell[A]) SaveDraft(ctx context.Context) error {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return nil
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil
	}
	step := s.seq.Active()
	def, ok := s.def.stepDef(step)
	if !ok || def.Payload == nil {
		s.mu.Unlock()
		return nil
	}
	payload := def.Payload(s.store.Aggregate())
	s.inFlight = true
	s.mu.Unlock()

	_, err := s.bridge.SaveDraftStep(ctx, step, payload)

	s.mu.Lock()
	s.inFlight = false
	mounted := s.mounted
	s.mu.Unlock()
	if !mounted {
		return nil
	}

	if err != nil {
		return s.reportSubmitFailure(step, err)
	}
	s.notifier.Notify(notify.Notification{
		Level:       notify.LevelSuccess,
		Title:       "Draft Saved",
		Description: "You can resume this application later.",
		Duration:    s.notifyDuration,
	})
	return nil
}

// Process runs the terminal submission. It is only available on the last
// step and validates that step first, which satisfies the gate that the
// final step must have passed validation at least once.
func (s *Shell[A]) Process(ctx context.Context) error {
	return s.terminal(ctx, "Process", s.def.Process, true)
}

// Archive archives the draft. Non-destructive: the cached draft is kept and
// only flagged, so the application can be restored later.
func (s *Shell[A]) Archive(ctx context.Context) error {
	return s.terminal(ctx, "Archive", s.def.Archive, false)
}

func (s *Shell[A]) terminal(ctx context.Context, action string, fn TerminalFunc[A], countProcessed bool) error {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return nil
	}
	if !s.seq.IsLast() {
		step := s.seq.Active()
		s.mu.Unlock()
		return apperrors.NewStepLockedError(string(step))
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil
	}

	errs := s.validateActiveLocked()
	if !errs.IsEmpty() {
		step := s.seq.Active()
		metrics.ValidationFailures.WithLabelValues(s.def.ID, string(step)).Inc()
		s.mu.Unlock()
		s.notifyError("Validation Failed", "Please correct the highlighted fields before continuing.")
		return apperrors.NewValidationFailedError(string(step), len(errs))
	}

	if fn == nil {
		s.mu.Unlock()
		s.log.Warn("terminal action has no collaborator configured", map[string]interface{}{
			"wizard": s.def.ID,
			"action": action,
		})
		return nil
	}

	agg := s.store.Aggregate()
	s.inFlight = true
	s.mu.Unlock()

	err := fn(ctx, agg)

	s.mu.Lock()
	s.inFlight = false
	mounted := s.mounted
	s.mu.Unlock()
	if !mounted {
		return nil
	}

	if err != nil {
		return s.reportSubmitFailure(s.def.Sequence().Last(), err)
	}

	if countProcessed {
		metrics.WizardsProcessed.WithLabelValues(s.def.ID).Inc()
	}
	s.notifier.Notify(notify.Notification{
		Level:       notify.LevelSuccess,
		Title:       action + " Complete",
		Description: "The application has been " + actionPastTense(action) + ".",
		Duration:    s.notifyDuration,
	})
	return nil
}

func actionPastTense(action string) string {
	switch action {
	case "Process":
		return "processed"
	case "Archive":
		return "archived"
	default:
		return "completed"
	}
}

// Cancel discards the in-memory aggregate and unmounts the shell. An
// in-flight submission is not cancelled, but its result is discarded.
func (s *Shell[A]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = false
	s.store.Reset(s.def.Defaults())
}

// TerminalReady reports whether Process/Archive are unlocked: active step is
// the last one and it has validated at least once.
func (s *Shell[A]) TerminalReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.IsLast() && s.terminalReady
}

func (s *Shell[A]) notifyError(title, description string) {
	s.notifier.Notify(notify.Notification{
		Level:       notify.LevelError,
		Title:       title,
		Description: description,
		Duration:    s.notifyDuration,
	})
}
