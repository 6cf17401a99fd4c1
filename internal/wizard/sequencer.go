package wizard

import (
	apperrors "philfund-wizard/internal/common/errors"
)

// Sequencer tracks the active step within a fixed ordered sequence and the
// set of steps the user may navigate to directly. Advancing past validation
// is the shell's job; the sequencer only moves.
type Sequencer struct {
	steps   Sequence
	active  int
	enabled map[Step]bool
}

func NewSequencer(steps Sequence) *Sequencer {
	s := &Sequencer{
		steps:   steps,
		enabled: make(map[Step]bool, len(steps)),
	}
	if len(steps) > 0 {
		s.enabled[steps.First()] = true
	}
	return s
}

// Active returns the current step.
func (s *Sequencer) Active() Step {
	if s.active < 0 || s.active >= len(s.steps) {
		return ""
	}
	return s.steps[s.active]
}

// IsLast reports whether the active step is the final one.
func (s *Sequencer) IsLast() bool {
	return s.active == len(s.steps)-1
}

// Steps returns the full ordered sequence.
func (s *Sequencer) Steps() Sequence {
	return s.steps
}

// Advance moves to the next step and enables it. On the last step it is a
// no-op; the last step exposes terminal actions instead.
func (s *Sequencer) Advance() {
	if s.IsLast() {
		return
	}
	s.active++
	s.enabled[s.steps[s.active]] = true
}

// GoTo jumps directly to an enabled step. It is a navigation convenience,
// not a skip: submission still requires every step to validate in order.
func (s *Sequencer) GoTo(step Step) error {
	i := s.steps.Index(step)
	if i < 0 {
		return apperrors.NewStepLockedError(string(step))
	}
	if !s.enabled[step] {
		return apperrors.NewStepLockedError(string(step))
	}
	s.active = i
	return nil
}

// SetEnabled replaces the enabled set from a recomputed unlock list. The
// first step and the active step stay enabled regardless.
func (s *Sequencer) SetEnabled(steps []Step) {
	enabled := make(map[Step]bool, len(steps)+2)
	for _, step := range steps {
		enabled[step] = true
	}
	if len(s.steps) > 0 {
		enabled[s.steps.First()] = true
	}
	enabled[s.Active()] = true
	s.enabled = enabled
}

// Enabled returns the enabled steps in sequence order.
func (s *Sequencer) Enabled() []Step {
	out := make([]Step, 0, len(s.enabled))
	for _, step := range s.steps {
		if s.enabled[step] {
			out = append(out, step)
		}
	}
	return out
}

// IsEnabled reports whether the step may be navigated to.
func (s *Sequencer) IsEnabled(step Step) bool {
	return s.enabled[step]
}
