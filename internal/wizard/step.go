// Package wizard implements the multi-step form engine shared by the
// borrower-profile, cash-advance, and loan-computation flows: an aggregate
// store with partial updates, per-step validators, an ordered step sequencer
// with monotonic tab unlocking, and a shell that ties them to the remote
// draft store.
package wizard

import (
	"encoding/json"
	"fmt"
)

// Step identifies one named section of a wizard.
type Step string

// Sequence is the fixed ordered step list of one wizard.
type Sequence []Step

// Index returns the position of step in the sequence, or -1.
func (s Sequence) Index(step Step) int {
	for i, candidate := range s {
		if candidate == step {
			return i
		}
	}
	return -1
}

// Contains reports whether step is a member of the sequence.
func (s Sequence) Contains(step Step) bool {
	return s.Index(step) >= 0
}

// Next returns the step after the given one; ok is false on the last step or
// when step is not in the sequence.
func (s Sequence) Next(step Step) (Step, bool) {
	i := s.Index(step)
	if i < 0 || i >= len(s)-1 {
		return "", false
	}
	return s[i+1], true
}

func (s Sequence) First() Step {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func (s Sequence) Last() Step {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

// CachedDraft is a server-held partial submission keyed by draft slot
// ("step_1", "step_2", ...). A present key means that step was previously
// submitted and unlocks the step after it.
type CachedDraft map[string]json.RawMessage

// DraftKey returns the draft slot name for the 1-based step position.
func DraftKey(position int) string {
	return fmt.Sprintf("step_%d", position)
}

// Payload returns the cached payload for the 1-based step position.
func (d CachedDraft) Payload(position int) (json.RawMessage, bool) {
	raw, ok := d[DraftKey(position)]
	return raw, ok
}

// ComputeEnabledSteps returns the ordered subset of steps reachable given
// which draft slots are present. Step 1 is always enabled; step N is enabled
// iff step N-1 was submitted. The walk stops at the first gap, which keeps
// the unlock monotonic even if the store holds orphaned later slots.
func ComputeEnabledSteps(draft CachedDraft, steps Sequence) []Step {
	if len(steps) == 0 {
		return nil
	}
	enabled := []Step{steps.First()}
	for i := 1; i < len(steps); i++ {
		if _, ok := draft[DraftKey(i)]; !ok {
			break
		}
		enabled = append(enabled, steps[i])
	}
	return enabled
}
