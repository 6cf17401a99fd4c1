package wizard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceNavigation(t *testing.T) {
	seq := Sequence{"basic-info", "dependents", "verification"}

	assert.Equal(t, 0, seq.Index("basic-info"))
	assert.Equal(t, 2, seq.Index("verification"))
	assert.Equal(t, -1, seq.Index("unknown"))
	assert.True(t, seq.Contains("dependents"))
	assert.False(t, seq.Contains("unknown"))
	assert.Equal(t, Step("basic-info"), seq.First())
	assert.Equal(t, Step("verification"), seq.Last())

	next, ok := seq.Next("basic-info")
	assert.True(t, ok)
	assert.Equal(t, Step("dependents"), next)

	_, ok = seq.Next("verification")
	assert.False(t, ok)

	_, ok = seq.Next("unknown")
	assert.False(t, ok)
}

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "step_1", DraftKey(1))
	assert.Equal(t, "step_7", DraftKey(7))
}

func TestCachedDraftPayload(t *testing.T) {
	draft := CachedDraft{
		"step_1": json.RawMessage(`{"bi_first_name":"Maria"}`),
	}

	raw, ok := draft.Payload(1)
	assert.True(t, ok)
	assert.JSONEq(t, `{"bi_first_name":"Maria"}`, string(raw))

	_, ok = draft.Payload(2)
	assert.False(t, ok)
}

func TestComputeEnabledSteps(t *testing.T) {
	steps := Sequence{"one", "two", "three", "four"}

	tests := []struct {
		name     string
		draft    CachedDraft
		expected []Step
	}{
		{
			name:     "empty draft enables only the first step",
			draft:    CachedDraft{},
			expected: []Step{"one"},
		},
		{
			name: "each submitted slot unlocks the next step",
			draft: CachedDraft{
				"step_1": json.RawMessage(`{}`),
				"step_2": json.RawMessage(`{}`),
			},
			expected: []Step{"one", "two", "three"},
		},
		{
			name: "full draft enables every step",
			draft: CachedDraft{
				"step_1": json.RawMessage(`{}`),
				"step_2": json.RawMessage(`{}`),
				"step_3": json.RawMessage(`{}`),
			},
			expected: []Step{"one", "two", "three", "four"},
		},
		{
			name: "gap stops the unlock walk",
			draft: CachedDraft{
				"step_1": json.RawMessage(`{}`),
				"step_3": json.RawMessage(`{}`),
			},
			expected: []Step{"one", "two"},
		},
		{
			name: "orphaned later slot alone unlocks nothing extra",
			draft: CachedDraft{
				"step_3": json.RawMessage(`{}`),
			},
			expected: []Step{"one"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeEnabledSteps(tt.draft, steps))
		})
	}
}

func TestComputeEnabledStepsEmptySequence(t *testing.T) {
	assert.Nil(t, ComputeEnabledSteps(CachedDraft{}, Sequence{}))
}
