package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "philfund-wizard/internal/common/errors"
)

func newTestSequencer() *Sequencer {
	return NewSequencer(Sequence{"one", "two", "three"})
}

func TestSequencerInitialState(t *testing.T) {
	s := newTestSequencer()

	assert.Equal(t, Step("one"), s.Active())
	assert.False(t, s.IsLast())
	assert.Equal(t, []Step{"one"}, s.Enabled())
	assert.True(t, s.IsEnabled("one"))
	assert.False(t, s.IsEnabled("two"))
}

func TestSequencerAdvanceEnablesNext(t *testing.T) {
	s := newTestSequencer()

	s.Advance()
	assert.Equal(t, Step("two"), s.Active())
	assert.Equal(t, []Step{"one", "two"}, s.Enabled())

	s.Advance()
	assert.Equal(t, Step("three"), s.Active())
	assert.True(t, s.IsLast())

	// Advancing past the last step is a no-op.
	s.Advance()
	assert.Equal(t, Step("three"), s.Active())
}

func TestSequencerGoToEnabledStep(t *testing.T) {
	s := newTestSequencer()
	s.Advance()
	s.Advance()

	require.NoError(t, s.GoTo("one"))
	assert.Equal(t, Step("one"), s.Active())

	// Previously unlocked steps stay reachable after going back.
	require.NoError(t, s.GoTo("three"))
	assert.Equal(t, Step("three"), s.Active())
}

func TestSequencerGoToLockedStep(t *testing.T) {
	s := newTestSequencer()

	err := s.GoTo("three")
	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeStepLocked, stdErr.Code)
	assert.Equal(t, Step("one"), s.Active(), "active step must not move on a rejected jump")
}

func TestSequencerGoToUnknownStep(t *testing.T) {
	s := newTestSequencer()
	err := s.GoTo("bogus")
	require.Error(t, err)
}

func TestSequencerSetEnabledKeepsFirstAndActive(t *testing.T) {
	s := newTestSequencer()
	s.Advance()

	// A recomputed unlock list that omits the active step cannot strand it.
	s.SetEnabled([]Step{})
	assert.True(t, s.IsEnabled("one"))
	assert.True(t, s.IsEnabled("two"))
	assert.False(t, s.IsEnabled("three"))
}

func TestSequencerSetEnabledOrdersBySequence(t *testing.T) {
	s := newTestSequencer()
	s.SetEnabled([]Step{"three", "one", "two"})
	assert.Equal(t, []Step{"one", "two", "three"}, s.Enabled())
}
