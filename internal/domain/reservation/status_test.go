package reservation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
)

var allStatuses = []reservation.Status{
	reservation.StatusPending,
	reservation.StatusConfirmed,
	reservation.StatusInProgress,
	reservation.StatusCompleted,
	reservation.StatusCancelled,
}

func TestTransitionTable(t *testing.T) {
	legal := map[reservation.Status][]reservation.Status{
		reservation.StatusPending:    {reservation.StatusConfirmed, reservation.StatusCancelled},
		reservation.StatusConfirmed:  {reservation.StatusInProgress, reservation.StatusCancelled},
		reservation.StatusInProgress: {reservation.StatusCompleted, reservation.StatusCancelled},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, ok := range legal[from] {
				if ok == to {
					want = true
				}
			}

			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)

			err := reservation.CanTransition(from, to)
			if want {
				assert.NoError(t, err)
			} else {
				assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition), "%s -> %s", from, to)
			}
		}
	}
}

func TestTerminalStatusesHaveNoExit(t *testing.T) {
	assert.True(t, reservation.StatusCompleted.IsTerminal())
	assert.True(t, reservation.StatusCancelled.IsTerminal())
	assert.False(t, reservation.StatusPending.IsTerminal())
	assert.False(t, reservation.StatusInProgress.IsTerminal())
}

func TestExclusiveStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]reservation.Status{reservation.StatusConfirmed, reservation.StatusInProgress},
		reservation.ExclusiveStatuses(),
	)

	for _, st := range reservation.ExclusiveStatuses() {
		assert.True(t, st.IsExclusive())
	}
	assert.False(t, reservation.StatusPending.IsExclusive())
}

func TestParseStatus(t *testing.T) {
	st, err := reservation.ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusInProgress, st)

	_, err = reservation.ParseStatus("active")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}

func TestInitialStatusIsPending(t *testing.T) {
	assert.Equal(t, reservation.StatusPending, reservation.InitialStatus())
}
