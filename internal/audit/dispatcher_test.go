package audit_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/rental-scheduler/internal/audit"
)

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (s *recordingSink) Handle(ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func TestDispatcherFansOutToEverySink(t *testing.T) {
	db := &recordingSink{}
	broker := &recordingSink{err: errors.New("broker down")}
	d := audit.NewDispatcher(db, broker)

	id := uuid.New()
	d.Dispatch(audit.Event{Action: "reservation_created", Entity: "reservation", EntityID: &id})
	d.Dispatch(audit.Event{Action: "reservation_confirmed", Entity: "reservation", EntityID: &id})
	d.Close()

	// erro de um sink não impede os outros
	require.Len(t, db.events, 2)
	require.Len(t, broker.events, 2)
	assert.Equal(t, "reservation_created", db.events[0].Action)
	assert.Equal(t, "reservation_confirmed", db.events[1].Action)
}

func TestDispatcherDropsAfterClose(t *testing.T) {
	sink := &recordingSink{}
	d := audit.NewDispatcher(sink)
	d.Close()
	d.Close()

	assert.NotPanics(t, func() {
		d.Dispatch(audit.Event{Action: "late"})
	})
	assert.Empty(t, sink.events)
}
