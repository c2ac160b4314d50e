package audit

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Event struct {
	ActorID  *uuid.UUID `json:"actor_id,omitempty"`
	Role     string     `json:"role"`
	Action   string     `json:"action"`
	Entity   string     `json:"entity"`
	EntityID *uuid.UUID `json:"entity_id,omitempty"`
	Metadata any        `json:"metadata,omitempty"`
}

// Sink recebe eventos fora do caminho da request.
type Sink interface {
	Handle(ev Event) error
}

type Dispatcher struct {
	sinks []Sink
	queue chan Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan Event, 100), // buffer seguro
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			if err := s.Handle(ev); err != nil {
				log.WithError(err).
					WithField("action", ev.Action).
					Warn("audit sink error")
			}
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		log.WithField("action", ev.Action).Warn("audit closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		log.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close drena a fila; eventos posteriores são descartados.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}

// Emitter é o lado de quem publica; *Dispatcher implementa.
type Emitter interface {
	Dispatch(ev Event)
}

var _ Emitter = (*Dispatcher)(nil)
