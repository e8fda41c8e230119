package audit

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/alpha-clean/internal/logging"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Publisher é o que handlers e use cases enxergam.
type Publisher interface {
	Dispatch(ev Event)
}

type Dispatcher struct {
	store  Store
	logger *logging.Logger
	queue  chan Event
	wg     sync.WaitGroup
}

func NewDispatcher(store Store, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Discard()
	}

	d := &Dispatcher{
		store:  store,
		logger: logger,
		queue:  make(chan Event, 100), // buffer seguro
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		if err := d.store.Save(context.Background(), toEntry(ev)); err != nil {
			d.logger.Error("audit error", "action", ev.Action, "error", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.logger.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close esvazia a fila e espera o worker terminar.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

// Nop descarta eventos.
type Nop struct{}

func (Nop) Dispatch(Event) {}
