package shared

import (
	"fmt"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
	"github.com/vsinha/bomalloc/pkg/infrastructure/events"
)

// Trace collects the remarks and events produced while processing one order.
// Engines fill a Trace per order; the caller applies traces in input order so
// the remark log and the journal read the same for serial and partitioned runs.
type Trace struct {
	OrderID entities.OrderID
	Remarks []string
	Events  []events.Event
}

// NewTrace creates an empty trace for an order
func NewTrace(orderID entities.OrderID) *Trace {
	return &Trace{OrderID: orderID}
}

// Remark records a formatted message
func (t *Trace) Remark(format string, args ...interface{}) {
	t.Remarks = append(t.Remarks, fmt.Sprintf(format, args...))
}

// Emit records a journal event
func (t *Trace) Emit(event events.Event) {
	t.Events = append(t.Events, event)
}

// Apply writes the trace into log and publishes its events to store.
// Events are dropped when store is nil.
func (t *Trace) Apply(log *RemarkLog, store events.EventStore) error {
	for _, remark := range t.Remarks {
		log.Add(t.OrderID, remark)
	}
	for _, event := range t.Events {
		if err := events.Publish(store, event); err != nil {
			return fmt.Errorf("failed to journal %s for order %s: %w", event.Type(), t.OrderID, err)
		}
	}
	return nil
}
