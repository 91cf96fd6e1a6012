package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
	"github.com/vsinha/bomalloc/pkg/infrastructure/events"
)

func TestRemarkLog_JoinsMessagesInOrder(t *testing.T) {
	log := NewRemarkLog(nil)
	log.Add("SO2", "first")
	log.Add("SO1", "only")
	log.Add("SO2", "second")

	assert.Equal(t, "first | second", log.Get("SO2"))
	assert.Equal(t, "only", log.Get("SO1"))
	assert.Equal(t, "", log.Get("SO9"))
	assert.Equal(t, []entities.OrderID{"SO2", "SO1"}, log.OrderIDs())
	assert.Equal(t, 2, log.Len())
	assert.Equal(t, map[entities.OrderID]string{"SO1": "only", "SO2": "first | second"}, log.All())
}

func TestTrace_Apply(t *testing.T) {
	trace := NewTrace("SO1")
	trace.Remark("Order quantity is %s", "zero")
	trace.Emit(events.NewStockMissingEvent(events.StockMissing{OrderID: "SO1", Item: "C1"}))

	log := NewRemarkLog(nil)
	store := events.NewInMemoryEventStore(nil)
	require.NoError(t, trace.Apply(log, store))

	assert.Equal(t, []string{"Order quantity is zero"}, log.Messages("SO1"))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, trace.Apply(log, nil))
	assert.Equal(t, "Order quantity is zero | Order quantity is zero", log.Get("SO1"))
}
