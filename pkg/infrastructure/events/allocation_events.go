package events

import (
	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

const (
	StockConsumedEvent = "stock.consumed"
	StockMissingEvent  = "stock.missing"

	OrderAllocatedEvent = "order.allocated"
	OrderSkippedEvent   = "order.skipped"
	OrderExplodedEvent  = "order.exploded"
)

// AllEventTypes lists every allocation event type
var AllEventTypes = []string{
	StockConsumedEvent,
	StockMissingEvent,
	OrderAllocatedEvent,
	OrderSkippedEvent,
	OrderExplodedEvent,
}

type StockConsumed struct {
	OrderID     entities.OrderID      `json:"order_id"`
	Plant       string                `json:"plant"`
	Item        entities.ItemID       `json:"item"`
	Level       int                   `json:"level"`
	Requested   entities.Quantity     `json:"requested"`
	Allocation  entities.StockBuckets `json:"allocation"`
	Unfulfilled entities.Quantity     `json:"unfulfilled"`
}

type StockMissing struct {
	OrderID   entities.OrderID  `json:"order_id"`
	Plant     string            `json:"plant"`
	Item      entities.ItemID   `json:"item"`
	Level     int               `json:"level"`
	Requested entities.Quantity `json:"requested"`
}

type OrderAllocated struct {
	Allocation entities.OrderAllocation `json:"allocation"`
}

type OrderSkipped struct {
	Order  entities.SalesOrder `json:"order"`
	Reason string              `json:"reason"`
}

type OrderExploded struct {
	Order      entities.SalesOrder `json:"order"`
	Root       entities.ItemID     `json:"root"`
	Resolution string              `json:"resolution"`
	Nodes      int                 `json:"nodes"`
	Shortfall  int                 `json:"shortfall_nodes"`
}

func NewStockConsumedEvent(data StockConsumed) Event {
	return NewEvent(StockConsumedEvent, string(data.OrderID), data)
}

func NewStockMissingEvent(data StockMissing) Event {
	return NewEvent(StockMissingEvent, string(data.OrderID), data)
}

func NewOrderAllocatedEvent(allocation entities.OrderAllocation) Event {
	return NewEvent(OrderAllocatedEvent, string(allocation.Order.OrderID), OrderAllocated{Allocation: allocation})
}

func NewOrderSkippedEvent(order entities.SalesOrder, reason string) Event {
	return NewEvent(OrderSkippedEvent, string(order.OrderID), OrderSkipped{Order: order, Reason: reason})
}

func NewOrderExplodedEvent(data OrderExploded) Event {
	return NewEvent(OrderExplodedEvent, string(data.Order.OrderID), data)
}

// LogHandler writes every handled event to a zap logger at debug level
type LogHandler struct {
	logger *zap.Logger
}

func NewLogHandler(logger *zap.Logger) *LogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogHandler{logger: logger}
}

func (h *LogHandler) CanHandle(string) bool {
	return true
}

func (h *LogHandler) Handle(event Event) error {
	h.logger.Debug("allocation event",
		zap.String("event_type", event.Type()),
		zap.String("stream", event.StreamID()),
		zap.Int("version", event.Version()),
		zap.Any("data", event.Data()),
	)
	return nil
}
