package shared

import (
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

// RemarkSeparator joins the messages of one order
const RemarkSeparator = " | "

// RemarkLog accumulates diagnostic messages per order. It is append-only and
// keeps orders in the order their first remark arrived.
type RemarkLog struct {
	order   []entities.OrderID
	remarks map[entities.OrderID][]string
	logger  *zap.Logger
}

// NewRemarkLog creates an empty remark log. A nil logger discards diagnostics.
func NewRemarkLog(logger *zap.Logger) *RemarkLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemarkLog{
		remarks: make(map[entities.OrderID][]string),
		logger:  logger,
	}
}

// Add appends a message to the order's remark
func (l *RemarkLog) Add(orderID entities.OrderID, message string) {
	if _, exists := l.remarks[orderID]; !exists {
		l.order = append(l.order, orderID)
	}
	l.remarks[orderID] = append(l.remarks[orderID], message)
	l.logger.Debug("remark recorded", zap.String("order_id", string(orderID)), zap.String("remark", message))
}

// Get returns the joined remark of an order, or "" when it has none
func (l *RemarkLog) Get(orderID entities.OrderID) string {
	return strings.Join(l.remarks[orderID], RemarkSeparator)
}

// Messages returns a copy of the individual messages of an order
func (l *RemarkLog) Messages(orderID entities.OrderID) []string {
	return append([]string(nil), l.remarks[orderID]...)
}

// OrderIDs returns every order with a remark, in first-remark order
func (l *RemarkLog) OrderIDs() []entities.OrderID {
	return append([]entities.OrderID(nil), l.order...)
}

// Len returns the number of orders with a remark
func (l *RemarkLog) Len() int {
	return len(l.order)
}

// All returns the joined remarks keyed by order id
func (l *RemarkLog) All() map[entities.OrderID]string {
	all := make(map[entities.OrderID]string, len(l.order))
	for _, id := range l.order {
		all[id] = l.Get(id)
	}
	return all
}
