package explosion

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/application/services/shared"
	"github.com/vsinha/bomalloc/pkg/domain/entities"
	"github.com/vsinha/bomalloc/pkg/domain/repositories"
	"github.com/vsinha/bomalloc/pkg/infrastructure/events"
)

// AllocationVisitor implements NodeVisitor by consuming stock at every node
type AllocationVisitor struct {
	ledger repositories.StockLedger
	trace  *shared.Trace
	logger *zap.Logger

	rows      []entities.ComponentAllocation
	shortfall int
}

// NewAllocationVisitor creates a visitor that records into trace
func NewAllocationVisitor(ledger repositories.StockLedger, trace *shared.Trace, logger *zap.Logger) *AllocationVisitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationVisitor{
		ledger: ledger,
		trace:  trace,
		logger: logger,
	}
}

// VisitNode allocates the node demand and emits its component row.
// Zero demand is recorded without touching the ledger.
func (v *AllocationVisitor) VisitNode(ctx context.Context, node NodeContext) (entities.Quantity, error) {
	row := entities.ComponentAllocation{
		OrderID:      node.OrderID,
		Plant:        node.Plant,
		Parent:       node.Parent,
		Level:        node.Level,
		Item:         node.Item,
		RequestedQty: node.Demand,
		AllocatedQty: decimal.Zero,
		LeftoverQty:  decimal.Zero,
	}

	if node.Demand.IsPositive() {
		hasStock := v.ledger.Has(node.Plant, node.OrderID, node.Item)

		allocation, unfulfilled := v.ledger.Consume(node.Plant, node.OrderID, node.Item, node.Demand)
		row.Allocation = allocation
		row.AllocatedQty = node.Demand.Sub(unfulfilled)
		row.LeftoverQty = unfulfilled

		if !hasStock {
			v.trace.Remark("No stock data for component '%s' at plant '%s'.", node.Item, node.Plant)
			v.trace.Emit(events.NewStockMissingEvent(events.StockMissing{
				OrderID:   node.OrderID,
				Plant:     node.Plant,
				Item:      node.Item,
				Level:     node.Level,
				Requested: node.Demand,
			}))
			v.logger.Warn("no stock data for component",
				zap.String("order_id", string(node.OrderID)),
				zap.String("item", string(node.Item)),
				zap.String("plant", node.Plant),
			)
		} else {
			v.trace.Emit(events.NewStockConsumedEvent(events.StockConsumed{
				OrderID:     node.OrderID,
				Plant:       node.Plant,
				Item:        node.Item,
				Level:       node.Level,
				Requested:   node.Demand,
				Allocation:  allocation,
				Unfulfilled: unfulfilled,
			}))
			if row.AllocatedQty.IsPositive() {
				v.logger.Debug("allocated component stock",
					zap.String("order_id", string(node.OrderID)),
					zap.String("item", string(node.Item)),
					zap.String("allocated", row.AllocatedQty.String()),
					zap.String("leftover", row.LeftoverQty.String()),
				)
			}
		}

		if row.LeftoverQty.IsPositive() {
			v.shortfall++
		}
	}

	v.rows = append(v.rows, row)
	return row.LeftoverQty, nil
}

// Rows returns the component rows in visit order
func (v *AllocationVisitor) Rows() []entities.ComponentAllocation {
	return v.rows
}

// Shortfall returns the number of nodes that kept leftover demand
func (v *AllocationVisitor) Shortfall() int {
	return v.shortfall
}
