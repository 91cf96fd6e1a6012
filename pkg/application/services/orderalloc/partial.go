package orderalloc

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/application/services/shared"
	"github.com/vsinha/bomalloc/pkg/domain/entities"
	"github.com/vsinha/bomalloc/pkg/domain/repositories"
	"github.com/vsinha/bomalloc/pkg/infrastructure/events"
)

// StrategyPartial allocates whatever part of an order the ledger can cover
const StrategyPartial = "partial"

// Outcome is the result of allocating one order
type Outcome struct {
	Allocation entities.OrderAllocation
	Trace      *shared.Trace
}

// PartialAllocator performs single-level allocation of finished goods directly
// against the stock ledger. Orders are processed strictly in the given order and
// each one may leave demand unmet.
type PartialAllocator struct {
	logger *zap.Logger
}

// NewPartialAllocator creates a new partial order allocator
func NewPartialAllocator(logger *zap.Logger) *PartialAllocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartialAllocator{logger: logger}
}

// Name returns the strategy name
func (a *PartialAllocator) Name() string {
	return StrategyPartial
}

// Allocate consumes stock for every order and returns one outcome per order,
// in input order. The ledger is mutated in place.
func (a *PartialAllocator) Allocate(
	ctx context.Context,
	orders []*entities.SalesOrder,
	ledger repositories.StockLedger,
) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(orders))

	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("order allocation interrupted before %s: %w", order.OrderID, err)
		}
		outcomes = append(outcomes, a.allocateOrder(*order, ledger))
	}

	return outcomes, nil
}

func (a *PartialAllocator) allocateOrder(order entities.SalesOrder, ledger repositories.StockLedger) Outcome {
	trace := shared.NewTrace(order.OrderID)
	logger := a.logger.With(
		zap.String("order_id", string(order.OrderID)),
		zap.String("fg", string(order.Item)),
		zap.String("plant", order.Plant),
	)

	hasStock := ledger.Has(order.Plant, order.OrderID, order.Item)
	before := ledger.Query(order.Plant, order.OrderID, order.Item)

	allocation, unfulfilled := ledger.Consume(order.Plant, order.OrderID, order.Item, order.Quantity)
	allocated := order.Quantity.Sub(unfulfilled)
	remaining := order.Quantity.Sub(allocated)

	after := ledger.Query(order.Plant, order.OrderID, order.Item)

	result := entities.OrderAllocation{
		Order:        order,
		AllocatedQty: allocated,
		RemainingQty: remaining,
		Allocation:   allocation,
		StockBefore:  before,
		StockAfter:   after,
		HasStockData: hasStock,
	}

	switch {
	case order.Quantity.IsZero():
		trace.Remark("Order quantity is zero; nothing to allocate.")
	case !hasStock:
		trace.Remark("No stock data for FG '%s' at plant '%s'; %s units remain unallocated.",
			order.Item, order.Plant, remaining)
		trace.Emit(events.NewStockMissingEvent(events.StockMissing{
			OrderID:   order.OrderID,
			Plant:     order.Plant,
			Item:      order.Item,
			Requested: order.Quantity,
		}))
		logger.Warn("no stock data for finished good")
	case remaining.IsZero():
		trace.Remark("Fully allocated %s units of FG '%s'. Stock before: %s; after: %s.",
			allocated, order.Item, formatBuckets(before), formatBuckets(after))
	case allocated.IsPositive():
		trace.Remark("Partially allocated %s of %s units of FG '%s'; %s remaining. Stock before: %s; after: %s.",
			allocated, order.Quantity, order.Item, remaining, formatBuckets(before), formatBuckets(after))
	default:
		trace.Remark("No stock available for FG '%s'; %s units remaining. Stock before: %s; after: %s.",
			order.Item, remaining, formatBuckets(before), formatBuckets(after))
	}

	if hasStock && order.Quantity.IsPositive() {
		trace.Emit(events.NewStockConsumedEvent(events.StockConsumed{
			OrderID:     order.OrderID,
			Plant:       order.Plant,
			Item:        order.Item,
			Requested:   order.Quantity,
			Allocation:  allocation,
			Unfulfilled: unfulfilled,
		}))
	}
	trace.Emit(events.NewOrderAllocatedEvent(result))

	logger.Info("order allocated",
		zap.String("order_qty", order.Quantity.String()),
		zap.String("allocated", allocated.String()),
		zap.String("remaining", remaining.String()),
	)

	return Outcome{Allocation: result, Trace: trace}
}

func formatBuckets(b entities.StockBuckets) string {
	return fmt.Sprintf("on_hand=%s, qc=%s, in_transit=%s", b.OnHand, b.QC, b.InTransit)
}
