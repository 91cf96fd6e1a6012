package explosion

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/application/services/shared"
	"github.com/vsinha/bomalloc/pkg/domain/entities"
	"github.com/vsinha/bomalloc/pkg/domain/repositories"
	"github.com/vsinha/bomalloc/pkg/infrastructure/events"
)

// StrategyPartial explodes every order and allocates whatever stock each node can get
const StrategyPartial = "partial"

// Outcome is the result of exploding one order
type Outcome struct {
	OrderID entities.OrderID
	Rows    []entities.ComponentAllocation
	Skipped bool
	Trace   *shared.Trace
}

// PartialAllocator allocates component stock by exploding each order's BOM
// breadth-first. Demand left uncovered at a node flows to its children.
type PartialAllocator struct {
	traverser *BOMTraverser
	logger    *zap.Logger
}

// NewPartialAllocator creates a new partial component allocator
func NewPartialAllocator(logger *zap.Logger) *PartialAllocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartialAllocator{
		traverser: NewBOMTraverser(logger),
		logger:    logger,
	}
}

// Name returns the strategy name
func (a *PartialAllocator) Name() string {
	return StrategyPartial
}

// Allocate explodes orders in input order against bom, consuming from ledger.
// It returns one outcome per order.
func (a *PartialAllocator) Allocate(
	ctx context.Context,
	orders []*entities.SalesOrder,
	bom repositories.BOMRepository,
	ledger repositories.StockLedger,
) ([]Outcome, error) {
	a.logger.Info("starting component allocation", zap.Int("orders", len(orders)))

	outcomes := make([]Outcome, 0, len(orders))
	for _, order := range orders {
		outcome, err := a.explodeOrder(ctx, *order, bom, ledger)
		if err != nil {
			return nil, fmt.Errorf("component allocation failed for order %s: %w", order.OrderID, err)
		}
		outcomes = append(outcomes, outcome)
	}

	a.logger.Info("component allocation completed", zap.Int("orders", len(orders)))
	return outcomes, nil
}

func (a *PartialAllocator) explodeOrder(
	ctx context.Context,
	order entities.SalesOrder,
	bom repositories.BOMRepository,
	ledger repositories.StockLedger,
) (Outcome, error) {
	trace := shared.NewTrace(order.OrderID)
	outcome := Outcome{OrderID: order.OrderID, Trace: trace}
	logger := a.logger.With(
		zap.String("order_id", string(order.OrderID)),
		zap.String("fg", string(order.Item)),
		zap.String("plant", order.Plant),
	)

	logger.Info("processing order", zap.String("order_qty", order.Quantity.String()))

	resolution := bom.Resolve(order.Item, order.Plant)
	logger.Debug("BOM resolved",
		zap.String("root", string(resolution.Root)),
		zap.Stringer("resolution", resolution.Kind),
	)

	switch {
	case resolution.Kind == entities.NotFound:
		reason := fmt.Sprintf("No BOM found where '%s' exists as FG or SFG at Plant '%s'. Order skipped.", order.Item, order.Plant)
		a.skip(&outcome, order, reason)
		logger.Warn("order skipped: BOM not found")
		return outcome, nil
	case len(resolution.Tree) == 0:
		reason := fmt.Sprintf("BOM tree empty for resolved root '%s' at Plant '%s'. Order skipped.", resolution.Root, order.Plant)
		a.skip(&outcome, order, reason)
		logger.Warn("order skipped: BOM tree empty", zap.String("root", string(resolution.Root)))
		return outcome, nil
	case resolution.Kind == entities.SubAssembly:
		trace.Remark("Ordered FG '%s' treated as SFG under BOM of '%s'.", order.Item, resolution.Root)
		logger.Info("finished good treated as SFG", zap.String("root", string(resolution.Root)))
	}

	if !order.Quantity.IsPositive() {
		trace.Remark("Order quantity is zero; BOM exploded without allocation.")
		logger.Warn("order has zero quantity")
	}

	visitor := NewAllocationVisitor(ledger, trace, logger)
	start := NodeContext{
		OrderID: order.OrderID,
		Plant:   order.Plant,
		Item:    order.Item,
		Level:   0,
		Demand:  order.Quantity,
	}

	visited, err := a.traverser.Traverse(ctx, resolution.Tree, start, visitor)
	if err != nil {
		return outcome, err
	}

	outcome.Rows = visitor.Rows()
	trace.Remark("Order processed via component allocation. BOM exploded and stock allocation attempted.")
	trace.Emit(events.NewOrderExplodedEvent(events.OrderExploded{
		Order:      order,
		Root:       resolution.Root,
		Resolution: resolution.Kind.String(),
		Nodes:      visited,
		Shortfall:  visitor.Shortfall(),
	}))

	logger.Info("completed allocation for order",
		zap.Int("nodes", visited),
		zap.Int("shortfall_nodes", visitor.Shortfall()),
	)
	return outcome, nil
}

func (a *PartialAllocator) skip(outcome *Outcome, order entities.SalesOrder, reason string) {
	outcome.Skipped = true
	outcome.Trace.Remark("%s", reason)
	outcome.Trace.Emit(events.NewOrderSkippedEvent(order, reason))
}
