package orchestration

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/application/dto"
	"github.com/vsinha/bomalloc/pkg/application/services"
	"github.com/vsinha/bomalloc/pkg/application/services/explosion"
	"github.com/vsinha/bomalloc/pkg/application/services/orderalloc"
	"github.com/vsinha/bomalloc/pkg/application/services/shared"
	"github.com/vsinha/bomalloc/pkg/domain/entities"
	domainservices "github.com/vsinha/bomalloc/pkg/domain/services"
	"github.com/vsinha/bomalloc/pkg/infrastructure/events"
	"github.com/vsinha/bomalloc/pkg/infrastructure/repositories/memory"
)

// PhaseSettings selects whether a phase runs and with which strategy
type PhaseSettings struct {
	Enabled  bool
	Strategy string
}

// Settings controls one allocation run
type Settings struct {
	Client         string
	RunID          string
	OrderPhase     PhaseSettings
	ComponentPhase PhaseSettings
	// ParallelPlants runs each plant's orders in its own goroutine.
	// Output is identical to a serial run.
	ParallelPlants bool
}

// Inputs are the validated input tables of a run
type Inputs struct {
	Orders []*entities.SalesOrder
	Stock  []*entities.StockRow
	BOM    []*entities.BOMEdge
}

// AllocationOrchestrator sequences the order and component phases over one
// shared stock ledger
type AllocationOrchestrator struct {
	registry  *services.Registry
	validator *domainservices.BOMValidator
	journal   events.EventStore
	logger    *zap.Logger
}

// NewAllocationOrchestrator creates a new orchestrator. journal may be nil.
func NewAllocationOrchestrator(
	registry *services.Registry,
	journal events.EventStore,
	logger *zap.Logger,
) *AllocationOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationOrchestrator{
		registry:  registry,
		validator: domainservices.NewBOMValidator(),
		journal:   journal,
		logger:    logger,
	}
}

// Run executes the enabled phases. When both run, the component phase explodes
// the demand left over by the order phase against the ledger it depleted.
func (o *AllocationOrchestrator) Run(ctx context.Context, settings Settings, inputs Inputs) (*dto.AllocationResult, error) {
	started := time.Now()

	if !settings.OrderPhase.Enabled && !settings.ComponentPhase.Enabled {
		return nil, &entities.ConfigurationError{Field: "phases", Err: entities.ErrNoPhaseEnabled}
	}

	var (
		orderStrategy     services.OrderStrategy
		componentStrategy services.ComponentStrategy
		err               error
	)
	if settings.OrderPhase.Enabled {
		if orderStrategy, err = o.registry.OrderStrategy(settings.OrderPhase.Strategy, o.logger); err != nil {
			return nil, err
		}
	}
	if settings.ComponentPhase.Enabled {
		if componentStrategy, err = o.registry.ComponentStrategy(settings.ComponentPhase.Strategy, o.logger); err != nil {
			return nil, err
		}
		if err := o.validateBOM(inputs.BOM); err != nil {
			return nil, err
		}
	}

	ledger := memory.NewLedger(o.logger)
	if err := ledger.LoadRows(inputs.Stock); err != nil {
		return nil, fmt.Errorf("failed to load stock ledger: %w", err)
	}

	demandRepo := memory.NewDemandRepository()
	if err := demandRepo.LoadOrders(inputs.Orders); err != nil {
		return nil, fmt.Errorf("failed to load sales orders: %w", err)
	}
	orders, err := demandRepo.GetOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to read sales orders: %w", err)
	}

	run := &phaseRunner{
		parallel: settings.ParallelPlants,
		plants:   demandRepo.GetPlants(),
		ledger:   ledger,
		logger:   o.logger,
	}
	remarks := shared.NewRemarkLog(o.logger)

	result := &dto.AllocationResult{
		RunID:     settings.RunID,
		Client:    settings.Client,
		StartedAt: started,
		Orders:    make([]entities.SalesOrder, 0, len(orders)),
	}
	for _, order := range orders {
		result.Orders = append(result.Orders, *order)
	}

	if orderStrategy != nil {
		o.logger.Info("order allocation phase started",
			zap.String("strategy", orderStrategy.Name()),
			zap.Int("orders", len(orders)),
			zap.Bool("parallel_plants", settings.ParallelPlants),
		)

		outcomes, err := runPartitioned(ctx, run, orders,
			func(ctx context.Context, part []*entities.SalesOrder, ledger *memory.Ledger) ([]orderalloc.Outcome, error) {
				return orderStrategy.Allocate(ctx, part, ledger)
			})
		if err != nil {
			return nil, fmt.Errorf("order allocation phase failed: %w", err)
		}

		phase := &dto.OrderPhaseResult{Strategy: orderStrategy.Name()}
		for _, outcome := range outcomes {
			if err := outcome.Trace.Apply(remarks, o.journal); err != nil {
				return nil, err
			}
			phase.Orders = append(phase.Orders, outcome.Allocation)
		}
		phase.RemainingStock = ledger.Snapshot()
		result.OrderPhase = phase

		// the component phase explodes what is still open
		orders = remainingDemand(phase.Orders)
		o.logger.Info("order allocation phase completed", zap.Int("orders", len(phase.Orders)))
	}

	if componentStrategy != nil {
		o.logger.Info("component allocation phase started",
			zap.String("strategy", componentStrategy.Name()),
			zap.Int("orders", len(orders)),
			zap.Int("bom_edges", len(inputs.BOM)),
		)

		bom := memory.NewBOMRepository(inputs.BOM)
		outcomes, err := runPartitioned(ctx, run, orders,
			func(ctx context.Context, part []*entities.SalesOrder, ledger *memory.Ledger) ([]explosion.Outcome, error) {
				return componentStrategy.Allocate(ctx, part, bom, ledger)
			})
		if err != nil {
			return nil, fmt.Errorf("component allocation phase failed: %w", err)
		}

		phase := &dto.ComponentPhaseResult{Strategy: componentStrategy.Name()}
		for _, outcome := range outcomes {
			if err := outcome.Trace.Apply(remarks, o.journal); err != nil {
				return nil, err
			}
			phase.Components = append(phase.Components, outcome.Rows...)
			if outcome.Skipped {
				phase.Skipped = append(phase.Skipped, outcome.OrderID)
			} else {
				phase.Processed = append(phase.Processed, outcome.OrderID)
			}
		}
		result.ComponentPhase = phase

		// keep the remaining-stock table current for the final ledger state
		if result.OrderPhase != nil {
			result.OrderPhase.RemainingStock = ledger.Snapshot()
		}
		o.logger.Info("component allocation phase completed",
			zap.Int("rows", len(phase.Components)),
			zap.Int("skipped", len(phase.Skipped)),
		)
	}

	result.Remarks = remarks.All()
	result.RemarkOrder = remarks.OrderIDs()
	result.Duration = time.Since(started)
	return result, nil
}

func (o *AllocationOrchestrator) validateBOM(edges []*entities.BOMEdge) error {
	values := make([]entities.BOMEdge, 0, len(edges))
	for _, edge := range edges {
		values = append(values, *edge)
	}

	validation := o.validator.ValidateBOM(values)
	for _, warning := range validation.Warnings {
		o.logger.Warn("BOM validation warning", zap.String("detail", warning))
	}
	if err := validation.Err(); err != nil {
		o.logger.Error("BOM validation failed", zap.Strings("errors", validation.Errors))
		return err
	}
	return nil
}

// remainingDemand turns allocated orders into the open demand they leave
func remainingDemand(allocations []entities.OrderAllocation) []*entities.SalesOrder {
	orders := make([]*entities.SalesOrder, 0, len(allocations))
	for _, allocation := range allocations {
		order := allocation.Order
		order.Quantity = allocation.RemainingQty
		orders = append(orders, &order)
	}
	return orders
}
