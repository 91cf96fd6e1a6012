package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/application/services/explosion"
	"github.com/vsinha/bomalloc/pkg/application/services/orderalloc"
	"github.com/vsinha/bomalloc/pkg/domain/entities"
	"github.com/vsinha/bomalloc/pkg/domain/repositories"
)

// OrderStrategy allocates top-level demand directly against the ledger
type OrderStrategy interface {
	Name() string
	Allocate(ctx context.Context, orders []*entities.SalesOrder, ledger repositories.StockLedger) ([]orderalloc.Outcome, error)
}

// ComponentStrategy allocates demand through the BOM
type ComponentStrategy interface {
	Name() string
	Allocate(
		ctx context.Context,
		orders []*entities.SalesOrder,
		bom repositories.BOMRepository,
		ledger repositories.StockLedger,
	) ([]explosion.Outcome, error)
}

// Registry is the closed set of allocation strategies. Lookups happen once,
// when a run is set up.
type Registry struct {
	order     map[string]func(*zap.Logger) OrderStrategy
	component map[string]func(*zap.Logger) ComponentStrategy
}

// NewRegistry returns the registry of built-in strategies
func NewRegistry() *Registry {
	return &Registry{
		order: map[string]func(*zap.Logger) OrderStrategy{
			orderalloc.StrategyPartial: func(l *zap.Logger) OrderStrategy { return orderalloc.NewPartialAllocator(l) },
		},
		component: map[string]func(*zap.Logger) ComponentStrategy{
			explosion.StrategyPartial: func(l *zap.Logger) ComponentStrategy { return explosion.NewPartialAllocator(l) },
		},
	}
}

// OrderStrategy returns the order allocation strategy called name
func (r *Registry) OrderStrategy(name string, logger *zap.Logger) (OrderStrategy, error) {
	build, ok := r.order[name]
	if !ok {
		return nil, unknownStrategy("phases.order_allocation.type", name, r.OrderStrategies())
	}
	return build(logger), nil
}

// ComponentStrategy returns the component allocation strategy called name
func (r *Registry) ComponentStrategy(name string, logger *zap.Logger) (ComponentStrategy, error) {
	build, ok := r.component[name]
	if !ok {
		return nil, unknownStrategy("phases.component_allocation.type", name, r.ComponentStrategies())
	}
	return build(logger), nil
}

// OrderStrategies lists the registered order strategy names
func (r *Registry) OrderStrategies() []string {
	return sortedKeys(r.order)
}

// ComponentStrategies lists the registered component strategy names
func (r *Registry) ComponentStrategies() []string {
	return sortedKeys(r.component)
}

func unknownStrategy(field, name string, known []string) error {
	return &entities.ConfigurationError{
		Field: field,
		Err:   fmt.Errorf("%w %q (available: %v)", entities.ErrUnknownStrategy, name, known),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
