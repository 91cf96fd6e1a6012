package orchestration

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
	"github.com/vsinha/bomalloc/pkg/infrastructure/repositories/memory"
)

// phaseRunner runs a phase either serially over the whole ledger or with one
// ledger partition per plant
type phaseRunner struct {
	parallel bool
	plants   []string
	ledger   *memory.Ledger
	logger   *zap.Logger
}

type partition struct {
	plant   string
	indices []int
	orders  []*entities.SalesOrder
	ledger  *memory.Ledger
}

// runPartitioned calls process with the orders and the ledger. In parallel mode
// every plant gets its own goroutine and ledger partition; results are put back
// in input order and the partitions are absorbed into the shared ledger.
// process must return exactly one result per order.
func runPartitioned[T any](
	ctx context.Context,
	r *phaseRunner,
	orders []*entities.SalesOrder,
	process func(ctx context.Context, orders []*entities.SalesOrder, ledger *memory.Ledger) ([]T, error),
) ([]T, error) {
	if !r.parallel || len(r.plants) < 2 {
		return process(ctx, orders, r.ledger)
	}

	byPlant := make(map[string]*partition, len(r.plants))
	parts := make([]*partition, 0, len(r.plants))
	for _, plant := range r.plants {
		p := &partition{plant: plant, ledger: r.ledger.Partition(plant)}
		byPlant[plant] = p
		parts = append(parts, p)
	}
	for i, order := range orders {
		p := byPlant[order.Plant]
		p.indices = append(p.indices, i)
		p.orders = append(p.orders, order)
	}

	outputs := make([][]T, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range parts {
		i, p := i, p
		g.Go(func() error {
			r.logger.Debug("plant partition started",
				zap.String("plant", p.plant),
				zap.Int("orders", len(p.orders)),
			)
			out, err := process(gctx, p.orders, p.ledger)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]T, len(orders))
	for i, p := range parts {
		r.ledger.Absorb(p.ledger)
		for j, idx := range p.indices {
			results[idx] = outputs[i][j]
		}
	}
	return results, nil
}
