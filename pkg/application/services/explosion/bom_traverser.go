package explosion

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

// NodeContext describes one node of an exploded order
type NodeContext struct {
	OrderID entities.OrderID
	Plant   string
	Parent  entities.ItemID // empty for the requested item
	Item    entities.ItemID
	Level   int
	Demand  entities.Quantity
}

// NodeVisitor processes nodes during BOM traversal
type NodeVisitor interface {
	// VisitNode is called once per node in breadth-first order.
	// It returns the demand left uncovered at this node, which is passed on to the children.
	VisitNode(ctx context.Context, node NodeContext) (entities.Quantity, error)
}

// BOMTraverser walks a BOM tree breadth-first from a start item. Levels are
// visited in order and siblings follow BOM input order.
type BOMTraverser struct {
	logger *zap.Logger
}

// NewBOMTraverser creates a new BOM traverser
func NewBOMTraverser(logger *zap.Logger) *BOMTraverser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BOMTraverser{logger: logger}
}

// Traverse visits start and every descendant reachable through tree. Each child
// is enqueued with demand = leftover(parent) × ratio, including zero demand,
// so the whole subtree is always visited. It returns the number of visited nodes.
func (bt *BOMTraverser) Traverse(
	ctx context.Context,
	tree entities.BOMTree,
	start NodeContext,
	visitor NodeVisitor,
) (int, error) {
	queue := []NodeContext{start}
	visited := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return visited, fmt.Errorf("traversal of %s interrupted: %w", start.Item, err)
		}

		node := queue[0]
		queue = queue[1:]

		// an acyclic path cannot be deeper than the number of parents in the tree
		if node.Level > len(tree) {
			return visited, &entities.CyclicBOMError{Cycles: [][]entities.ItemID{{node.Parent, node.Item}}}
		}

		bt.logger.Debug("visiting node",
			zap.String("order_id", string(node.OrderID)),
			zap.String("item", string(node.Item)),
			zap.String("parent", string(node.Parent)),
			zap.Int("level", node.Level),
			zap.String("demand", node.Demand.String()),
		)

		leftover, err := visitor.VisitNode(ctx, node)
		if err != nil {
			return visited, fmt.Errorf("failed to visit node %s: %w", node.Item, err)
		}
		visited++

		for _, edge := range tree.Children(node.Item) {
			child := NodeContext{
				OrderID: node.OrderID,
				Plant:   node.Plant,
				Parent:  node.Item,
				Item:    edge.Child,
				Level:   node.Level + 1,
				Demand:  leftover.Mul(edge.Ratio),
			}
			queue = append(queue, child)

			bt.logger.Debug("queued child component",
				zap.String("item", string(child.Item)),
				zap.String("parent", string(child.Parent)),
				zap.String("demand", child.Demand.String()),
			)
		}
	}

	return visited, nil
}
