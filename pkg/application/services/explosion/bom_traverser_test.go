package explosion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

// recordingVisitor passes a fixed fraction of demand through as leftover
type recordingVisitor struct {
	nodes []NodeContext
	keep  entities.Quantity
}

func (v *recordingVisitor) VisitNode(_ context.Context, node NodeContext) (entities.Quantity, error) {
	v.nodes = append(v.nodes, node)
	return node.Demand.Mul(v.keep), nil
}

func TestBOMTraverser_ChildDemandIsLeftoverTimesRatio(t *testing.T) {
	tree := entities.BOMTree{
		"FG": {*edge("FG", "FG", "C1", "2"), *edge("FG", "FG", "C2", "0.5")},
		"C1": {*edge("FG", "C1", "RM", "3")},
	}
	visitor := &recordingVisitor{keep: entities.Qty(1)}

	visited, err := NewBOMTraverser(nil).Traverse(context.Background(), tree,
		NodeContext{OrderID: "SO1", Plant: "P1", Item: "FG", Demand: entities.Qty(10)}, visitor)
	require.NoError(t, err)
	assert.Equal(t, 4, visited)

	want := map[entities.ItemID]string{"FG": "10", "C1": "20", "C2": "5", "RM": "60"}
	for _, node := range visitor.nodes {
		assert.Equal(t, want[node.Item], node.Demand.String(), "demand of %s", node.Item)
		assert.Equal(t, entities.OrderID("SO1"), node.OrderID)
	}
	assert.Equal(t, 2, visitor.nodes[3].Level)
	assert.Equal(t, entities.ItemID("C1"), visitor.nodes[3].Parent)
}

func TestBOMTraverser_ZeroLeftoverStillVisitsChildren(t *testing.T) {
	tree := entities.BOMTree{
		"FG": {*edge("FG", "FG", "C1", "2")},
	}
	visitor := &recordingVisitor{keep: entities.Qty(0)}

	visited, err := NewBOMTraverser(nil).Traverse(context.Background(), tree,
		NodeContext{Item: "FG", Demand: entities.Qty(10)}, visitor)
	require.NoError(t, err)
	assert.Equal(t, 2, visited)
	assert.True(t, visitor.nodes[1].Demand.IsZero())
}

func TestBOMTraverser_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBOMTraverser(nil).Traverse(ctx, entities.BOMTree{}, NodeContext{Item: "FG"}, &recordingVisitor{})
	assert.ErrorIs(t, err, context.Canceled)
}
