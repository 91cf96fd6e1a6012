package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

func TestDemandRepository_KeepsInputOrder(t *testing.T) {
	repo := NewDemandRepository()
	require.NoError(t, repo.LoadOrders([]*entities.SalesOrder{
		{OrderID: "SO2", Item: "FG1", Plant: "P2", Quantity: entities.Qty(1)},
		{OrderID: "SO1", Item: "FG1", Plant: "P1", Quantity: entities.Qty(2)},
		{OrderID: "SO3", Item: "FG2", Plant: "P2", Quantity: entities.Qty(3)},
	}))

	orders, err := repo.GetOrders()
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, entities.OrderID("SO2"), orders[0].OrderID)
	assert.Equal(t, entities.OrderID("SO3"), orders[2].OrderID)

	assert.Equal(t, []string{"P2", "P1"}, repo.GetPlants())
}
