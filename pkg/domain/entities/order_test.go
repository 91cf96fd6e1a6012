package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesOrder_Validation(t *testing.T) {
	order, err := NewSalesOrder("SO1", "FG1", "P1", Qty(10))
	require.NoError(t, err)
	assert.True(t, order.Quantity.Equal(Qty(10)))

	zero, err := NewSalesOrder("SO2", "FG1", "P1", decimal.Zero)
	require.NoError(t, err, "zero quantity orders are exploded without allocation")
	assert.True(t, zero.Quantity.IsZero())

	testCases := []struct {
		name        string
		orderID     OrderID
		item        ItemID
		plant       string
		quantity    Quantity
		expectError string
	}{
		{"empty order id", "", "FG1", "P1", Qty(1), "order id cannot be empty"},
		{"empty finished good", "SO1", "", "P1", Qty(1), "finished good cannot be empty"},
		{"empty plant", "SO1", "FG1", "", Qty(1), "plant cannot be empty"},
		{"negative quantity", "SO1", "FG1", "P1", Qty(-5), "order quantity cannot be negative, got -5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSalesOrder(tc.orderID, tc.item, tc.plant, tc.quantity)
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}
}

func TestQuantityHelpers(t *testing.T) {
	q, err := ParseQuantity("12.75")
	require.NoError(t, err)
	assert.True(t, q.Equal(decimal.NewFromFloat(12.75)))

	empty, err := ParseQuantity("")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = ParseQuantity("abc")
	assert.Error(t, err)

	assert.True(t, MinQty(Qty(3), Qty(7)).Equal(Qty(3)))
	assert.True(t, NonNegative(Qty(-2)).IsZero())
	assert.True(t, NonNegative(Qty(2)).Equal(Qty(2)))
}

func TestErrors_Messages(t *testing.T) {
	cfgErr := &ConfigurationError{Field: "phases.order_allocation.type", Err: ErrUnknownStrategy}
	assert.ErrorIs(t, cfgErr, ErrUnknownStrategy)
	assert.Equal(t, "invalid configuration phases.order_allocation.type: unknown allocation strategy", cfgErr.Error())

	schemaErr := &SchemaMismatchError{Table: "BOM", Column: "Plant", Reason: "missing column"}
	assert.Equal(t, `BOM schema mismatch, column "Plant": missing column`, schemaErr.Error())

	cycleErr := &CyclicBOMError{Cycles: [][]ItemID{{"A", "B", "A"}}}
	assert.Equal(t, "BOM contains 1 cycle(s): A -> B -> A", cycleErr.Error())
}
