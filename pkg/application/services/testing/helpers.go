package testing

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

// Scenario is a complete set of allocation inputs
type Scenario struct {
	BOM    []*entities.BOMEdge
	Orders []*entities.SalesOrder
	Stock  []*entities.StockRow
}

// mustCreateBOMEdge is a helper for tests - panics on validation error
func mustCreateBOMEdge(root, plant, parent, child, ratio string) *entities.BOMEdge {
	edge, err := entities.NewBOMEdge(
		entities.ItemID(root),
		plant,
		entities.ItemID(parent),
		entities.ItemID(child),
		decimal.RequireFromString(ratio),
	)
	if err != nil {
		panic(err)
	}
	return edge
}

// mustCreateSalesOrder is a helper for tests - panics on validation error
func mustCreateSalesOrder(orderID, item, plant string, qty int64) *entities.SalesOrder {
	order, err := entities.NewSalesOrder(entities.OrderID(orderID), entities.ItemID(item), plant, entities.Qty(qty))
	if err != nil {
		panic(err)
	}
	return order
}

// mustCreateStockRow is a helper for tests - panics on validation error
func mustCreateStockRow(plant, orderID, item string, onHand, qc, inTransit int64) *entities.StockRow {
	row, err := entities.NewStockRow(plant, entities.OrderID(orderID), entities.ItemID(item), entities.StockBuckets{
		OnHand:    entities.Qty(onHand),
		QC:        entities.Qty(qc),
		InTransit: entities.Qty(inTransit),
	})
	if err != nil {
		panic(err)
	}
	return row
}

// BuildPumpScenario builds a two-plant pump assembly scenario.
//
// PUMP (root, P1 and P2)
//   - MOTOR x1
//   - HOUSING x1
//   - BOLT x8
//
// MOTOR
//   - WINDING x2
//
// Orders interleave plants so that partitioned and serial runs can be compared.
// MOTOR is also ordered directly, resolving through the PUMP tree.
func BuildPumpScenario() Scenario {
	var bom []*entities.BOMEdge
	for _, plant := range []string{"P1", "P2"} {
		bom = append(bom,
			mustCreateBOMEdge("PUMP", plant, "PUMP", "MOTOR", "1"),
			mustCreateBOMEdge("PUMP", plant, "PUMP", "HOUSING", "1"),
			mustCreateBOMEdge("PUMP", plant, "PUMP", "BOLT", "8"),
			mustCreateBOMEdge("PUMP", plant, "MOTOR", "WINDING", "2"),
		)
	}

	orders := []*entities.SalesOrder{
		mustCreateSalesOrder("SO-100", "PUMP", "P1", 5),
		mustCreateSalesOrder("SO-200", "PUMP", "P2", 3),
		mustCreateSalesOrder("SO-101", "PUMP", "P1", 4),
		mustCreateSalesOrder("SO-201", "MOTOR", "P2", 2),
		mustCreateSalesOrder("SO-102", "VALVE", "P1", 1),
		mustCreateSalesOrder("SO-202", "PUMP", "P2", 0),
	}

	stock := []*entities.StockRow{
		mustCreateStockRow("P1", "SO-100", "PUMP", 2, 0, 0),
		mustCreateStockRow("P1", "", "PUMP", 1, 1, 0),
		mustCreateStockRow("P1", "", "MOTOR", 3, 0, 2),
		mustCreateStockRow("P1", "", "HOUSING", 0, 4, 0),
		mustCreateStockRow("P1", "", "BOLT", 20, 10, 10),
		mustCreateStockRow("P1", "", "WINDING", 4, 0, 0),
		mustCreateStockRow("P2", "", "PUMP", 1, 0, 0),
		mustCreateStockRow("P2", "", "MOTOR", 1, 0, 0),
		mustCreateStockRow("P2", "", "BOLT", 16, 0, 0),
		mustCreateStockRow("P2", "", "WINDING", 1, 1, 1),
	}

	return Scenario{BOM: bom, Orders: orders, Stock: stock}
}

// CloneOrders deep-copies orders so a scenario can be run twice
func (s Scenario) CloneOrders() []*entities.SalesOrder {
	out := make([]*entities.SalesOrder, len(s.Orders))
	for i, order := range s.Orders {
		copied := *order
		out[i] = &copied
	}
	return out
}

// CloneStock deep-copies stock rows so a scenario can be run twice
func (s Scenario) CloneStock() []*entities.StockRow {
	out := make([]*entities.StockRow, len(s.Stock))
	for i, row := range s.Stock {
		copied := *row
		out[i] = &copied
	}
	return out
}
