package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/application/services"
	"github.com/vsinha/bomalloc/pkg/application/services/orchestration"
	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

func main() {
	ctx := context.Background()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	inputs, err := gearboxInputs()
	if err != nil {
		fmt.Printf("❌ Invalid inputs: %v\n", err)
		return
	}

	orchestrator := orchestration.NewAllocationOrchestrator(services.NewRegistry(), nil, logger)
	result, err := orchestrator.Run(ctx, orchestration.Settings{
		Client:         "DEMO",
		OrderPhase:     orchestration.PhaseSettings{Enabled: true, Strategy: "partial"},
		ComponentPhase: orchestration.PhaseSettings{Enabled: true, Strategy: "partial"},
	}, inputs)
	if err != nil {
		fmt.Printf("❌ Allocation failed: %v\n", err)
		return
	}

	fmt.Println("📦 Order allocation:")
	for _, a := range result.OrderPhase.Orders {
		fmt.Printf("  %s %s: %s of %s allocated, %s open\n",
			a.Order.OrderID, a.Order.Item,
			a.AllocatedQty.String(), a.Order.Quantity.String(), a.RemainingQty.String())
	}
	fmt.Println()

	fmt.Println("🔄 Component allocation:")
	for _, row := range result.ComponentPhase.Components {
		fmt.Printf("  %s L%d %-10s requested %-6s allocated %-6s leftover %s\n",
			row.OrderID, row.Level, row.Item,
			row.RequestedQty.String(), row.AllocatedQty.String(), row.LeftoverQty.String())
	}
	fmt.Println()

	fmt.Println("📝 Remarks:")
	for _, id := range result.RemarkOrder {
		fmt.Printf("  %s: %s\n", id, result.Get(id))
	}
}

// gearboxInputs builds a one-plant gearbox BOM with two competing orders
func gearboxInputs() (orchestration.Inputs, error) {
	var inputs orchestration.Inputs

	edges := []struct {
		parent, child string
		ratio         string
	}{
		{"GEARBOX", "SHAFT", "1"},
		{"GEARBOX", "GEAR", "4"},
		{"GEARBOX", "OIL", "0.75"},
		{"GEAR", "BLANK", "1"},
	}
	for _, e := range edges {
		edge, err := entities.NewBOMEdge("GEARBOX", "PLANT_1", entities.ItemID(e.parent), entities.ItemID(e.child), decimal.RequireFromString(e.ratio))
		if err != nil {
			return inputs, err
		}
		inputs.BOM = append(inputs.BOM, edge)
	}

	for _, o := range []struct {
		id  string
		qty int64
	}{{"SO-1", 3}, {"SO-2", 2}} {
		order, err := entities.NewSalesOrder(entities.OrderID(o.id), "GEARBOX", "PLANT_1", entities.Qty(o.qty))
		if err != nil {
			return inputs, err
		}
		inputs.Orders = append(inputs.Orders, order)
	}

	stock := []struct {
		item             string
		onHand, qc, tran int64
	}{
		{"GEARBOX", 1, 0, 0},
		{"SHAFT", 2, 1, 0},
		{"GEAR", 6, 0, 4},
		{"BLANK", 10, 0, 0},
		{"OIL", 2, 0, 0},
	}
	for _, s := range stock {
		row, err := entities.NewStockRow("PLANT_1", "", entities.ItemID(s.item), entities.StockBuckets{
			OnHand:    entities.Qty(s.onHand),
			QC:        entities.Qty(s.qc),
			InTransit: entities.Qty(s.tran),
		})
		if err != nil {
			return inputs, err
		}
		inputs.Stock = append(inputs.Stock, row)
	}

	return inputs, nil
}
