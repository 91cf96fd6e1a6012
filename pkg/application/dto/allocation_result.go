package dto

import (
	"time"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

// OrderPhaseResult is the output of single-level order allocation
type OrderPhaseResult struct {
	Strategy       string                     `json:"strategy"`
	Orders         []entities.OrderAllocation `json:"orders"`
	RemainingStock []entities.StockRow        `json:"remaining_stock"`
}

// ComponentPhaseResult is the output of BOM explosion allocation
type ComponentPhaseResult struct {
	Strategy   string                         `json:"strategy"`
	Components []entities.ComponentAllocation `json:"components"`
	Processed  []entities.OrderID             `json:"processed"`
	Skipped    []entities.OrderID             `json:"skipped"`
}

// AllocationResult contains the complete output of an allocation run
type AllocationResult struct {
	RunID          string                      `json:"run_id"`
	Client         string                      `json:"client"`
	StartedAt      time.Time                   `json:"started_at"`
	Duration       time.Duration               `json:"duration"`
	Orders         []entities.SalesOrder       `json:"input_orders"`
	OrderPhase     *OrderPhaseResult           `json:"order_phase,omitempty"`
	ComponentPhase *ComponentPhaseResult       `json:"component_phase,omitempty"`
	Remarks        map[entities.OrderID]string `json:"remarks"`
	RemarkOrder    []entities.OrderID          `json:"-"`
}

// Get returns the accumulated remark of an order
func (r *AllocationResult) Get(orderID entities.OrderID) string {
	return r.Remarks[orderID]
}

// Shortfall counts component rows that ended with leftover demand
func (r *ComponentPhaseResult) Shortfall() int {
	count := 0
	for _, row := range r.Components {
		if row.LeftoverQty.IsPositive() {
			count++
		}
	}
	return count
}
