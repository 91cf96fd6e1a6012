package entities

import "fmt"

// SalesOrder is top-level demand for a finished good at a plant
type SalesOrder struct {
	OrderID  OrderID  `json:"order_id"`
	Item     ItemID   `json:"fg_id"`
	Plant    string   `json:"plant"`
	Quantity Quantity `json:"order_qty"`
}

// NewSalesOrder creates a validated SalesOrder
func NewSalesOrder(orderID OrderID, item ItemID, plant string, quantity Quantity) (*SalesOrder, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if item == "" {
		return nil, fmt.Errorf("finished good cannot be empty")
	}
	if plant == "" {
		return nil, fmt.Errorf("plant cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("order quantity cannot be negative, got %s", quantity)
	}
	return &SalesOrder{
		OrderID:  orderID,
		Item:     item,
		Plant:    plant,
		Quantity: quantity,
	}, nil
}

// OrderAllocation is an order row after single-level allocation
type OrderAllocation struct {
	Order        SalesOrder   `json:"order"`
	AllocatedQty Quantity     `json:"allocated_qty"`
	RemainingQty Quantity     `json:"remaining_qty"`
	Allocation   StockBuckets `json:"allocation"`
	StockBefore  StockBuckets `json:"stock_before"`
	StockAfter   StockBuckets `json:"stock_after"`
	HasStockData bool         `json:"has_stock_data"`
}

// FullyAllocated reports whether the whole order quantity was covered
func (a OrderAllocation) FullyAllocated() bool {
	return a.RemainingQty.IsZero()
}

// ComponentAllocation is one node of an exploded order: the demand that reached an item
// through the BOM and what the ledger could cover.
type ComponentAllocation struct {
	OrderID      OrderID      `json:"order_id"`
	Plant        string       `json:"plant"`
	Parent       ItemID       `json:"parent"`
	Level        int          `json:"level"`
	Item         ItemID       `json:"item"`
	RequestedQty Quantity     `json:"requested_qty"`
	AllocatedQty Quantity     `json:"allocated_qty"`
	Allocation   StockBuckets `json:"allocation"`
	LeftoverQty  Quantity     `json:"leftover_qty"`
}
