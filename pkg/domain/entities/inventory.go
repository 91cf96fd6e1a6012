package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bucket is one stock category. Buckets are consumed in declaration order.
type Bucket int

const (
	OnHand Bucket = iota
	QualityControl
	InTransit
)

// Buckets lists every bucket in consumption priority order
var Buckets = []Bucket{OnHand, QualityControl, InTransit}

// String method for Bucket enum
func (b Bucket) String() string {
	switch b {
	case OnHand:
		return "OnHand"
	case QualityControl:
		return "QC"
	case InTransit:
		return "InTransit"
	default:
		return "Unknown"
	}
}

// StockBuckets holds a quantity for each bucket.
// It is used both for stock levels and for per-bucket allocations.
type StockBuckets struct {
	OnHand    Quantity `json:"on_hand"`
	QC        Quantity `json:"qc"`
	InTransit Quantity `json:"in_transit"`
}

// Get returns the quantity held in bucket b
func (s StockBuckets) Get(b Bucket) Quantity {
	switch b {
	case OnHand:
		return s.OnHand
	case QualityControl:
		return s.QC
	case InTransit:
		return s.InTransit
	default:
		return decimal.Zero
	}
}

// With returns a copy of s with bucket b set to q
func (s StockBuckets) With(b Bucket, q Quantity) StockBuckets {
	switch b {
	case OnHand:
		s.OnHand = q
	case QualityControl:
		s.QC = q
	case InTransit:
		s.InTransit = q
	}
	return s
}

// Add returns the bucket-wise sum of s and o
func (s StockBuckets) Add(o StockBuckets) StockBuckets {
	return StockBuckets{
		OnHand:    s.OnHand.Add(o.OnHand),
		QC:        s.QC.Add(o.QC),
		InTransit: s.InTransit.Add(o.InTransit),
	}
}

// Total returns the sum over all buckets
func (s StockBuckets) Total() Quantity {
	return s.OnHand.Add(s.QC).Add(s.InTransit)
}

// IsZero reports whether every bucket is zero
func (s StockBuckets) IsZero() bool {
	return s.Total().IsZero()
}

// StockKey addresses one ledger entry. An empty OrderID is the item-level scope
// shared by every order at the plant.
type StockKey struct {
	Plant   string
	OrderID OrderID
	Item    ItemID
}

// ItemLevelScope is the display name of the shared scope
const ItemLevelScope = "item-level"

// IsItemLevel reports whether the key addresses shared item-level stock
func (k StockKey) IsItemLevel() bool {
	return k.OrderID == ""
}

// Scope returns the order id, or ItemLevelScope for shared stock
func (k StockKey) Scope() string {
	if k.IsItemLevel() {
		return ItemLevelScope
	}
	return string(k.OrderID)
}

// ItemLevel returns the item-level key for the same plant and item
func (k StockKey) ItemLevel() StockKey {
	return StockKey{Plant: k.Plant, Item: k.Item}
}

func (k StockKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Plant, k.Scope(), k.Item)
}

// StockRow is one row of the stock table: a key and its bucket quantities
type StockRow struct {
	Key     StockKey
	Buckets StockBuckets
}

// NewStockRow creates a validated StockRow
func NewStockRow(plant string, orderID OrderID, item ItemID, buckets StockBuckets) (*StockRow, error) {
	if plant == "" {
		return nil, fmt.Errorf("plant cannot be empty")
	}
	if item == "" {
		return nil, fmt.Errorf("item cannot be empty")
	}
	for _, b := range Buckets {
		if buckets.Get(b).IsNegative() {
			return nil, fmt.Errorf("%s stock cannot be negative, got %s", b, buckets.Get(b))
		}
	}
	return &StockRow{
		Key:     StockKey{Plant: plant, OrderID: orderID, Item: item},
		Buckets: buckets,
	}, nil
}
