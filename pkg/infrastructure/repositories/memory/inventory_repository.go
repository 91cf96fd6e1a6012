package memory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
	"github.com/vsinha/bomalloc/pkg/domain/repositories"
)

// Ledger is the in-memory stock ledger. It holds three-bucket stock per
// (plant, scope, item) and never creates a key after Load.
//
// A Ledger is not safe for concurrent use. Callers own it exclusively for the
// duration of a run; plant partitions get their own Ledger via Partition.
type Ledger struct {
	stock  map[entities.StockKey]entities.StockBuckets
	keys   []entities.StockKey
	loaded bool
	logger *zap.Logger
}

// Verify interface compliance
var _ repositories.StockLedger = (*Ledger)(nil)

// NewLedger creates an empty ledger. A nil logger discards diagnostics.
func NewLedger(logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		stock:  make(map[entities.StockKey]entities.StockBuckets),
		logger: logger,
	}
}

// Load fills the ledger from order-scoped and item-level rows. It is the only
// operation that creates keys and may be called once. Rows repeating a key are summed.
func (l *Ledger) Load(orderScoped, itemScoped []*entities.StockRow) error {
	if l.loaded {
		return fmt.Errorf("stock ledger already loaded")
	}

	for _, row := range orderScoped {
		if row.Key.IsItemLevel() {
			return fmt.Errorf("order-scoped stock row for %s has no order id", row.Key)
		}
		l.add(*row)
	}
	for _, row := range itemScoped {
		if !row.Key.IsItemLevel() {
			return fmt.Errorf("item-level stock row for %s carries order id %s", row.Key.Item, row.Key.OrderID)
		}
		l.add(*row)
	}

	l.loaded = true
	l.logger.Debug("stock ledger loaded",
		zap.Int("order_scoped_rows", len(orderScoped)),
		zap.Int("item_level_rows", len(itemScoped)),
		zap.Int("keys", len(l.keys)),
	)
	return nil
}

// LoadRows splits rows by scope and loads them, order-scoped rows first
func (l *Ledger) LoadRows(rows []*entities.StockRow) error {
	var orderScoped, itemScoped []*entities.StockRow
	for _, row := range rows {
		if row.Key.IsItemLevel() {
			itemScoped = append(itemScoped, row)
		} else {
			orderScoped = append(orderScoped, row)
		}
	}
	return l.Load(orderScoped, itemScoped)
}

func (l *Ledger) add(row entities.StockRow) {
	current, exists := l.stock[row.Key]
	if !exists {
		l.keys = append(l.keys, row.Key)
	}
	l.stock[row.Key] = current.Add(row.Buckets)
}

// lookup resolves the effective key: order-scoped first, then item-level
func (l *Ledger) lookup(plant string, orderID entities.OrderID, item entities.ItemID) (entities.StockKey, bool) {
	if orderID != "" {
		key := entities.StockKey{Plant: plant, OrderID: orderID, Item: item}
		if _, exists := l.stock[key]; exists {
			return key, true
		}
	}
	key := entities.StockKey{Plant: plant, Item: item}
	_, exists := l.stock[key]
	return key, exists
}

// Has reports whether an order-scoped or item-level entry exists
func (l *Ledger) Has(plant string, orderID entities.OrderID, item entities.ItemID) bool {
	_, exists := l.lookup(plant, orderID, item)
	return exists
}

// Query returns the effective buckets without mutating anything.
// A missing entry reads as zero stock.
func (l *Ledger) Query(plant string, orderID entities.OrderID, item entities.ItemID) entities.StockBuckets {
	key, exists := l.lookup(plant, orderID, item)
	if !exists {
		return entities.StockBuckets{}
	}
	return l.stock[key]
}

// Consume draws qty from the effective entry, draining OnHand, then QC, then
// InTransit. The updated buckets are written back to the entry that satisfied the
// lookup, so item-level depletion is visible to every later order at the plant.
//
// A missing entry is never created: the call returns a zero allocation with the
// whole qty unfulfilled and logs a warning.
func (l *Ledger) Consume(
	plant string,
	orderID entities.OrderID,
	item entities.ItemID,
	qty entities.Quantity,
) (entities.StockBuckets, entities.Quantity) {
	if !qty.IsPositive() {
		return entities.StockBuckets{}, decimal.Zero
	}

	key, exists := l.lookup(plant, orderID, item)
	if !exists {
		l.logger.Warn("stock update skipped for unknown ledger key",
			zap.String("plant", plant),
			zap.String("order_id", string(orderID)),
			zap.String("item", string(item)),
			zap.String("qty", qty.String()),
		)
		return entities.StockBuckets{}, qty
	}

	available := l.stock[key]
	remaining := qty
	var allocation entities.StockBuckets

	for _, bucket := range entities.Buckets {
		if !remaining.IsPositive() {
			break
		}
		take := entities.MinQty(remaining, available.Get(bucket))
		if !take.IsPositive() {
			continue
		}
		allocation = allocation.With(bucket, take)
		available = available.With(bucket, available.Get(bucket).Sub(take))
		remaining = remaining.Sub(take)
	}

	l.stock[key] = available
	return allocation, remaining
}

// Snapshot returns the current stock rows in load order
func (l *Ledger) Snapshot() []entities.StockRow {
	rows := make([]entities.StockRow, 0, len(l.keys))
	for _, key := range l.keys {
		rows = append(rows, entities.StockRow{Key: key, Buckets: l.stock[key]})
	}
	return rows
}

// Len returns the number of ledger keys
func (l *Ledger) Len() int {
	return len(l.keys)
}

// Partition returns a new ledger holding a copy of every entry at plant.
// Plants never share keys, so partitions can be mutated independently and
// written back with Absorb.
func (l *Ledger) Partition(plant string) *Ledger {
	part := NewLedger(l.logger.With(zap.String("partition", plant)))
	for _, key := range l.keys {
		if key.Plant == plant {
			part.keys = append(part.keys, key)
			part.stock[key] = l.stock[key]
		}
	}
	part.loaded = true
	return part
}

// Absorb copies the buckets of a partition back into l. Keys unknown to l are
// ignored and reported, never created.
func (l *Ledger) Absorb(part *Ledger) {
	for _, key := range part.keys {
		if _, exists := l.stock[key]; !exists {
			l.logger.Warn("partition key unknown to parent ledger", zap.Stringer("key", key))
			continue
		}
		l.stock[key] = part.stock[key]
	}
}
