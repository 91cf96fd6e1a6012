package repositories

import "github.com/vsinha/bomalloc/pkg/domain/entities"

// StockLedger provides access to three-bucket stock keyed by plant, scope and item.
// The key set is fixed once loaded; no operation may add a key afterwards.
type StockLedger interface {
	// Has reports whether an order-scoped or item-level entry exists
	Has(plant string, orderID entities.OrderID, item entities.ItemID) bool
	// Query returns the order-scoped buckets, else the item-level buckets, else zero
	Query(plant string, orderID entities.OrderID, item entities.ItemID) entities.StockBuckets
	// Consume draws qty from OnHand, then QC, then InTransit and returns the
	// per-bucket allocation and the quantity that could not be covered.
	Consume(
		plant string,
		orderID entities.OrderID,
		item entities.ItemID,
		qty entities.Quantity,
	) (entities.StockBuckets, entities.Quantity)
	// Snapshot returns the current stock rows in load order
	Snapshot() []entities.StockRow
}
