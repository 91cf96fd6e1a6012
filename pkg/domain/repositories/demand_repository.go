package repositories

import "github.com/vsinha/bomalloc/pkg/domain/entities"

// DemandRepository provides access to sales orders in input order
type DemandRepository interface {
	GetOrders() ([]*entities.SalesOrder, error)
	LoadOrders(orders []*entities.SalesOrder) error
}
