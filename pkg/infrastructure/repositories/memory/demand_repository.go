package memory

import (
	"github.com/vsinha/bomalloc/pkg/domain/entities"
	"github.com/vsinha/bomalloc/pkg/domain/repositories"
)

// DemandRepository provides in-memory sales order storage
type DemandRepository struct {
	orders []entities.SalesOrder
}

// NewDemandRepository creates a new in-memory demand repository
func NewDemandRepository() *DemandRepository {
	return &DemandRepository{
		orders: []entities.SalesOrder{},
	}
}

// Verify interface compliance
var _ repositories.DemandRepository = (*DemandRepository)(nil)

// LoadOrders appends orders to the repository, keeping their order
func (r *DemandRepository) LoadOrders(orders []*entities.SalesOrder) error {
	for _, order := range orders {
		r.orders = append(r.orders, *order)
	}
	return nil
}

// GetOrders returns all sales orders in input order
func (r *DemandRepository) GetOrders() ([]*entities.SalesOrder, error) {
	orders := make([]*entities.SalesOrder, 0, len(r.orders))
	for i := range r.orders {
		orders = append(orders, &r.orders[i])
	}
	return orders, nil
}

// GetPlants returns the distinct plants of the loaded orders in first-seen order
func (r *DemandRepository) GetPlants() []string {
	seen := make(map[string]bool)
	var plants []string
	for _, order := range r.orders {
		if !seen[order.Plant] {
			seen[order.Plant] = true
			plants = append(plants, order.Plant)
		}
	}
	return plants
}
