package repositories

import "github.com/vsinha/bomalloc/pkg/domain/entities"

// BOMRepository provides read access to the BOM forest
type BOMRepository interface {
	// Resolve finds the tree that explodes item at plant.
	// It is a pure read: repeated calls return the same resolution.
	Resolve(item entities.ItemID, plant string) entities.Resolution
	GetTree(key entities.TreeKey) (entities.BOMTree, bool)
	GetAllEdges() []entities.BOMEdge
}
