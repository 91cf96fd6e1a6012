package memory

import (
	"github.com/vsinha/bomalloc/pkg/domain/entities"
	"github.com/vsinha/bomalloc/pkg/domain/repositories"
)

type itemAtPlant struct {
	item  entities.ItemID
	plant string
}

// BOMRepository is the in-memory BOM forest: one adjacency tree per (root, plant),
// plus a reverse index used to resolve sub-assemblies ordered as finished goods.
// It is immutable once built and safe to share between goroutines.
type BOMRepository struct {
	edges    []entities.BOMEdge
	trees    map[entities.TreeKey]entities.BOMTree
	treeKeys []entities.TreeKey
	reverse  map[itemAtPlant][]entities.ItemID
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// NewBOMRepository builds the forest and the reverse index in a single pass over edges.
// Edge order is kept everywhere: siblings explode in input order and the reverse index
// lists roots in the order they were first seen.
func NewBOMRepository(edges []*entities.BOMEdge) *BOMRepository {
	r := &BOMRepository{
		edges:   make([]entities.BOMEdge, 0, len(edges)),
		trees:   make(map[entities.TreeKey]entities.BOMTree),
		reverse: make(map[itemAtPlant][]entities.ItemID),
	}

	for _, edge := range edges {
		r.addEdge(*edge)
	}

	return r
}

func (r *BOMRepository) addEdge(edge entities.BOMEdge) {
	r.edges = append(r.edges, edge)

	key := entities.TreeKey{Root: edge.Root, Plant: edge.Plant}
	tree, exists := r.trees[key]
	if !exists {
		tree = make(entities.BOMTree)
		r.trees[key] = tree
		r.treeKeys = append(r.treeKeys, key)
	}
	tree[edge.Parent] = append(tree[edge.Parent], edge)

	child := itemAtPlant{item: edge.Child, plant: edge.Plant}
	for _, root := range r.reverse[child] {
		if root == edge.Root {
			return
		}
	}
	r.reverse[child] = append(r.reverse[child], edge.Root)
}

// Resolve finds the tree to explode for item at plant.
//
// An item that is a root resolves to its own tree. Otherwise, when the item appears as a
// component of one or more roots, the first root in BOM input order wins; this tie-break
// depends on input row order and is kept reproducible on purpose.
func (r *BOMRepository) Resolve(item entities.ItemID, plant string) entities.Resolution {
	if tree, exists := r.trees[entities.TreeKey{Root: item, Plant: plant}]; exists {
		return entities.Resolution{Root: item, Tree: tree, Kind: entities.Root}
	}

	roots := r.reverse[itemAtPlant{item: item, plant: plant}]
	if len(roots) > 0 {
		root := roots[0]
		return entities.Resolution{
			Root: root,
			Tree: r.trees[entities.TreeKey{Root: root, Plant: plant}],
			Kind: entities.SubAssembly,
		}
	}

	return entities.Resolution{Kind: entities.NotFound}
}

// GetTree returns the tree of a root at a plant
func (r *BOMRepository) GetTree(key entities.TreeKey) (entities.BOMTree, bool) {
	tree, exists := r.trees[key]
	return tree, exists
}

// GetTreeKeys returns every (root, plant) in first-seen order
func (r *BOMRepository) GetTreeKeys() []entities.TreeKey {
	return append([]entities.TreeKey(nil), r.treeKeys...)
}

// GetRootsContaining returns the roots whose tree contains item as a component
func (r *BOMRepository) GetRootsContaining(item entities.ItemID, plant string) []entities.ItemID {
	return append([]entities.ItemID(nil), r.reverse[itemAtPlant{item: item, plant: plant}]...)
}

// GetAllEdges returns all BOM edges in input order
func (r *BOMRepository) GetAllEdges() []entities.BOMEdge {
	return append([]entities.BOMEdge(nil), r.edges...)
}
