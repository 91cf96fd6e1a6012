package entities

import "fmt"

// BOMEdge is a single parent -> child line within the BOM of one root at one plant.
// Ratio is the quantity of child consumed per unit of parent.
type BOMEdge struct {
	Root   ItemID
	Plant  string
	Parent ItemID
	Child  ItemID
	Ratio  Quantity
}

// NewBOMEdge creates a validated BOMEdge
func NewBOMEdge(root ItemID, plant string, parent, child ItemID, ratio Quantity) (*BOMEdge, error) {
	if root == "" {
		return nil, fmt.Errorf("root part cannot be empty")
	}
	if plant == "" {
		return nil, fmt.Errorf("plant cannot be empty")
	}
	if parent == "" {
		return nil, fmt.Errorf("parent part cannot be empty")
	}
	if child == "" {
		return nil, fmt.Errorf("child part cannot be empty")
	}
	if parent == child {
		return nil, fmt.Errorf("parent and child parts cannot be the same: %s", parent)
	}
	if ratio.IsNegative() {
		return nil, fmt.Errorf("component ratio cannot be negative, got %s", ratio)
	}
	return &BOMEdge{
		Root:   root,
		Plant:  plant,
		Parent: parent,
		Child:  child,
		Ratio:  ratio,
	}, nil
}

// TreeKey identifies one BOM tree: a root item at a plant
type TreeKey struct {
	Root  ItemID
	Plant string
}

// BOMTree is the adjacency of one root: parent -> edges in BOM input order
type BOMTree map[ItemID][]BOMEdge

// Children returns the edges below parent, in input order
func (t BOMTree) Children(parent ItemID) []BOMEdge {
	return t[parent]
}

// ResolutionKind reports how a requested item was matched to a BOM tree
type ResolutionKind int

const (
	NotFound ResolutionKind = iota
	Root
	SubAssembly
)

// String method for ResolutionKind enum
func (k ResolutionKind) String() string {
	switch k {
	case NotFound:
		return "NOT_FOUND"
	case Root:
		return "ROOT"
	case SubAssembly:
		return "SFG"
	default:
		return "Unknown"
	}
}

// Resolution is the result of looking up a requested item in the BOM forest
type Resolution struct {
	Root ItemID
	Tree BOMTree
	Kind ResolutionKind
}
