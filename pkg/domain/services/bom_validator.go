package services

import (
	"fmt"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

// BOMValidator checks BOM edges for structural problems before a run.
// Cyclic trees are rejected before any order is processed.
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles      bool
	CyclePaths     [][]entities.ItemID
	DuplicateEdges []entities.BOMEdge
	Errors         []string
	Warnings       []string
}

// Err returns a CyclicBOMError when cycles were found, nil otherwise.
// Duplicates are reported as warnings only: the engine explodes them as separate lines.
func (r *ValidationResult) Err() error {
	if !r.HasCycles {
		return nil
	}
	return &entities.CyclicBOMError{Cycles: r.CyclePaths}
}

type edgeIdentity struct {
	tree   entities.TreeKey
	parent entities.ItemID
	child  entities.ItemID
}

// ValidateBOM performs validation on a set of BOM edges, tree by tree
func (v *BOMValidator) ValidateBOM(edges []entities.BOMEdge) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:     make([][]entities.ItemID, 0),
		DuplicateEdges: make([]entities.BOMEdge, 0),
		Errors:         make([]string, 0),
		Warnings:       make([]string, 0),
	}

	trees, order := v.buildAdjacencyMaps(edges)
	for _, key := range order {
		adjacency := trees[key]
		for _, cycle := range v.detectCycles(adjacency) {
			result.CyclePaths = append(result.CyclePaths, cycle)
			result.Errors = append(result.Errors,
				fmt.Sprintf("BOM cycle detected in %s@%s: %v", key.Root, key.Plant, cycle))
		}
	}
	result.HasCycles = len(result.CyclePaths) > 0

	result.DuplicateEdges = v.detectDuplicateEdges(edges)
	if len(result.DuplicateEdges) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d duplicate BOM edges", len(result.DuplicateEdges)))
	}

	return result
}

type adjacency struct {
	parents  []entities.ItemID
	children map[entities.ItemID][]entities.ItemID
}

// buildAdjacencyMaps creates parent -> children maps per tree, keeping input order
func (v *BOMValidator) buildAdjacencyMaps(edges []entities.BOMEdge) (map[entities.TreeKey]*adjacency, []entities.TreeKey) {
	trees := make(map[entities.TreeKey]*adjacency)
	var order []entities.TreeKey

	for _, edge := range edges {
		key := entities.TreeKey{Root: edge.Root, Plant: edge.Plant}
		adj, exists := trees[key]
		if !exists {
			adj = &adjacency{children: make(map[entities.ItemID][]entities.ItemID)}
			trees[key] = adj
			order = append(order, key)
		}
		if _, seen := adj.children[edge.Parent]; !seen {
			adj.parents = append(adj.parents, edge.Parent)
		}
		adj.children[edge.Parent] = append(adj.children[edge.Parent], edge.Child)
	}

	return trees, order
}

// detectCycles uses DFS to find cycles in one tree
func (v *BOMValidator) detectCycles(adj *adjacency) [][]entities.ItemID {
	visited := make(map[entities.ItemID]bool)
	recursionStack := make(map[entities.ItemID]bool)
	cycles := make([][]entities.ItemID, 0)

	for _, parent := range adj.parents {
		if !visited[parent] {
			v.dfsDetectCycle(parent, adj, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func (v *BOMValidator) dfsDetectCycle(
	current entities.ItemID,
	adj *adjacency,
	visited map[entities.ItemID]bool,
	recursionStack map[entities.ItemID]bool,
	path []entities.ItemID,
	cycles *[][]entities.ItemID,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adj.children[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adj, visited, recursionStack, path, cycles)
		} else if recursionStack[child] {
			for i, part := range path {
				if part == child {
					cycle := make([]entities.ItemID, 0, len(path)-i+1)
					cycle = append(cycle, path[i:]...)
					cycle = append(cycle, child)
					*cycles = append(*cycles, cycle)
					break
				}
			}
		}
	}

	recursionStack[current] = false
}

// detectDuplicateEdges finds repeated parent/child pairs within the same tree
func (v *BOMValidator) detectDuplicateEdges(edges []entities.BOMEdge) []entities.BOMEdge {
	seen := make(map[edgeIdentity]bool)
	duplicates := make([]entities.BOMEdge, 0)

	for _, edge := range edges {
		id := edgeIdentity{
			tree:   entities.TreeKey{Root: edge.Root, Plant: edge.Plant},
			parent: edge.Parent,
			child:  edge.Child,
		}
		if seen[id] {
			duplicates = append(duplicates, edge)
			continue
		}
		seen[id] = true
	}

	return duplicates
}
