package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBOMEdge_Validation(t *testing.T) {
	validEdge, err := NewBOMEdge("FG1", "P1", "FG1", "C1", decimal.NewFromFloat(2.5))
	require.NoError(t, err)
	assert.True(t, validEdge.Ratio.Equal(decimal.NewFromFloat(2.5)))

	zeroRatio, err := NewBOMEdge("FG1", "P1", "FG1", "C1", decimal.Zero)
	require.NoError(t, err, "zero ratio is allowed")
	assert.True(t, zeroRatio.Ratio.IsZero())

	testCases := []struct {
		name        string
		root        ItemID
		plant       string
		parent      ItemID
		child       ItemID
		ratio       Quantity
		expectError string
	}{
		{"empty root", "", "P1", "FG1", "C1", Qty(1), "root part cannot be empty"},
		{"empty plant", "FG1", "", "FG1", "C1", Qty(1), "plant cannot be empty"},
		{"empty parent", "FG1", "P1", "", "C1", Qty(1), "parent part cannot be empty"},
		{"empty child", "FG1", "P1", "FG1", "", Qty(1), "child part cannot be empty"},
		{"parent equals child", "FG1", "P1", "C1", "C1", Qty(1), "parent and child parts cannot be the same: C1"},
		{"negative ratio", "FG1", "P1", "FG1", "C1", Qty(-2), "component ratio cannot be negative, got -2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBOMEdge(tc.root, tc.plant, tc.parent, tc.child, tc.ratio)
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}
}

func TestBOMTree_ChildrenKeepInputOrder(t *testing.T) {
	tree := BOMTree{
		"FG1": {
			{Root: "FG1", Plant: "P1", Parent: "FG1", Child: "C2", Ratio: Qty(1)},
			{Root: "FG1", Plant: "P1", Parent: "FG1", Child: "C1", Ratio: Qty(3)},
		},
	}

	children := tree.Children("FG1")
	require.Len(t, children, 2)
	assert.Equal(t, ItemID("C2"), children[0].Child)
	assert.Equal(t, ItemID("C1"), children[1].Child)
	assert.Empty(t, tree.Children("C1"))
}

func TestResolutionKind_String(t *testing.T) {
	assert.Equal(t, "ROOT", Root.String())
	assert.Equal(t, "SFG", SubAssembly.String())
	assert.Equal(t, "NOT_FOUND", NotFound.String())
	assert.Equal(t, "Unknown", ResolutionKind(42).String())
}
