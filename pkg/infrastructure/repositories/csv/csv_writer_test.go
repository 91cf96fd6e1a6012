package csv

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

type remarkMap map[entities.OrderID]string

func (m remarkMap) Get(id entities.OrderID) string { return m[id] }

func TestWriteOrders(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOrders(&buf, []entities.OrderAllocation{
		{
			Order:        entities.SalesOrder{OrderID: "SO1", Item: "FG1", Plant: "P1", Quantity: entities.Qty(10)},
			AllocatedQty: entities.Qty(4),
			RemainingQty: entities.Qty(6),
		},
		{
			Order:        entities.SalesOrder{OrderID: "SO2", Item: "FG1", Plant: "P1", Quantity: entities.Qty(1)},
			AllocatedQty: entities.Qty(1),
			RemainingQty: decimal.Zero,
		},
	}, remarkMap{"SO1": "Partially allocated | second"})
	require.NoError(t, err)

	assert.Equal(t,
		"order_id,fg_id,plant,order_qty,allocated_qty,remaining_qty,remark\n"+
			"SO1,FG1,P1,10,4,6,Partially allocated | second\n"+
			"SO2,FG1,P1,1,1,0,\n",
		buf.String())
}

func TestWriteStockRoundTrips(t *testing.T) {
	rows := []entities.StockRow{
		{Key: entities.StockKey{Plant: "P1", OrderID: "SO1", Item: "FG1"}, Buckets: entities.StockBuckets{OnHand: entities.Qty(2)}},
		{Key: entities.StockKey{Plant: "P1", Item: "C1"}, Buckets: entities.StockBuckets{QC: entities.Qty(3), InTransit: decimal.RequireFromString("1.5")}},
	}

	path := filepath.Join(t.TempDir(), "out", "stock.csv")
	require.NoError(t, WriteFile(path, func(w io.Writer) error { return WriteStock(w, rows) }))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"plant,order_id,item_id,on_hand,qc,in_transit\n"+
			"P1,SO1,FG1,2,0,0\n"+
			"P1,,C1,0,3,1.5\n",
		string(content))

	schema := Schema{ColOrderID: ColOrderID, ColItemID: ColItemID, ColPlant: ColPlant, ColOnHand: ColOnHand, ColQC: ColQC, ColInTransit: ColInTransit}
	loaded, err := NewLoader(nil).LoadStock(path, schema)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, rows[1].Key, loaded[1].Key)
	assert.True(t, loaded[1].Buckets.InTransit.Equal(rows[1].Buckets.InTransit))
}

func TestWriteComponents(t *testing.T) {
	var buf bytes.Buffer
	err := WriteComponents(&buf, []entities.ComponentAllocation{
		{
			OrderID:      "SO1",
			Plant:        "P1",
			Parent:       "FG1",
			Level:        1,
			Item:         "C1",
			RequestedQty: entities.Qty(20),
			AllocatedQty: entities.Qty(20),
			Allocation:   entities.StockBuckets{OnHand: entities.Qty(20)},
			LeftoverQty:  decimal.Zero,
		},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"order_id,plant,parent,level,item,requested_qty,allocated_qty,alloc_on_hand,alloc_qc,alloc_in_transit,leftover_qty\n"+
			"SO1,P1,FG1,1,C1,20,20,20,0,0,0\n",
		buf.String())
}

func TestWriteRemarksSkipsSilentOrders(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRemarks(&buf, []entities.OrderID{"SO2", "SO1", "SO3"}, remarkMap{"SO1": "a", "SO2": "b"})
	require.NoError(t, err)

	assert.Equal(t, "order_id,remark\nSO2,b\nSO1,a\n", buf.String())
}
