package memory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

func stockRow(plant, orderID, item string, onHand, qc, inTransit int64) *entities.StockRow {
	return &entities.StockRow{
		Key: entities.StockKey{Plant: plant, OrderID: entities.OrderID(orderID), Item: entities.ItemID(item)},
		Buckets: entities.StockBuckets{
			OnHand:    entities.Qty(onHand),
			QC:        entities.Qty(qc),
			InTransit: entities.Qty(inTransit),
		},
	}
}

func newLoadedLedger(t *testing.T, rows ...*entities.StockRow) *Ledger {
	t.Helper()
	ledger := NewLedger(nil)
	require.NoError(t, ledger.LoadRows(rows))
	return ledger
}

func TestLedger_ConsumeBucketPrecedence(t *testing.T) {
	tests := []struct {
		name              string
		requestedQty      int64
		expectedOnHand    int64
		expectedQC        int64
		expectedInTransit int64
		expectedUnfilled  int64
		residual          entities.StockBuckets
	}{
		{
			name:           "on_hand_only",
			requestedQty:   3,
			expectedOnHand: 3,
			residual:       entities.StockBuckets{OnHand: entities.Qty(2), QC: entities.Qty(4), InTransit: entities.Qty(6)},
		},
		{
			name:           "drains_on_hand_then_qc",
			requestedQty:   7,
			expectedOnHand: 5,
			expectedQC:     2,
			residual:       entities.StockBuckets{OnHand: decimal.Zero, QC: entities.Qty(2), InTransit: entities.Qty(6)},
		},
		{
			name:              "reaches_in_transit",
			requestedQty:      12,
			expectedOnHand:    5,
			expectedQC:        4,
			expectedInTransit: 3,
			residual:          entities.StockBuckets{OnHand: decimal.Zero, QC: decimal.Zero, InTransit: entities.Qty(3)},
		},
		{
			name:              "over_consumption_drains_everything",
			requestedQty:      20,
			expectedOnHand:    5,
			expectedQC:        4,
			expectedInTransit: 6,
			expectedUnfilled:  5,
			residual:          entities.StockBuckets{OnHand: decimal.Zero, QC: decimal.Zero, InTransit: decimal.Zero},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newLoadedLedger(t, stockRow("P1", "", "C1", 5, 4, 6))

			allocation, unfulfilled := ledger.Consume("P1", "SO1", "C1", entities.Qty(tt.requestedQty))

			assert.True(t, allocation.OnHand.Equal(entities.Qty(tt.expectedOnHand)), "on hand: %s", allocation.OnHand)
			assert.True(t, allocation.QC.Equal(entities.Qty(tt.expectedQC)), "qc: %s", allocation.QC)
			assert.True(t, allocation.InTransit.Equal(entities.Qty(tt.expectedInTransit)), "in transit: %s", allocation.InTransit)
			assert.True(t, unfulfilled.Equal(entities.Qty(tt.expectedUnfilled)), "unfulfilled: %s", unfulfilled)

			// sum of bucket draws equals qty - unfulfilled
			assert.True(t, allocation.Total().Equal(entities.Qty(tt.requestedQty).Sub(unfulfilled)))

			after := ledger.Query("P1", "SO1", "C1")
			assert.True(t, after.OnHand.Equal(tt.residual.OnHand))
			assert.True(t, after.QC.Equal(tt.residual.QC))
			assert.True(t, after.InTransit.Equal(tt.residual.InTransit))
		})
	}
}

func TestLedger_QCOnlyTouchedAfterOnHandDrained(t *testing.T) {
	ledger := newLoadedLedger(t, stockRow("P1", "", "C1", 0, 3, 3))

	allocation, unfulfilled := ledger.Consume("P1", "SO1", "C1", entities.Qty(4))

	assert.True(t, allocation.OnHand.IsZero())
	assert.True(t, allocation.QC.Equal(entities.Qty(3)))
	assert.True(t, allocation.InTransit.Equal(entities.Qty(1)))
	assert.True(t, unfulfilled.IsZero())
}

func TestLedger_ConsumeMissingKeyCreatesNothing(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ledger := NewLedger(zap.New(core))
	require.NoError(t, ledger.LoadRows([]*entities.StockRow{stockRow("P1", "", "C1", 5, 0, 0)}))

	allocation, unfulfilled := ledger.Consume("P1", "SO1", "GHOST", entities.Qty(8))

	assert.True(t, allocation.IsZero())
	assert.True(t, unfulfilled.Equal(entities.Qty(8)))
	assert.False(t, ledger.Has("P1", "SO1", "GHOST"))
	assert.Equal(t, 1, ledger.Len())
	assert.True(t, ledger.Query("P1", "SO1", "GHOST").IsZero())

	require.Equal(t, 1, logs.Len(), "unknown key update is surfaced as a warning")
	assert.Equal(t, "stock update skipped for unknown ledger key", logs.All()[0].Message)
}

func TestLedger_OrderScopePreferredOverItemLevel(t *testing.T) {
	ledger := newLoadedLedger(t,
		stockRow("P1", "SO1", "FG1", 2, 0, 0),
		stockRow("P1", "", "FG1", 10, 0, 0),
	)

	assert.True(t, ledger.Query("P1", "SO1", "FG1").OnHand.Equal(entities.Qty(2)))
	assert.True(t, ledger.Query("P1", "SO2", "FG1").OnHand.Equal(entities.Qty(10)))

	// order-scoped stock is used even when insufficient; item level stays untouched
	_, unfulfilled := ledger.Consume("P1", "SO1", "FG1", entities.Qty(5))
	assert.True(t, unfulfilled.Equal(entities.Qty(3)))
	assert.True(t, ledger.Query("P1", "SO1", "FG1").OnHand.IsZero())
	assert.True(t, ledger.Query("P1", "SO2", "FG1").OnHand.Equal(entities.Qty(10)))
}

func TestLedger_ItemLevelContentionAcrossOrders(t *testing.T) {
	ledger := newLoadedLedger(t, stockRow("P1", "", "X", 5, 0, 0))

	allocO1, leftO1 := ledger.Consume("P1", "O1", "X", entities.Qty(3))
	assert.True(t, allocO1.Total().Equal(entities.Qty(3)))
	assert.True(t, leftO1.IsZero())
	assert.True(t, ledger.Query("P1", "O2", "X").OnHand.Equal(entities.Qty(2)))

	allocO2, leftO2 := ledger.Consume("P1", "O2", "X", entities.Qty(4))
	assert.True(t, allocO2.Total().Equal(entities.Qty(2)))
	assert.True(t, leftO2.Equal(entities.Qty(2)))
	assert.True(t, ledger.Query("P1", "O3", "X").IsZero())
}

func TestLedger_PlantsNeverAlias(t *testing.T) {
	ledger := newLoadedLedger(t, stockRow("P1", "", "X", 5, 0, 0))

	assert.False(t, ledger.Has("P2", "SO1", "X"))
	_, unfulfilled := ledger.Consume("P2", "SO1", "X", entities.Qty(1))
	assert.True(t, unfulfilled.Equal(entities.Qty(1)))
	assert.True(t, ledger.Query("P1", "SO1", "X").OnHand.Equal(entities.Qty(5)))
}

func TestLedger_LoadSumsDuplicatesAndKeepsOrder(t *testing.T) {
	ledger := newLoadedLedger(t,
		stockRow("P1", "", "B", 1, 0, 0),
		stockRow("P1", "SO1", "A", 2, 0, 0),
		stockRow("P1", "", "B", 4, 1, 0),
	)

	rows := ledger.Snapshot()
	require.Len(t, rows, 2)
	assert.Equal(t, entities.StockKey{Plant: "P1", OrderID: "SO1", Item: "A"}, rows[0].Key, "order-scoped rows load first")
	assert.Equal(t, entities.StockKey{Plant: "P1", Item: "B"}, rows[1].Key)
	assert.True(t, rows[1].Buckets.OnHand.Equal(entities.Qty(5)))
	assert.True(t, rows[1].Buckets.QC.Equal(entities.Qty(1)))
}

func TestLedger_LoadOnlyOnce(t *testing.T) {
	ledger := newLoadedLedger(t, stockRow("P1", "", "A", 1, 0, 0))

	err := ledger.LoadRows([]*entities.StockRow{stockRow("P1", "", "NEW", 1, 0, 0)})
	require.Error(t, err)
	assert.False(t, ledger.Has("P1", "", "NEW"))
}

func TestLedger_LoadRejectsWrongScope(t *testing.T) {
	ledger := NewLedger(nil)
	err := ledger.Load([]*entities.StockRow{stockRow("P1", "", "A", 1, 0, 0)}, nil)
	assert.Error(t, err)

	ledger = NewLedger(nil)
	err = ledger.Load(nil, []*entities.StockRow{stockRow("P1", "SO1", "A", 1, 0, 0)})
	assert.Error(t, err)
}

func TestLedger_ZeroQuantityIsNoop(t *testing.T) {
	ledger := newLoadedLedger(t, stockRow("P1", "", "A", 3, 0, 0))

	allocation, unfulfilled := ledger.Consume("P1", "SO1", "A", decimal.Zero)
	assert.True(t, allocation.IsZero())
	assert.True(t, unfulfilled.IsZero())
	assert.True(t, ledger.Query("P1", "SO1", "A").OnHand.Equal(entities.Qty(3)))
}

func TestLedger_FractionalQuantitiesStayExact(t *testing.T) {
	ledger := newLoadedLedger(t, &entities.StockRow{
		Key:     entities.StockKey{Plant: "P1", Item: "A"},
		Buckets: entities.StockBuckets{OnHand: decimal.RequireFromString("0.3")},
	})

	for i := 0; i < 3; i++ {
		ledger.Consume("P1", "SO1", "A", decimal.RequireFromString("0.1"))
	}
	assert.True(t, ledger.Query("P1", "SO1", "A").OnHand.IsZero())
}

func TestLedger_PartitionAndAbsorb(t *testing.T) {
	ledger := newLoadedLedger(t,
		stockRow("P1", "", "A", 5, 0, 0),
		stockRow("P2", "", "A", 7, 0, 0),
	)

	p1 := ledger.Partition("P1")
	assert.Equal(t, 1, p1.Len())
	assert.False(t, p1.Has("P2", "SO1", "A"))

	p1.Consume("P1", "SO1", "A", entities.Qty(4))
	assert.True(t, ledger.Query("P1", "SO1", "A").OnHand.Equal(entities.Qty(5)), "partition works on a copy")

	ledger.Absorb(p1)
	assert.True(t, ledger.Query("P1", "SO1", "A").OnHand.Equal(entities.Qty(1)))
	assert.True(t, ledger.Query("P2", "SO1", "A").OnHand.Equal(entities.Qty(7)))
	assert.Equal(t, 2, ledger.Len())
}
