package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

// Output table headers
var (
	OrderHeader = []string{
		ColOrderID, ColFGID, ColPlant, ColOrderQty,
		"allocated_qty", "remaining_qty", "remark",
	}
	StockHeader = []string{
		ColPlant, ColOrderID, ColItemID, ColOnHand, ColQC, ColInTransit,
	}
	ComponentHeader = []string{
		ColOrderID, ColPlant, ColParent, "level", "item",
		"requested_qty", "allocated_qty", "alloc_on_hand", "alloc_qc", "alloc_in_transit", "leftover_qty",
	}
	RemarkHeader = []string{ColOrderID, "remark"}
)

// Remarks looks up the accumulated remark of an order
type Remarks interface {
	Get(orderID entities.OrderID) string
}

// WriteOrders writes allocated order rows with their remarks
func WriteOrders(w io.Writer, allocations []entities.OrderAllocation, remarks Remarks) error {
	records := make([][]string, 0, len(allocations))
	for _, a := range allocations {
		records = append(records, []string{
			string(a.Order.OrderID),
			string(a.Order.Item),
			a.Order.Plant,
			a.Order.Quantity.String(),
			a.AllocatedQty.String(),
			a.RemainingQty.String(),
			remarks.Get(a.Order.OrderID),
		})
	}
	return writeTable(w, OrderHeader, records)
}

// WriteStock writes remaining stock rows. Item-level rows get an empty order id
// so the table can be read back as stock input.
func WriteStock(w io.Writer, rows []entities.StockRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Key.Plant,
			string(row.Key.OrderID),
			string(row.Key.Item),
			row.Buckets.OnHand.String(),
			row.Buckets.QC.String(),
			row.Buckets.InTransit.String(),
		})
	}
	return writeTable(w, StockHeader, records)
}

// WriteComponents writes exploded component allocation rows
func WriteComponents(w io.Writer, rows []entities.ComponentAllocation) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			string(row.OrderID),
			row.Plant,
			string(row.Parent),
			strconv.Itoa(row.Level),
			string(row.Item),
			row.RequestedQty.String(),
			row.AllocatedQty.String(),
			row.Allocation.OnHand.String(),
			row.Allocation.QC.String(),
			row.Allocation.InTransit.String(),
			row.LeftoverQty.String(),
		})
	}
	return writeTable(w, ComponentHeader, records)
}

// WriteRemarks writes one row per order that has a remark, in the given order
func WriteRemarks(w io.Writer, orderIDs []entities.OrderID, remarks Remarks) error {
	var records [][]string
	for _, id := range orderIDs {
		if remark := remarks.Get(id); remark != "" {
			records = append(records, []string{string(id), remark})
		}
	}
	return writeTable(w, RemarkHeader, records)
}

// WriteFile creates path, including missing directories, and fills it with write
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

func writeTable(w io.Writer, header []string, records [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return writer.Error()
}
