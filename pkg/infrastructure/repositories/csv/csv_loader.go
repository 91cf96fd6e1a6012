package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
)

// Table names used in schema errors and logs
const (
	TableBOM   = "BOM"
	TableSO    = "SO"
	TableStock = "Stock"
)

// Canonical column keys. A Schema maps each key to the header used by the input file.
const (
	ColRootParent = "root_parent"
	ColPlant      = "plant"
	ColParent     = "parent"
	ColChild      = "child"
	ColCompQty    = "comp_qty"

	ColOrderID  = "order_id"
	ColFGID     = "fg_id"
	ColOrderQty = "order_qty"

	ColItemID    = "item_id"
	ColStock     = "stock"
	ColOnHand    = "on_hand"
	ColQC        = "qc"
	ColInTransit = "in_transit"
)

// RequiredColumns lists the schema keys each table must map
var RequiredColumns = map[string][]string{
	TableBOM:   {ColRootParent, ColPlant, ColParent, ColChild, ColCompQty},
	TableSO:    {ColOrderID, ColFGID, ColPlant, ColOrderQty},
	TableStock: {ColOrderID, ColItemID, ColPlant},
}

// StockQuantityColumns are the schema keys that can carry stock quantities.
// A stock schema needs at least one of them.
var StockQuantityColumns = []string{ColStock, ColOnHand, ColQC, ColInTransit}

// Schema maps canonical column keys to actual CSV header names
type Schema map[string]string

// Missing returns the required keys the schema does not map
func (s Schema) Missing(required []string) []string {
	var missing []string
	for _, key := range required {
		if strings.TrimSpace(s[key]) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Loader handles loading allocation inputs from CSV files
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new CSV loader
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadBOM loads BOM edges from a CSV file
func (l *Loader) LoadBOM(filename string, schema Schema) ([]*entities.BOMEdge, error) {
	t, err := l.readFile(filename, TableBOM, schema, RequiredColumns[TableBOM], nil)
	if err != nil {
		return nil, err
	}

	edges := make([]*entities.BOMEdge, 0, len(t.rows))
	for i := range t.rows {
		ratio, err := t.quantity(i, ColCompQty)
		if err != nil {
			return nil, err
		}

		edge, err := entities.NewBOMEdge(
			entities.ItemID(t.value(i, ColRootParent)),
			t.value(i, ColPlant),
			entities.ItemID(t.value(i, ColParent)),
			entities.ItemID(t.value(i, ColChild)),
			ratio,
		)
		if err != nil {
			return nil, t.rowError(i, "", err)
		}
		edges = append(edges, edge)
	}

	l.logger.Info("BOM loaded", zap.String("file", filename), zap.Int("edges", len(edges)))
	return edges, nil
}

// LoadOrders loads sales orders from a CSV file
func (l *Loader) LoadOrders(filename string, schema Schema) ([]*entities.SalesOrder, error) {
	t, err := l.readFile(filename, TableSO, schema, RequiredColumns[TableSO], nil)
	if err != nil {
		return nil, err
	}

	orders := make([]*entities.SalesOrder, 0, len(t.rows))
	for i := range t.rows {
		qty, err := t.quantity(i, ColOrderQty)
		if err != nil {
			return nil, err
		}

		order, err := entities.NewSalesOrder(
			entities.OrderID(t.value(i, ColOrderID)),
			entities.ItemID(t.value(i, ColFGID)),
			t.value(i, ColPlant),
			qty,
		)
		if err != nil {
			return nil, t.rowError(i, "", err)
		}
		orders = append(orders, order)
	}

	l.logger.Info("sales orders loaded", zap.String("file", filename), zap.Int("orders", len(orders)))
	return orders, nil
}

// LoadStock loads stock rows from a CSV file. A `stock` column is treated as
// on-hand quantity; bucket columns add to their own bucket. An empty order id
// marks item-level stock.
func (l *Loader) LoadStock(filename string, schema Schema) ([]*entities.StockRow, error) {
	t, err := l.readFile(filename, TableStock, schema, RequiredColumns[TableStock], StockQuantityColumns)
	if err != nil {
		return nil, err
	}
	if !t.hasAny(StockQuantityColumns) {
		return nil, &entities.SchemaMismatchError{
			Table:  TableStock,
			Column: ColStock,
			Reason: "no stock quantity column mapped (stock, on_hand, qc or in_transit)",
		}
	}

	rows := make([]*entities.StockRow, 0, len(t.rows))
	for i := range t.rows {
		var buckets entities.StockBuckets
		for _, col := range []struct {
			key    string
			bucket entities.Bucket
		}{
			{ColStock, entities.OnHand},
			{ColOnHand, entities.OnHand},
			{ColQC, entities.QualityControl},
			{ColInTransit, entities.InTransit},
		} {
			if !t.has(col.key) {
				continue
			}
			qty, err := t.quantity(i, col.key)
			if err != nil {
				return nil, err
			}
			buckets = buckets.With(col.bucket, buckets.Get(col.bucket).Add(qty))
		}

		row, err := entities.NewStockRow(
			t.value(i, ColPlant),
			entities.OrderID(t.value(i, ColOrderID)),
			entities.ItemID(t.value(i, ColItemID)),
			buckets,
		)
		if err != nil {
			return nil, t.rowError(i, "", err)
		}
		rows = append(rows, row)
	}

	l.logger.Info("stock loaded", zap.String("file", filename), zap.Int("rows", len(rows)))
	return rows, nil
}

func (l *Loader) readFile(filename, tableName string, schema Schema, required, optional []string) (*table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", tableName, filename, err)
	}
	defer file.Close()

	t, err := l.read(file, tableName, schema, required, optional)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return t, nil
}

// read resolves the schema against the header and returns the data rows.
// Unmapped columns are dropped.
func (l *Loader) read(r io.Reader, tableName string, schema Schema, required, optional []string) (*table, error) {
	if missing := schema.Missing(required); len(missing) > 0 {
		return nil, &entities.ConfigurationError{
			Field: "schemas." + strings.ToLower(tableName),
			Err:   fmt.Errorf("missing keys %v", missing),
		}
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", tableName, err)
	}
	if len(records) == 0 {
		return nil, &entities.SchemaMismatchError{Table: tableName, Reason: "file has no header row"}
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[normalizeHeader(name)] = i
	}

	t := &table{name: tableName, columns: make(map[string]int), rows: records[1:]}
	resolve := func(key string, mandatory bool) error {
		actual := schema[key]
		if actual == "" {
			return nil
		}
		idx, ok := header[normalizeHeader(actual)]
		if !ok {
			reason := "mapped column not found in header"
			if mandatory {
				reason = "required column not found in header"
			}
			return &entities.SchemaMismatchError{Table: tableName, Column: actual, Reason: reason}
		}
		t.columns[key] = idx
		return nil
	}
	for _, key := range required {
		if err := resolve(key, true); err != nil {
			return nil, err
		}
	}
	for _, key := range optional {
		if err := resolve(key, false); err != nil {
			return nil, err
		}
	}

	for _, key := range append(append([]string{}, required...), optional...) {
		if t.has(key) && len(t.rows) > 0 && t.emptyColumn(key) {
			l.logger.Warn("input column is completely empty",
				zap.String("table", tableName),
				zap.String("column", schema[key]),
			)
		}
	}

	l.logger.Debug("schema resolved",
		zap.String("table", tableName),
		zap.Int("columns", len(t.columns)),
		zap.Int("rows", len(t.rows)),
	)
	return t, nil
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

// table is a schema-resolved CSV body
type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func (t *table) has(key string) bool {
	_, ok := t.columns[key]
	return ok
}

func (t *table) hasAny(keys []string) bool {
	for _, key := range keys {
		if t.has(key) {
			return true
		}
	}
	return false
}

// value returns the trimmed cell for key, or "" when the column is unmapped
func (t *table) value(row int, key string) string {
	idx, ok := t.columns[key]
	if !ok || idx >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][idx])
}

func (t *table) quantity(row int, key string) (entities.Quantity, error) {
	raw := t.value(row, key)
	qty, err := entities.ParseQuantity(raw)
	if err != nil {
		return qty, &entities.SchemaMismatchError{
			Table:  t.name,
			Column: key,
			Row:    row + 2,
			Reason: fmt.Sprintf("invalid number %q", raw),
		}
	}
	return qty, nil
}

func (t *table) emptyColumn(key string) bool {
	for i := range t.rows {
		if t.value(i, key) != "" {
			return false
		}
	}
	return true
}

// rowError reports a data row by its 1-based file line, header included
func (t *table) rowError(row int, column string, err error) error {
	return &entities.SchemaMismatchError{Table: t.name, Column: column, Row: row + 2, Reason: err.Error()}
}
