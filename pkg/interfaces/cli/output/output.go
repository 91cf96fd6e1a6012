package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vsinha/bomalloc/pkg/application/dto"
	"github.com/vsinha/bomalloc/pkg/application/services/shared"
	"github.com/vsinha/bomalloc/pkg/infrastructure/config"
	"github.com/vsinha/bomalloc/pkg/infrastructure/events"
	"github.com/vsinha/bomalloc/pkg/infrastructure/repositories/csv"
)

// Supported report formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Config holds configuration for report generation
type Config struct {
	Format  string
	Writer  io.Writer
	Verbose bool
	// Journal is included in JSON reports when set
	Journal []events.Event
	// Files lists the result files written for this run
	Files []string
}

// Generate writes a report of result in the configured format
func Generate(result *dto.AllocationResult, cfg Config) error {
	switch cfg.Format {
	case FormatText, "":
		return generateTextOutput(result, cfg)
	case FormatJSON:
		return generateJSONOutput(result, cfg)
	case FormatCSV:
		return generateCSVOutput(result, cfg)
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
}

func generateTextOutput(result *dto.AllocationResult, cfg Config) error {
	w := cfg.Writer

	fmt.Fprintf(w, "📊 Allocation Results (%s)\n", result.Client)
	fmt.Fprintf(w, "===========================\n\n")
	fmt.Fprintf(w, "Run ID: %s\n", result.RunID)
	fmt.Fprintf(w, "Orders: %d\n", len(result.Orders))
	fmt.Fprintf(w, "Duration: %v\n\n", result.Duration)

	if phase := result.OrderPhase; phase != nil {
		full := 0
		for _, a := range phase.Orders {
			if a.FullyAllocated() {
				full++
			}
		}
		fmt.Fprintf(w, "📦 Order Allocation (%s): %d of %d orders fully allocated\n",
			phase.Strategy, full, len(phase.Orders))
		fmt.Fprintf(w, "%-15s %-15s %-8s %-10s %-10s %-10s\n",
			"Order", "FG", "Plant", "Ordered", "Allocated", "Remaining")
		fmt.Fprintf(w, "%-15s %-15s %-8s %-10s %-10s %-10s\n",
			"---------------", "---------------", "--------", "----------", "----------", "----------")
		for _, a := range phase.Orders {
			fmt.Fprintf(w, "%-15s %-15s %-8s %-10s %-10s %-10s\n",
				a.Order.OrderID,
				a.Order.Item,
				a.Order.Plant,
				a.Order.Quantity.String(),
				a.AllocatedQty.String(),
				a.RemainingQty.String())
		}
		fmt.Fprintln(w)
	}

	if phase := result.ComponentPhase; phase != nil {
		fmt.Fprintf(w, "🔄 Component Allocation (%s): %d orders exploded, %d skipped\n",
			phase.Strategy, len(phase.Processed), len(phase.Skipped))
		fmt.Fprintf(w, "Component rows: %d\n", len(phase.Components))
		fmt.Fprintf(w, "Rows with leftover demand: %d\n", phase.Shortfall())

		if cfg.Verbose {
			fmt.Fprintf(w, "%-15s %-8s %-15s %-6s %-10s %-10s %-10s\n",
				"Order", "Plant", "Item", "Level", "Requested", "Allocated", "Leftover")
			for _, row := range phase.Components {
				fmt.Fprintf(w, "%-15s %-8s %-15s %-6d %-10s %-10s %-10s\n",
					row.OrderID,
					row.Plant,
					row.Item,
					row.Level,
					row.RequestedQty.String(),
					row.AllocatedQty.String(),
					row.LeftoverQty.String())
			}
		}
		fmt.Fprintln(w)
	}

	if len(result.RemarkOrder) > 0 {
		fmt.Fprintf(w, "📝 Remarks:\n")
		for _, id := range result.RemarkOrder {
			remark := result.Get(id)
			// short reports keep the first message only
			if !cfg.Verbose {
				remark = strings.SplitN(remark, shared.RemarkSeparator, 2)[0]
			}
			fmt.Fprintf(w, "  %s: %s\n", id, remark)
		}
		fmt.Fprintln(w)
	}

	if len(cfg.Files) > 0 {
		fmt.Fprintf(w, "💾 Results saved to:\n")
		for _, file := range cfg.Files {
			fmt.Fprintf(w, "  %s\n", file)
		}
	}

	return nil
}

type jsonReport struct {
	*dto.AllocationResult
	Journal []events.Event `json:"journal,omitempty"`
	Files   []string       `json:"files,omitempty"`
}

func generateJSONOutput(result *dto.AllocationResult, cfg Config) error {
	encoder := json.NewEncoder(cfg.Writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(jsonReport{AllocationResult: result, Journal: cfg.Journal, Files: cfg.Files}); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

// generateCSVOutput prints the table of the last phase that ran
func generateCSVOutput(result *dto.AllocationResult, cfg Config) error {
	if result.ComponentPhase != nil {
		return csv.WriteComponents(cfg.Writer, result.ComponentPhase.Components)
	}
	if result.OrderPhase != nil {
		return csv.WriteOrders(cfg.Writer, result.OrderPhase.Orders, result)
	}
	return nil
}

// WriteFiles writes the result tables to the output paths of cfg and returns
// the files written. The order phase writes its tables under the file names of
// its SO and stock inputs; the component phase writes the explosion table and
// the per-order remarks.
func WriteFiles(cfg *config.Config, result *dto.AllocationResult) ([]string, error) {
	var files []string
	write := func(path string, fn func(io.Writer) error) error {
		if err := csv.WriteFile(path, fn); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	}

	if phase := result.OrderPhase; phase != nil {
		pc := cfg.Phases.OrderAllocation
		ordersPath := cfg.OutputPath(pc, filepath.Base(pc.CSVInputs[config.InputSO]))
		if err := write(ordersPath, func(w io.Writer) error {
			return csv.WriteOrders(w, phase.Orders, result)
		}); err != nil {
			return files, err
		}

		stockPath := cfg.OutputPath(pc, filepath.Base(pc.CSVInputs[config.InputStock]))
		if err := write(stockPath, func(w io.Writer) error {
			return csv.WriteStock(w, phase.RemainingStock)
		}); err != nil {
			return files, err
		}
	}

	if phase := result.ComponentPhase; phase != nil {
		pc := cfg.Phases.ComponentAllocation
		if err := write(cfg.OutputPath(pc, config.ComponentOutputFile), func(w io.Writer) error {
			return csv.WriteComponents(w, phase.Components)
		}); err != nil {
			return files, err
		}

		if err := write(cfg.OutputPath(pc, config.RemarksOutputFile), func(w io.Writer) error {
			return csv.WriteRemarks(w, result.RemarkOrder, result)
		}); err != nil {
			return files, err
		}
	}

	return files, nil
}
