package commands

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/application/services"
	"github.com/vsinha/bomalloc/pkg/domain/entities"
	domainservices "github.com/vsinha/bomalloc/pkg/domain/services"
)

// ValidateCommand checks the configuration, the input schemas and the BOM
// without allocating anything
type ValidateCommand struct {
	opts Options
}

// NewValidateCommand creates a new validate command with the given options
func NewValidateCommand(opts Options) *ValidateCommand {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &ValidateCommand{opts: opts}
}

// Execute returns the first configuration, schema or BOM error found
func (c *ValidateCommand) Execute(ctx context.Context) error {
	cfg, err := loadConfig(c.opts.ConfigPath)
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg, c.opts)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	registry := services.NewRegistry()
	if phase := cfg.Phases.OrderAllocation; phase.Enabled {
		if _, err := registry.OrderStrategy(phase.Type, logger); err != nil {
			return err
		}
	}
	if phase := cfg.Phases.ComponentAllocation; phase.Enabled {
		if _, err := registry.ComponentStrategy(phase.Type, logger); err != nil {
			return err
		}
	}

	inputs, err := loadInputs(cfg, logger)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w := c.opts.Out
	fmt.Fprintf(w, "✅ Configuration valid for client %s\n", cfg.Client)
	fmt.Fprintf(w, "  Sales orders: %d\n", len(inputs.Orders))
	fmt.Fprintf(w, "  Stock rows: %d\n", len(inputs.Stock))

	if cfg.Phases.ComponentAllocation.Enabled {
		edges := make([]entities.BOMEdge, 0, len(inputs.BOM))
		for _, edge := range inputs.BOM {
			edges = append(edges, *edge)
		}

		validation := domainservices.NewBOMValidator().ValidateBOM(edges)
		for _, warning := range validation.Warnings {
			logger.Warn("BOM validation warning", zap.String("detail", warning))
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		if err := validation.Err(); err != nil {
			return err
		}
		fmt.Fprintf(w, "  BOM edges: %d\n", len(inputs.BOM))
	}

	return nil
}
