package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vsinha/bomalloc/pkg/application/dto"
	"github.com/vsinha/bomalloc/pkg/application/services"
	"github.com/vsinha/bomalloc/pkg/application/services/orchestration"
	"github.com/vsinha/bomalloc/pkg/infrastructure/config"
	"github.com/vsinha/bomalloc/pkg/infrastructure/events"
	"github.com/vsinha/bomalloc/pkg/infrastructure/logging"
	"github.com/vsinha/bomalloc/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/bomalloc/pkg/interfaces/cli/output"
)

// Options holds the command line options shared by all commands
type Options struct {
	ConfigPath string
	Format     string
	Verbose    bool
	// Out receives the report; defaults to stdout
	Out io.Writer
	// Logger overrides the logger built from the config
	Logger *zap.Logger
}

// AllocateCommand runs the configured allocation phases end to end
type AllocateCommand struct {
	opts Options
}

// NewAllocateCommand creates a new allocate command with the given options
func NewAllocateCommand(opts Options) *AllocateCommand {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &AllocateCommand{opts: opts}
}

// Execute loads the configuration and inputs, runs the allocation and writes
// the result files and the report
func (c *AllocateCommand) Execute(ctx context.Context) (err error) {
	cfg, err := loadConfig(c.opts.ConfigPath)
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg, c.opts)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	run := logging.StartRun(logger, cfg.Client)
	defer func() { run.Finish(err) }()
	logger = run.Logger()

	inputs, err := loadInputs(cfg, logger)
	if err != nil {
		return err
	}

	journal := events.NewInMemoryEventStore(logger)
	if err := journal.Subscribe(events.AllEventTypes, events.NewLogHandler(logger)); err != nil {
		return fmt.Errorf("failed to subscribe journal logger: %w", err)
	}

	orchestrator := orchestration.NewAllocationOrchestrator(services.NewRegistry(), journal, logger)
	result, err := orchestrator.Run(ctx, settingsFor(cfg, run.ID), inputs)
	if err != nil {
		return fmt.Errorf("allocation failed: %w", err)
	}

	files, err := output.WriteFiles(cfg, result)
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	for _, file := range files {
		logger.Info("result file written", zap.String("path", file))
	}

	reportCfg := output.Config{
		Format:  c.opts.Format,
		Writer:  c.opts.Out,
		Verbose: c.opts.Verbose,
		Files:   files,
	}
	if c.opts.Format == output.FormatJSON {
		if reportCfg.Journal, err = journal.ReadAllEvents(0); err != nil {
			return fmt.Errorf("failed to read allocation journal: %w", err)
		}
	}
	if err := output.Generate(result, reportCfg); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	logSummary(logger, result)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config, opts Options) (*zap.Logger, error) {
	if opts.Logger != nil {
		return opts.Logger, nil
	}

	level := cfg.Logging.Level
	if opts.Verbose {
		level = "debug"
	}
	return logging.New(logging.Config{
		Environment: logging.Environment(cfg.Logging.Environment),
		Level:       level,
	})
}

// loadInputs reads the input tables. Orders and stock come from the first
// enabled phase; the BOM is only read for the component phase.
func loadInputs(cfg *config.Config, logger *zap.Logger) (orchestration.Inputs, error) {
	var inputs orchestration.Inputs
	loader := csv.NewLoader(logger)

	source := cfg.Phases.ComponentAllocation
	if cfg.Phases.OrderAllocation.Enabled {
		source = cfg.Phases.OrderAllocation
	}

	var err error
	if inputs.Orders, err = loader.LoadOrders(cfg.InputPath(source, config.InputSO), cfg.Schemas.SO); err != nil {
		return inputs, fmt.Errorf("error loading sales orders: %w", err)
	}
	if inputs.Stock, err = loader.LoadStock(cfg.InputPath(source, config.InputStock), cfg.Schemas.Stock); err != nil {
		return inputs, fmt.Errorf("error loading stock: %w", err)
	}

	if component := cfg.Phases.ComponentAllocation; component.Enabled {
		if inputs.BOM, err = loader.LoadBOM(cfg.InputPath(component, config.InputBOM), cfg.Schemas.BOM); err != nil {
			return inputs, fmt.Errorf("error loading BOM: %w", err)
		}
	}

	return inputs, nil
}

func settingsFor(cfg *config.Config, runID string) orchestration.Settings {
	return orchestration.Settings{
		Client: cfg.Client,
		RunID:  runID,
		OrderPhase: orchestration.PhaseSettings{
			Enabled:  cfg.Phases.OrderAllocation.Enabled,
			Strategy: cfg.Phases.OrderAllocation.Type,
		},
		ComponentPhase: orchestration.PhaseSettings{
			Enabled:  cfg.Phases.ComponentAllocation.Enabled,
			Strategy: cfg.Phases.ComponentAllocation.Type,
		},
		ParallelPlants: cfg.ParallelPlants,
	}
}

func logSummary(logger *zap.Logger, result *dto.AllocationResult) {
	fields := []zap.Field{
		zap.Int("orders", len(result.Orders)),
		zap.Int("orders_with_remarks", len(result.RemarkOrder)),
	}
	if result.OrderPhase != nil {
		open := 0
		for _, a := range result.OrderPhase.Orders {
			if a.RemainingQty.IsPositive() {
				open++
			}
		}
		fields = append(fields, zap.Int("orders_with_remaining_qty", open))
	}
	if result.ComponentPhase != nil {
		fields = append(fields,
			zap.Int("component_rows", len(result.ComponentPhase.Components)),
			zap.Int("skipped_orders", len(result.ComponentPhase.Skipped)),
			zap.Int("shortfall_rows", result.ComponentPhase.Shortfall()),
		)
	}
	logger.Info("allocation summary", fields...)
}
