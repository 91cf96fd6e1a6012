package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/bomalloc/pkg/domain/entities"
	"github.com/vsinha/bomalloc/pkg/infrastructure/repositories/csv"
)

// Phase names as they appear under `phases`
const (
	PhaseOrderAllocation     = "order_allocation"
	PhaseComponentAllocation = "component_allocation"
)

// Input keys under `csv_inputs`
const (
	InputBOM   = "bom"
	InputSO    = "so"
	InputStock = "stock"
)

// Environment overrides, applied after the YAML file
const (
	EnvBasePath = "BOMALLOC_BASE_PATH"
	EnvLogLevel = "BOMALLOC_LOG_LEVEL"
	EnvClient   = "BOMALLOC_CLIENT"
)

const (
	DefaultClient   = "UNKNOWN"
	DefaultStrategy = "partial"

	// ComponentOutputFile is the component explosion table inside the component output path
	ComponentOutputFile = "component_allocation_output.csv"
	// RemarksOutputFile holds per-order remarks inside the component output path
	RemarksOutputFile = "order_remarks.csv"
)

type Config struct {
	BasePath       string        `yaml:"base_path"`
	Client         string        `yaml:"client"`
	ParallelPlants bool          `yaml:"parallel_plants"`
	Logging        LoggingConfig `yaml:"logging"`
	Phases         PhasesConfig  `yaml:"phases"`
	Schemas        SchemasConfig `yaml:"schemas"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
}

type PhasesConfig struct {
	OrderAllocation     PhaseConfig `yaml:"order_allocation"`
	ComponentAllocation PhaseConfig `yaml:"component_allocation"`
}

type PhaseConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Type        string            `yaml:"type"`
	InputSource string            `yaml:"input_source"`
	CSVInputs   map[string]string `yaml:"csv_inputs"`
	OutputPath  string            `yaml:"output_path"`
}

type SchemasConfig struct {
	BOM   csv.Schema `yaml:"bom"`
	SO    csv.Schema `yaml:"so"`
	Stock csv.Schema `yaml:"stock"`
}

// Load reads the YAML file at path, then applies .env and environment overrides.
// The returned config is not validated.
func Load(path string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// Parse decodes a YAML payload and fills defaults
func Parse(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &entities.ConfigurationError{Err: fmt.Errorf("config payload is empty")}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Client) == "" {
		c.Client = DefaultClient
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Environment == "" {
		c.Logging.Environment = "production"
	}
	for _, phase := range []*PhaseConfig{&c.Phases.OrderAllocation, &c.Phases.ComponentAllocation} {
		if phase.Type == "" {
			phase.Type = DefaultStrategy
		}
	}
}

// ApplyEnv overrides file values with environment variables found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBasePath); ok && v != "" {
		c.BasePath = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvClient); ok && v != "" {
		c.Client = v
	}
}

// BothPhases reports whether the component phase chains on the order phase
func (c *Config) BothPhases() bool {
	return c.Phases.OrderAllocation.Enabled && c.Phases.ComponentAllocation.Enabled
}

// Validate checks everything that can be checked before any input is read.
// Strategy names are checked by the strategy registry.
func (c *Config) Validate() error {
	order := c.Phases.OrderAllocation
	component := c.Phases.ComponentAllocation

	if !order.Enabled && !component.Enabled {
		return &entities.ConfigurationError{Field: "phases", Err: entities.ErrNoPhaseEnabled}
	}

	if order.Enabled {
		if err := order.validate(PhaseOrderAllocation, InputSO, InputStock); err != nil {
			return err
		}
	}

	if component.Enabled {
		inputs := []string{InputBOM}
		if !order.Enabled {
			inputs = append(inputs, InputSO, InputStock)
		}
		if err := component.validate(PhaseComponentAllocation, inputs...); err != nil {
			return err
		}
	}

	schemas := []struct {
		name   string
		schema csv.Schema
		needed bool
	}{
		{InputBOM, c.Schemas.BOM, component.Enabled},
		{InputSO, c.Schemas.SO, true},
		{InputStock, c.Schemas.Stock, true},
	}
	for _, s := range schemas {
		if !s.needed {
			continue
		}
		if err := validateSchema(s.name, s.schema); err != nil {
			return err
		}
	}

	return nil
}

func (p PhaseConfig) validate(name string, inputs ...string) error {
	if strings.TrimSpace(p.OutputPath) == "" {
		return &entities.ConfigurationError{
			Field: fmt.Sprintf("phases.%s.output_path", name),
			Err:   fmt.Errorf("output path is required"),
		}
	}
	for _, key := range inputs {
		if strings.TrimSpace(p.CSVInputs[key]) == "" {
			return &entities.ConfigurationError{
				Field: fmt.Sprintf("phases.%s.csv_inputs.%s", name, key),
				Err:   fmt.Errorf("input file is required"),
			}
		}
	}
	return nil
}

func validateSchema(name string, schema csv.Schema) error {
	table := map[string]string{InputBOM: csv.TableBOM, InputSO: csv.TableSO, InputStock: csv.TableStock}[name]

	if missing := schema.Missing(csv.RequiredColumns[table]); len(missing) > 0 {
		return &entities.ConfigurationError{
			Field: "schemas." + name,
			Err:   fmt.Errorf("missing keys %v", missing),
		}
	}
	if name == InputStock && len(schema.Missing(csv.StockQuantityColumns)) == len(csv.StockQuantityColumns) {
		return &entities.ConfigurationError{
			Field: "schemas.stock",
			Err:   fmt.Errorf("one of %v is required", csv.StockQuantityColumns),
		}
	}
	return nil
}

// InputPath returns the file path of a phase input
func (c *Config) InputPath(phase PhaseConfig, key string) string {
	return filepath.Join(c.BasePath, phase.InputSource, phase.CSVInputs[key])
}

// OutputPath returns the path of a file inside a phase output directory
func (c *Config) OutputPath(phase PhaseConfig, file string) string {
	return filepath.Join(c.BasePath, phase.OutputPath, file)
}
