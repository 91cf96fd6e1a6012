package logging

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment controls the baseline logger profile.
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
)

// Config contains all logger initialization inputs.
type Config struct {
	Environment Environment
	Level       string
	// OutputPaths defaults to stderr
	OutputPaths []string
}

func (c Config) validate() error {
	switch c.Environment {
	case EnvironmentProduction, EnvironmentDevelopment, EnvironmentLocal:
		return nil
	default:
		return fmt.Errorf("invalid environment %q", c.Environment)
	}
}

// New builds a JSON zap logger for the given profile.
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	baseConfig := buildConfigByEnvironment(cfg.Environment)

	level, err := resolveLevel(cfg)
	if err != nil {
		return nil, err
	}

	baseConfig.Level = level
	baseConfig.DisableStacktrace = true
	if len(cfg.OutputPaths) > 0 {
		baseConfig.OutputPaths = cfg.OutputPaths
	}

	logger, err := baseConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

func resolveLevel(cfg Config) (zap.AtomicLevel, error) {
	if strings.TrimSpace(cfg.Level) != "" {
		var parsed zapcore.Level
		if err := parsed.Set(strings.ToLower(cfg.Level)); err != nil {
			return zap.AtomicLevel{}, fmt.Errorf("invalid level %q: %w", cfg.Level, err)
		}

		return zap.NewAtomicLevelAt(parsed), nil
	}

	if cfg.Environment == EnvironmentDevelopment || cfg.Environment == EnvironmentLocal {
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	}

	return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
}

func buildConfigByEnvironment(environment Environment) zap.Config {
	var cfg zap.Config
	if environment == EnvironmentDevelopment || environment == EnvironmentLocal {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg
}

// Run identifies one allocation run in the logs
type Run struct {
	ID      string
	Client  string
	Started time.Time

	logger *zap.Logger
}

// StartRun logs the run header and returns a logger carrying the run id
func StartRun(logger *zap.Logger, client string) *Run {
	run := &Run{
		ID:      uuid.NewString(),
		Client:  client,
		Started: time.Now(),
	}
	run.logger = logger.With(zap.String("run_id", run.ID))

	run.logger.Info("allocation run started",
		zap.String("client", client),
		zap.String("date", run.Started.Format("02-01-2006")),
		zap.String("started_at", run.Started.Format("15:04:05")),
	)
	return run
}

// Logger returns the run-scoped logger
func (r *Run) Logger() *zap.Logger {
	return r.logger
}

// Finish logs the run footer. A non-nil err marks the run as failed.
func (r *Run) Finish(err error) {
	fields := []zap.Field{
		zap.String("client", r.Client),
		zap.String("ended_at", time.Now().Format("15:04:05")),
		zap.Duration("duration", time.Since(r.Started)),
	}
	if err != nil {
		r.logger.Error("allocation run failed", append(fields, zap.Error(err))...)
		return
	}
	r.logger.Info("allocation run finished", fields...)
}
