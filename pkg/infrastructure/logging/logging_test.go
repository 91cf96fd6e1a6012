package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{"production_default_info", Config{Environment: EnvironmentProduction}, zapcore.InfoLevel, false},
		{"development_default_debug", Config{Environment: EnvironmentDevelopment}, zapcore.DebugLevel, false},
		{"explicit_level_upper_case", Config{Environment: EnvironmentLocal, Level: "WARN"}, zapcore.WarnLevel, false},
		{"invalid_level", Config{Environment: EnvironmentProduction, Level: "loud"}, 0, true},
		{"invalid_environment", Config{Environment: "moon"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.OutputPaths = []string{"stdout"}
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestRunHeaderAndFooter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	run := StartRun(zap.New(core), "ACME")
	require.NotEmpty(t, run.ID)
	run.Logger().Info("work")
	run.Finish(nil)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "allocation run started", entries[0].Message)
	assert.Equal(t, "ACME", entries[0].ContextMap()["client"])
	assert.Equal(t, run.ID, entries[1].ContextMap()["run_id"])
	assert.Equal(t, "allocation run finished", entries[2].Message)

	run.Finish(errors.New("boom"))
	assert.Equal(t, 1, logs.FilterMessage("allocation run failed").Len())
}
