package logger

import (
	"testing"

	"github.com/deppfellow/brainlog/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoggerServiceWithoutLicenseIsDisabled(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()

	service := NewLoggerService(cfg)

	assert.Nil(t, service.GetApplication())
	assert.NotPanics(t, service.Shutdown)
}

func TestNilLoggerServiceIsSafe(t *testing.T) {
	var service *LoggerService

	assert.Nil(t, service.GetApplication())
	assert.NotPanics(t, service.Shutdown)
}

func TestNewLoggerWithServiceUsesConfiguredLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	log := NewLoggerWithService(cfg, nil)

	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestWithTraceContextWithoutTransaction(t *testing.T) {
	log := zerolog.Nop()

	assert.Equal(t, log, WithTraceContext(log, nil))
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	cases := map[zerolog.Level]tracelog.LogLevel{
		zerolog.TraceLevel: tracelog.LogLevelTrace,
		zerolog.DebugLevel: tracelog.LogLevelDebug,
		zerolog.InfoLevel:  tracelog.LogLevelInfo,
		zerolog.WarnLevel:  tracelog.LogLevelWarn,
		zerolog.ErrorLevel: tracelog.LogLevelError,
		zerolog.Disabled:   tracelog.LogLevelNone,
	}

	for level, want := range cases {
		assert.Equal(t, int(want), GetPgxTraceLogLevel(level), level.String())
	}
}
