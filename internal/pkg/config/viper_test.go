package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  server:
    cors: "http://a.test, ,http://b.test"
instrument:
  enabled: true
  trace_sample_ratio: 0.25
  metric_interval_seconds: 15
  log_mask_fields: [password, " tax_id "]
validator:
  groups: [registration, business]
flash:
  driver: redis
`

func TestNewViperFromBytes(t *testing.T) {
	// Arrange & Act
	cfg, err := NewViperFromBytes("yaml", []byte(sample))

	// Assert
	require.NoError(t, err)
	assert.True(t, cfg.GetBool("instrument.enabled"))
	assert.InDelta(t, 0.25, cfg.GetFloat64("instrument.trace_sample_ratio"), 1e-9)
	assert.Equal(t, 15*time.Second, cfg.GetSecond("instrument.metric_interval_seconds"))
	assert.Equal(t, "redis", cfg.GetString("flash.driver"))
	assert.NoError(t, cfg.Close())
}

func TestViper_GetArray(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sample))
	require.NoError(t, err)

	tests := []struct {
		name string
		key  string
		want []string
	}{
		{name: "comma separated string", key: "app.server.cors", want: []string{"http://a.test", "http://b.test"}},
		{name: "sequence trimmed", key: "instrument.log_mask_fields", want: []string{"password", "tax_id"}},
		{name: "sequence", key: "validator.groups", want: []string{"registration", "business"}},
		{name: "missing", key: "app.maintenance.paths", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.GetArray(tt.key))
		})
	}
}

func TestViper_Defaults(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GetString("app.server.http.address"))
	assert.Equal(t, "validate", cfg.GetString("validator.tag_prefix"))
	assert.Equal(t, "render", cfg.GetString("action.source_page.mode"))
	assert.Equal(t, "memory", cfg.GetString("flash.driver"))
	assert.Equal(t, 5*time.Minute, cfg.GetSecond("flash.ttl_seconds"))
	assert.True(t, cfg.GetBool("modules.account.enabled"))
	assert.Zero(t, cfg.GetInt("app.server.max_goroutine"))
}

func TestViper_EnvOverride(t *testing.T) {
	t.Setenv("FORMGATE_FLASH_DRIVER", "redis")

	cfg, err := NewViperFromBytes("yaml", []byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.GetString("flash.driver"))
}

func TestNewViperFromBytes_Errors(t *testing.T) {
	_, err := NewViperFromBytes(" ", []byte(sample))
	require.Error(t, err)

	_, err = NewViperFromBytes("yaml", []byte("app: [unclosed"))
	require.Error(t, err)
}

func TestNewViper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := NewViper(path)

	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.GetString("flash.driver"))

	_, err = NewViper(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
