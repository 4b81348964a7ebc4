package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qc-tracking-backend/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 8080\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StoreFile, cfg.Store.Driver)
	assert.Equal(t, "data.json", cfg.Store.FilePath)
	assert.Equal(t, model.DefaultStandards(), cfg.Standards)
	assert.Equal(t, model.DefaultMasterData(), cfg.Master)
	assert.Equal(t, 3*time.Second, cfg.Client.PollInterval)
	assert.Equal(t, "http://localhost:8080/api", cfg.Client.BaseURL)
	assert.Equal(t, 5, cfg.Client.PageSize)
	assert.Equal(t, 10, cfg.Client.ChartWindow)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
store:
  driver: redis
standards:
  min_suhu: 10
  max_suhu: 25
  min_berat: 1
  max_berat: 2.5
master:
  lines: [X, Y]
client:
  poll_interval_seconds: 7
`))
	require.NoError(t, err)

	assert.Equal(t, StoreRedis, cfg.Store.Driver)
	assert.Equal(t, model.Standards{MinSuhu: 10, MaxSuhu: 25, MinBerat: 1, MaxBerat: 2.5}, cfg.Standards)
	assert.Equal(t, []string{"X", "Y"}, cfg.Master.Lines)
	assert.Equal(t, []int{1, 2, 3}, cfg.Master.Shifts)
	assert.Equal(t, 7*time.Second, cfg.Client.PollInterval)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "unknown driver", body: "store:\n  driver: mongo\n"},
		{name: "inverted standards", body: "standards:\n  min_suhu: 30\n  max_suhu: 20\n  min_berat: 1\n  max_berat: 2\n"},
		{name: "push without keys", body: "push:\n  enabled: true\n"},
		{name: "not yaml", body: "server: [\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ExampleMatchesDefaults(t *testing.T) {
	cfg, err := Load("config.example.yaml")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Store, cfg.Store)
	assert.Equal(t, def.Standards, cfg.Standards)
	assert.Equal(t, def.Master, cfg.Master)
	assert.Equal(t, def.Client, cfg.Client)
	assert.Equal(t, def.OCR, cfg.OCR)
	assert.False(t, cfg.Push.Enabled)
}
