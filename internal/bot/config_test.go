package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
telegram:
  token: "123:abc"
  admin_id: 42
  run_mode: longpoll

logging:
  level: info
  format: kv

database:
  host: localhost
  port: "5432"
  user: psychobot
  name: psychobot
  sslmode: disable

ai:
  api_key: "sk-test"
  model: gpt-4o
  temperature: 0.7
  timeout_seconds: 60
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Core.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Core.Telegram.AdminID)
	assert.Equal(t, "longpoll", cfg.Core.Telegram.RunMode)
	assert.Equal(t, "psychobot", cfg.Database.Name)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, 60, cfg.AI.TimeoutSeconds)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("AI_MODEL", "gpt-4o-mini")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, "secret", cfg.Database.Password)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "telegram:\n  run_mode: longpoll\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
