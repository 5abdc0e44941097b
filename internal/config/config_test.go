package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
twitter:
  access_token: tok
notion:
  token: secret
  database_id: db123
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 100, cfg.Sync.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.ItemDelay)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5000, cfg.Webhook.Port)
	assert.Equal(t, 10, cfg.Webhook.RateLimitRequests)
	assert.True(t, cfg.Webhook.SignatureValidationEnabled())
	assert.Nil(t, cfg.Database)
	assert.NotContains(t, cfg.Sync.StateFile, "~")
}

func TestLoad_MissingRequiredNamesKey(t *testing.T) {
	_, err := Load(writeConfig(t, `
twitter:
  access_token: tok
notion:
  token: secret
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion.database_id")
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_NOTION_TOKEN", "from-env")

	cfg, err := Load(writeConfig(t, `
twitter:
  access_token: tok
notion:
  token: ${TEST_NOTION_TOKEN}
  database_id: db123
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Notion.Token)
}

func TestLoad_DisableSignatureValidation(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
webhook:
  validate_signature: false
`))
	require.NoError(t, err)
	assert.False(t, cfg.Webhook.SignatureValidationEnabled())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "db", SSLMode: "disable"}
	assert.Equal(t, "host=localhost port=5432 user=u password=p dbname=db sslmode=disable", d.DSN())
}
