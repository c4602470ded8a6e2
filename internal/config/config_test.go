package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.Equal(8080, cfg.Server.Port)
	assert.Equal("quizdeck.db", cfg.Database.Path)
	assert.False(cfg.Redis.Enabled)
}

func TestLoadYAML(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
database:
  path: /tmp/quiz.db
redis:
  enabled: true
  addr: redis:6379
  sessionTtl: 12h
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal(9000, cfg.Server.Port)
	assert.Equal("/tmp/quiz.db", cfg.Database.Path)
	assert.True(cfg.Redis.Enabled)
	assert.Equal(12*time.Hour, cfg.SessionTTLDuration())
}

func TestEnvOverrides(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("PORT", "7001")
	t.Setenv("DB_PATH", "/tmp/env.db")

	cfg, err := Load("")
	assert.NoError(err)
	assert.Equal(7001, cfg.Server.Port)
	assert.Equal("/tmp/env.db", cfg.Database.Path)
}

func TestSessionTTLDefaultsToZero(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.Equal(time.Duration(0), cfg.SessionTTLDuration())

	cfg.Redis.SessionTTL = "not-a-duration"
	assert.Equal(time.Duration(0), cfg.SessionTTLDuration())
}
