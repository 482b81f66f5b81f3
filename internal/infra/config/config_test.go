package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, 0.38, cfg.FAQ.Threshold)
	require.Equal(t, 3, cfg.FAQ.TopK)
	require.Equal(t, SourceFile, cfg.FAQ.Source.Kind)
	require.Equal(t, 6, cfg.Chat.HistoryLimit)
	require.Equal(t, 12.0, cfg.Plan.MinCredits)
	require.Contains(t, cfg.HTTP.Retry.Exclude, "/api/v1/faq/import")
}

func TestLoadFromFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlBody := `
http:
  address: ":9090"
faq:
  threshold: 0.5
  source:
    kind: file
    path: /srv/faq.xlsx
  watch: true
  debounce: 1s
chat:
  historyLimit: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("FAQ_THRESHOLD", "0.42")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CHAT_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 0.42, cfg.FAQ.Threshold)
	require.Equal(t, "/srv/faq.xlsx", cfg.FAQ.Source.Path)
	require.True(t, cfg.FAQ.Watch)
	require.Equal(t, time.Second, cfg.FAQ.Debounce)
	require.Equal(t, 10, cfg.Chat.HistoryLimit)
	require.Equal(t, 30*time.Minute, cfg.Chat.TTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "threshold above one",
			mutate:  func(c *Config) { c.FAQ.Threshold = 1.5 },
			wantErr: "faq.threshold",
		},
		{
			name:    "unknown source kind",
			mutate:  func(c *Config) { c.FAQ.Source.Kind = "ftp" },
			wantErr: "faq.source.kind",
		},
		{
			name:    "postgres source needs dsn",
			mutate:  func(c *Config) { c.FAQ.Source.Kind = SourcePostgres },
			wantErr: "postgres.dsn",
		},
		{
			name: "object source needs bucket and key",
			mutate: func(c *Config) {
				c.FAQ.Source.Kind = SourceObject
				c.ObjectStorage.Bucket = "faq"
			},
			wantErr: "objectKey",
		},
		{
			name: "watch needs file source",
			mutate: func(c *Config) {
				c.FAQ.Source.Kind = SourcePostgres
				c.Postgres.DSN = "postgres://localhost/faq"
				c.FAQ.Watch = true
			},
			wantErr: "faq.watch",
		},
		{
			name: "valkey needs addr",
			mutate: func(c *Config) {
				c.Valkey.Enabled = true
			},
			wantErr: "valkey.addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
