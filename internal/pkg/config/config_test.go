package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "preview:\n  workers: 2\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p := cfg.Preview
	if p.Workers != 2 {
		t.Errorf("Workers = %d, want 2", p.Workers)
	}
	if p.FetchTimeout != 5*time.Second || p.SecondaryTimeout != 6*time.Second || p.StatsTimeout != 10*time.Second {
		t.Errorf("timeouts = %v/%v/%v, want 5s/6s/10s", p.FetchTimeout, p.SecondaryTimeout, p.StatsTimeout)
	}
	if p.CacheTTL != 300*time.Second {
		t.Errorf("CacheTTL = %v, want 5m0s", p.CacheTTL)
	}
	if p.FetchMode != FetchModeHTTP || cfg.Cache.Backend != CacheBackendMemory {
		t.Errorf("FetchMode = %q, Backend = %q", p.FetchMode, cfg.Cache.Backend)
	}
}

func TestLoadOverrides(t *testing.T) {
	body := `
preview:
  fetch_mode: browser
  fetch_timeout: 3s
  cache_ttl: 1m
  proxy_list: ["http://p1:8080"]
cache:
  backend: redis
  redis_addr: localhost:6379
telegram:
  chat_id: -100123
postgres:
  retention: 72h
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Preview.FetchMode != FetchModeBrowser || cfg.Preview.FetchTimeout != 3*time.Second || cfg.Preview.CacheTTL != time.Minute {
		t.Errorf("Preview = %+v", cfg.Preview)
	}
	if len(cfg.Preview.ProxyList) != 1 || cfg.Cache.RedisAddr != "localhost:6379" || cfg.Telegram.ChatID != -100123 {
		t.Errorf("Config = %+v", cfg)
	}
	if cfg.Postgres.Retention != 72*time.Hour {
		t.Errorf("Postgres.Retention = %v, want 72h0m0s", cfg.Postgres.Retention)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []string{
		"preview:\n  fetch_mode: carrier-pigeon\n",
		"cache:\n  backend: redis\n",
		"cache:\n  backend: memcached\n",
		"preview: [",
	}
	for _, body := range tests {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("Load(%q) succeeded, want error", body)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) succeeded, want error")
	}
}
