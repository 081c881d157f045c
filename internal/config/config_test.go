package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Proxy.APIKey != "${EFSP_API_KEY}" {
		t.Error("expected API key placeholder")
	}
	if cfg.Search.WindowSize != 8 {
		t.Errorf("expected window size 8, got %d", cfg.Search.WindowSize)
	}
	if cfg.Cache.RedisURL != "" {
		t.Error("expected caching disabled by default")
	}
	if cfg.Cache.TTL() != 10*time.Minute {
		t.Errorf("expected 10m TTL, got %v", cfg.Cache.TTL())
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_ResolveAPIKey(t *testing.T) {
	os.Setenv("TEST_EFSP_KEY", "efsp-key-123")
	defer os.Unsetenv("TEST_EFSP_KEY")

	cfg := &Config{Proxy: ProxyCfg{APIKey: "${TEST_EFSP_KEY}"}}
	if result := cfg.ResolveAPIKey(); result != "efsp-key-123" {
		t.Errorf("expected efsp-key-123, got %s", result)
	}

	cfg = &Config{Proxy: ProxyCfg{APIKey: "direct-key"}}
	if result := cfg.ResolveAPIKey(); result != "direct-key" {
		t.Errorf("expected direct-key, got %s", result)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestNewManager(t *testing.T) {
	configFile := writeConfigFile(t, `
proxy:
  url: "https://efile.test.example.com"
  jurisdiction: "massachusetts"
search:
  window_size: 4
`)

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	cfg := mgr.Get()
	if cfg.Proxy.URL != "https://efile.test.example.com" {
		t.Errorf("expected test url, got %s", cfg.Proxy.URL)
	}
	if cfg.Proxy.Jurisdiction != "massachusetts" {
		t.Errorf("expected massachusetts, got %s", cfg.Proxy.Jurisdiction)
	}
	if cfg.Search.WindowSize != 4 {
		t.Errorf("expected window size 4, got %d", cfg.Search.WindowSize)
	}
}

func TestNewManagerRejectsInvalidConfig(t *testing.T) {
	configFile := writeConfigFile(t, `
search:
  window_size: "lots"
`)

	if _, err := NewManager(configFile); err == nil {
		t.Fatal("expected error for mistyped window_size")
	} else if !strings.Contains(err.Error(), "schema") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
	}{
		{
			name: "valid",
			settings: map[string]any{
				"proxy":  map[string]any{"url": "https://x", "jurisdiction": "illinois"},
				"search": map[string]any{"window_size": 8},
				"debug":  false,
			},
		},
		{
			name:     "empty",
			settings: map[string]any{},
		},
		{
			name:     "unknown keys allowed",
			settings: map[string]any{"future_feature": map[string]any{"x": 1}},
		},
		{
			name:     "window size below minimum",
			settings: map[string]any{"search": map[string]any{"window_size": 0}},
			wantErr:  true,
		},
		{
			name:     "debug not boolean",
			settings: map[string]any{"debug": "yes"},
			wantErr:  true,
		},
		{
			name:     "global admins not strings",
			settings: map[string]any{"admin": map[string]any{"global_admins": []any{1, 2}}},
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSettings(tt.settings)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	configFile := writeConfigFile(t, "debug: true\n")

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	configFile := writeConfigFile(t, "debug: true\n")

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	// Call Get concurrently to verify no race conditions
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Proxy.URL
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfigFile(t, `
proxy:
  jurisdiction: "initial"
`)

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	cfg := mgr.Get()
	if cfg.Proxy.Jurisdiction != "initial" {
		t.Errorf("initial value mismatch: got %s", cfg.Proxy.Jurisdiction)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Proxy.Jurisdiction)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	newContent := `
proxy:
  jurisdiction: "updated"
`
	if err := os.WriteFile(configFile, []byte(newContent), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	// Wait for the watcher to detect the change (fsnotify is async)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Error("callback was not invoked after config file change")
	}

	newCfg := mgr.Get()
	if newCfg.Proxy.Jurisdiction != "updated" {
		t.Errorf("config not updated: got %s", newCfg.Proxy.Jurisdiction)
	}
	if v := lastValue.Load(); v != "updated" {
		t.Errorf("callback received wrong value: %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "${EFSP_API_KEY}") {
		t.Error("written config missing API key placeholder")
	}
	if !strings.Contains(content, "window_size: 8") {
		t.Error("written config missing search defaults")
	}

	// The written file loads back cleanly.
	if _, err := NewManager(path); err != nil {
		t.Errorf("default config does not load: %v", err)
	}
}
