package config

import "time"

// Config holds efmkit configuration.
// Stored at: ~/.efmkit/config.yaml
type Config struct {
	Proxy  ProxyCfg  `mapstructure:"proxy" yaml:"proxy"`
	Search SearchCfg `mapstructure:"search" yaml:"search"`
	Cache  CacheCfg  `mapstructure:"cache" yaml:"cache"`
	Admin  AdminCfg  `mapstructure:"admin" yaml:"admin"`
	Debug  bool      `mapstructure:"debug" yaml:"debug"`
}

// ProxyCfg points at the e-filing proxy deployment.
type ProxyCfg struct {
	URL          string `mapstructure:"url" yaml:"url"`
	APIKey       string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	Jurisdiction string `mapstructure:"jurisdiction" yaml:"jurisdiction"`
}

// SearchCfg tunes case search behavior.
type SearchCfg struct {
	// WindowSize is how many search results get the detail fetch up front.
	WindowSize int `mapstructure:"window_size" yaml:"window_size"`
}

// CacheCfg configures the optional Redis case cache. An empty RedisURL
// disables caching entirely.
type CacheCfg struct {
	RedisURL   string `mapstructure:"redis_url" yaml:"redis_url"`
	TTLMinutes int    `mapstructure:"ttl_minutes" yaml:"ttl_minutes"`
}

// AdminCfg lists deployment-level administrators.
type AdminCfg struct {
	// GlobalAdmins are user emails allowed to edit global payment methods.
	GlobalAdmins []string `mapstructure:"global_admins" yaml:"global_admins"`
}

// TTL returns the cache TTL as a duration, zero when unset.
func (c CacheCfg) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// ResolveAPIKey returns the proxy API key with ${ENV_VAR} references
// expanded.
func (c *Config) ResolveAPIKey() string {
	return ResolveEnvVars(c.Proxy.APIKey)
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Proxy: ProxyCfg{
			URL:          "https://efile.example.org",
			APIKey:       "${EFSP_API_KEY}",
			Jurisdiction: "illinois",
		},
		Search: SearchCfg{
			WindowSize: 8,
		},
		Cache: CacheCfg{
			TTLMinutes: 10,
		},
	}
}
