package model

import "time"

// Config holds all runtime settings for wikibox
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Wiki        WikiConfig        `yaml:"wiki" mapstructure:"wiki"`
	Politeness  PolitenessConfig  `yaml:"politeness" mapstructure:"politeness"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls the article fetch
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// WikiConfig controls how article URLs are built
type WikiConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// PolitenessConfig controls robots.txt checks and request pacing.
// robots.txt is only consulted when Robots is set.
type PolitenessConfig struct {
	Robots            bool    `yaml:"robots" mapstructure:"robots"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig controls the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls presentation
type OutputConfig struct {
	Align   bool `yaml:"align" mapstructure:"align"`
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultUserAgent identifies wikibox to Wikimedia servers
const DefaultUserAgent = "wikibox/0.1 (+https://github.com/ppiankov/wikibox)"

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    DefaultUserAgent,
			MaxBodyBytes: 10_000_000,
		},
		Wiki: WikiConfig{
			BaseURL: "https://en.wikipedia.org/wiki/",
		},
		Politeness: PolitenessConfig{
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}
