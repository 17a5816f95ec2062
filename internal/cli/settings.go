package cli

import (
	"strings"

	"github.com/ppiankov/wikibox/internal/model"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags to configuration keys
var flagKeys = map[string]string{
	"verbose":     "output.verbose",
	"timeout":     "http.timeout",
	"ua":          "http.user_agent",
	"max-bytes":   "http.max_body_bytes",
	"insecure":    "http.insecure_tls",
	"http-proxy":  "http.http_proxy",
	"https-proxy": "http.https_proxy",
	"no-proxy":    "http.no_proxy",
	"base-url":    "wiki.base_url",
	"robots":      "politeness.robots",
	"rps":         "politeness.requests_per_second",
	"align":       "output.align",
	"concurrency": "concurrency.workers",
}

// bindFlags binds every known flag in fs to its configuration key and
// enables WIKIBOX_* environment overrides (e.g. WIKIBOX_HTTP_TIMEOUT)
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	v.SetEnvPrefix("WIKIBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})
}

// setDefaults registers cfg as the lowest-priority configuration layer
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", cfg.HTTP.MaxBodyBytes)
	v.SetDefault("http.insecure_tls", cfg.HTTP.InsecureTLS)
	v.SetDefault("http.http_proxy", cfg.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", cfg.HTTP.HTTPSProxy)
	v.SetDefault("http.no_proxy", cfg.HTTP.NoProxy)
	v.SetDefault("wiki.base_url", cfg.Wiki.BaseURL)
	v.SetDefault("politeness.robots", cfg.Politeness.Robots)
	v.SetDefault("politeness.requests_per_second", cfg.Politeness.RequestsPerSecond)
	v.SetDefault("politeness.burst", cfg.Politeness.Burst)
	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	v.SetDefault("output.align", cfg.Output.Align)
	v.SetDefault("output.verbose", cfg.Output.Verbose)
}

// loadConfig resolves flags > env > config file > defaults into a Config
func loadConfig(v *viper.Viper) *model.Config {
	cfg := model.DefaultConfig()

	cfg.HTTP.Timeout = v.GetDuration("http.timeout")
	cfg.HTTP.UserAgent = v.GetString("http.user_agent")
	cfg.HTTP.MaxBodyBytes = v.GetInt64("http.max_body_bytes")
	cfg.HTTP.InsecureTLS = v.GetBool("http.insecure_tls")
	cfg.HTTP.HTTPProxy = v.GetString("http.http_proxy")
	cfg.HTTP.HTTPSProxy = v.GetString("http.https_proxy")
	cfg.HTTP.NoProxy = v.GetString("http.no_proxy")
	cfg.Wiki.BaseURL = v.GetString("wiki.base_url")
	cfg.Politeness.Robots = v.GetBool("politeness.robots")
	cfg.Politeness.RequestsPerSecond = v.GetFloat64("politeness.requests_per_second")
	cfg.Politeness.Burst = v.GetInt("politeness.burst")
	cfg.Concurrency.Workers = v.GetInt("concurrency.workers")
	cfg.Output.Align = v.GetBool("output.align")
	cfg.Output.Verbose = v.GetBool("output.verbose")

	return cfg
}
