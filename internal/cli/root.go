package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/wikibox/internal/logger"
	"github.com/ppiankov/wikibox/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "wikibox v0.1.0"

var (
	cfgFile string
	log     = logger.New("info")
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wikibox [topic...]",
	Short: "Print the infobox of a Wikipedia article",
	Long: `wikibox looks up the English Wikipedia article for a topic and prints
the rows of its infobox (capital, population, area, ...) as "label: value".

With no arguments it prompts for the topic on standard input.

Example:
  wikibox
  wikibox united states
  wikibox japan --align
  wikibox batch topics.txt`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runSearch,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := model.DefaultConfig()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.wikibox/config.yaml)")
	flags.BoolP("verbose", "v", false, "verbose diagnostics on stderr")

	// HTTP flags
	flags.Duration("timeout", defaults.HTTP.Timeout, "overall lookup timeout")
	flags.String("ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	flags.Int64("max-bytes", defaults.HTTP.MaxBodyBytes, "max response bytes to read")
	flags.Bool("insecure", false, "skip TLS certificate verification")
	flags.String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	flags.String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	flags.String("no-proxy", "", "comma-separated hosts that bypass the proxy (default: NO_PROXY env var)")

	// Wiki flags
	flags.String("base-url", defaults.Wiki.BaseURL, "article URL prefix")

	// Politeness flags
	flags.Bool("robots", defaults.Politeness.Robots, "check robots.txt before fetching")
	flags.Float64("rps", defaults.Politeness.RequestsPerSecond, "max requests per second per host (0 = unlimited)")

	// Output flags
	flags.Bool("align", false, "pad labels to a common width")

	bindFlags(viper.GetViper(), flags)

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Warn("cannot find home directory", "error", err)
		} else {
			viper.AddConfigPath(home + "/.wikibox")
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(viper.GetViper(), model.DefaultConfig())

	if err := viper.ReadInConfig(); err == nil {
		log.Debug("using config file", "path", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		log.Warn("cannot read config file", "path", cfgFile, "error", err)
	}

	if viper.GetBool("output.verbose") {
		log.SetLevel("debug")
	}
}

// lookupTimeout returns the configured timeout, guarding against zero
func lookupTimeout(cfg *model.Config) time.Duration {
	if cfg.HTTP.Timeout <= 0 {
		return model.DefaultConfig().HTTP.Timeout
	}
	return cfg.HTTP.Timeout
}
