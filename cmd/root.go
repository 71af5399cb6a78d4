// cmd/root.go - Root command implementation
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tileblend/internal/cache"
	"tileblend/internal/config"
	"tileblend/internal/logging"
	"tileblend/internal/pipeline"
	"tileblend/internal/style"
	"tileblend/internal/tile"
	"tileblend/internal/view"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tileblend",
	Short: "Fetch, cache and classify vector map tiles for continuous zoom",
	Long: `Tileblend resolves continuous map views (center plus fractional zoom)
into the discrete vector tiles they need, fetches and caches those tiles,
classifies their features into styled layer buckets, and normalizes the
geometry into unit-square paths and areas. Adjacent zoom levels are blended
with eased crossfade weights, so a consuming renderer can composite smooth,
continuously-zoomable imagery.

Examples:
  # Show the layers and fade weights a view resolves to
  tileblend inspect --lat 46.95 --lon 7.45 --zoom 11.5

  # Warm the cache for a camera move across 300 frames
  tileblend prefetch --lat 47.56 --lon 7.59 --zoom 6 \
    --end-lat 46.90 --end-lon 6.79 --end-zoom 12 --frames 300

  # Use a custom style rule file and cache directory
  tileblend inspect --config tileblend.yaml --style rules.json --lat 46.95 --lon 7.45 --zoom 9`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tileblend.yaml)")

	rootCmd.PersistentFlags().String("url-template", "", "tile server URL template with {z}/{x}/{y} placeholders")
	rootCmd.PersistentFlags().String("cache-dir", "", "tile cache directory")
	rootCmd.PersistentFlags().String("style", "", "style rule file (JSON); empty uses the built-in rules")
	rootCmd.PersistentFlags().Uint32("max-zoom", 14, "deepest discrete zoom level to request")
	rootCmd.PersistentFlags().Int("workers", 4, "prefetch worker count")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")

	viper.BindPFlag("server.url_template", rootCmd.PersistentFlags().Lookup("url-template"))
	viper.BindPFlag("cache.directory", rootCmd.PersistentFlags().Lookup("cache-dir"))
	viper.BindPFlag("style.path", rootCmd.PersistentFlags().Lookup("style"))
	viper.BindPFlag("viewport.max_zoom", rootCmd.PersistentFlags().Lookup("max-zoom"))
	viper.BindPFlag("batch.workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tileblend")
	}

	viper.SetEnvPrefix("TILEBLEND")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setup loads the configuration, configures logging and assembles the
// pipeline with its collaborators. Every command goes through here; the
// returned pipeline is the only shared state.
func setup() (*config.Config, *pipeline.Pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logging.Setup(&cfg.Logging); err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	rules := style.DefaultRules()
	if cfg.Style.Path != "" {
		rules, err = style.LoadRuleFile(cfg.Style.Path)
		if err != nil {
			return nil, nil, err
		}
	}

	classifier, err := style.NewClassifier(rules)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile style rules: %w", err)
	}

	fetcher := tile.NewHTTPFetcher(&cfg.Server)
	store, err := cache.New(&cfg.Cache, fetcher, cache.NewBuilder(classifier))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tile cache: %w", err)
	}

	selector := view.NewSelector(&cfg.Viewport)
	return cfg, pipeline.New(selector, store, classifier), nil
}
