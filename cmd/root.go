package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/AnyUserName/imgcdn-cli/internal/config"
	"github.com/AnyUserName/imgcdn-cli/internal/fetchcache"
	"github.com/AnyUserName/imgcdn-cli/internal/imagedata"
	"github.com/AnyUserName/imgcdn-cli/internal/logging"
	"github.com/AnyUserName/imgcdn-cli/internal/profile"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	verbose    bool
	configPath string
	logLevel   string
	logJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "imgcdn",
	Short: "Responsive image data for CDN-hosted assets",
	Long: `imgcdn turns CDN asset references into ready-to-render image data:
transformation URLs, srcset/sizes for fixed and fluid layouts, and
blurred, traced SVG or dominant color placeholders.

Remote metadata and placeholder previews are fetched at most once per URL.`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug level)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgcdn %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// newLogger builds the stderr logger from --verbose, LOG_LEVEL and
// --log-level, later ones winning.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = logging.ParseLevel(env)
	}
	if logLevel != "" {
		level = logging.ParseLevel(logLevel)
	}
	format := logging.Text
	if logJSON {
		format = logging.JSON
	}
	return logging.New(os.Stderr, level, format)
}

// loadOptions reads --config, or the named profile when there is none.
func loadOptions(profileName string) (config.Options, error) {
	if profileName != "" && !slices.Contains(profile.Names(), profileName) {
		return config.Options{}, fmt.Errorf("unknown profile %q (known: %s)",
			profileName, strings.Join(profile.Names(), ", "))
	}
	if configPath == "" {
		opts := config.Default(profileName)
		return opts, opts.Validate()
	}
	opts, err := config.Load(configPath)
	if err != nil {
		return config.Options{}, err
	}
	return opts, nil
}

// newResolver wires the HTTP fetcher, the shared fetch cache and the
// resolver.
func newResolver(opts config.Options, logger *slog.Logger) (*imagedata.Resolver, *fetchcache.Cache) {
	cache := fetchcache.New(fetchcache.NewHTTPFetcher(opts.HTTP), opts.Cache, logger)
	return imagedata.NewResolver(opts, cache, logger), cache
}
