package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/nowplaying/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	app     *application
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nowplaying",
	Short: "Browse the movies now playing in theaters",
	Long: `nowplaying loads the "now playing" feed from The Movie Database,
lists and filters its pages, downloads posters and can serve both through a
small local HTTP API.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp loads the configuration and wires the loaders
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging, os.Stderr)

	app, err = newApplication(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up loaders: %w", err)
	}

	logger.Debug().
		Str("url", cfg.TMDB.URL).
		Str("placement", cfg.TMDB.CredentialPlacement).
		Bool("breaker", cfg.Breaker.Enabled).
		Msg("Loaders ready")
	return nil
}

func shutdownApp(cmd *cobra.Command, args []string) error {
	if app != nil {
		app.Close()
	}
	return nil
}

// setupLogger configures the zerolog logger. Color is only used when out is a terminal.
func setupLogger(cfg config.LoggingConfig, out *os.File) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	tty := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !tty,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
