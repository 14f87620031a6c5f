package cmd

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
	logger   = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "appprofile",
	Short: "Free app market profiler",
	Long: `Cleans the app store and marketplace exports, keeps free apps with
primarily English names, and summarizes genres, categories and installs
to point at a promising category for a new free app.

Running without a subcommand performs the full analysis.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalyze,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.appprofile.yaml)")
	flags.StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	flags.String("appstore", "AppleStore.csv",
		"App store export (CSV)")
	flags.String("marketplace", "googleplaystore.csv",
		"Marketplace export (CSV)")
	flags.String("data-dir", "",
		"Directory to search for both exports by file name")

	bindFlags(flags, map[string]string{
		"log.level":           "log-level",
		"sources.appstore":    "appstore",
		"sources.marketplace": "marketplace",
		"sources.data_dir":    "data-dir",
	})

	rootCmd.Flags().StringVar(&outputFile, "output", "",
		"Output file to save results (default: stdout)")
}

// bindFlags maps config keys to the flags that override them
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		viper.BindPFlag(key, flags.Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".appprofile")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("APPPROFILE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	logger = newLogger(viper.GetString("log.level"))

	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		logger.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	case cfgFile == "" && errors.As(err, &notFound):
	default:
		logger.Fatal().Err(err).Str("file", cfgFile).Msg("failed to read config")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
