package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/peekknuf/rarity/internal/config"
)

// app is the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "rarity",
		Short: "Trait rarity ranking for NFT collections",
		Long: `Rarity turns a long-format attribute export (one row per asset and trait)
into one row per asset with per-trait rarity scores, an overall score and ranks.

Scores follow the rarity.tools method: a trait held by k of n assets scores n/k,
assets without a category score n/(n - holders), and the number of traits an
asset has is scored the same way.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(); err != nil {
				return err
			}
			a.initLogging(cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default is $HOME/.rarity.yaml or ./.rarity.yaml)")
	root.PersistentFlags().String(config.KeyLogLevel, "warn",
		"log level (debug, info, warn, error, disabled)")
	root.PersistentFlags().BoolP(config.KeyQuiet, "q", false,
		"suppress progress and status output")
	a.bindFlags(root.PersistentFlags(), config.KeyLogLevel, config.KeyQuiet)

	root.AddCommand(newRankCmd(a), newInspectCmd(a), newVersionCmd())
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// bindFlags ties flags to the viper keys of the same name. Commands bind
// their own flags when they run, since two commands may share a key.
func (a *app) bindFlags(flags *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}
}

// initConfig reads .env, then the config file if there is one.
func (a *app) initConfig() error {
	_ = godotenv.Load()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".rarity")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	log.Debug().Str("path", a.v.ConfigFileUsed()).Msg("using config file")
	return nil
}

// initLogging configures the global logger.
func (a *app) initLogging(w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	switch strings.ToLower(a.v.GetString(config.KeyLogLevel)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning", "":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
}
