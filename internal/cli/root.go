package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotel-erp/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "HOTEL_ERP"

type RootConfig struct {
	ConfigFile   string
	LogLevel     string
	ERPBaseURL   string
	ERPAPIPath   string
	ERPTimeoutMs int
	ERPAPIKey    string
	ERPAPISecret string
	StateFile    string
	SeedFile     string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errorMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "hotel-erp",
		Short:         "Hotel dashboard access to a Frappe/ERPNext backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	flags.StringVar(&cfg.ERPBaseURL, "erp-base-url", "", "ERP base URL (empty for a same-origin proxy)")
	flags.StringVar(&cfg.ERPAPIPath, "erp-api-path", "/api", "ERP API path prefix")
	flags.IntVar(&cfg.ERPTimeoutMs, "erp-timeout-ms", 15000, "ERP request timeout in milliseconds")
	flags.StringVar(&cfg.ERPAPIKey, "erp-api-key", "", "ERP API key")
	flags.StringVar(&cfg.ERPAPISecret, "erp-api-secret", "", "ERP API secret")
	flags.StringVar(&cfg.StateFile, "state-file", defaultStateFile(), "Session and room state file")
	flags.StringVar(&cfg.SeedFile, "seed-file", "", "YAML file overriding built-in seed rows")
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("erp_base_url", flags.Lookup("erp-base-url"))
	_ = viper.BindPFlag("erp_api_path", flags.Lookup("erp-api-path"))
	_ = viper.BindPFlag("erp_timeout_ms", flags.Lookup("erp-timeout-ms"))
	_ = viper.BindPFlag("erp_api_key", flags.Lookup("erp-api-key"))
	_ = viper.BindPFlag("erp_api_secret", flags.Lookup("erp-api-secret"))
	_ = viper.BindPFlag("state_file", flags.Lookup("state-file"))
	_ = viper.BindPFlag("seed_file", flags.Lookup("seed-file"))

	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newRecordsCommand())
	cmd.AddCommand(newRoomsCommand())
	cmd.AddCommand(newBillingCommand())
	cmd.AddCommand(newLoginCommand())
	cmd.AddCommand(newLogoutCommand())
	cmd.AddCommand(newWhoamiCommand())
	cmd.AddCommand(newServeCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("hotel-erp")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/hotel-erp")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "hotel-erp", "state.yaml")
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func exitCodeForError(err error) int {
	switch types.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeNotFound:
		return 5
	case errbuilder.CodeInternal:
		return 6
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
