package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rolebot/bot/config"
	"rolebot/bot/logging"
)

const defaultEnvFile = ".env"

var (
	cfg     = config.Default()
	envFile string

	logger    = slog.Default()
	logCloser io.Closer
)

// envBindings maps configuration keys to the environment variables they are
// read from.
var envBindings = map[string]string{
	"token":                      "DISCORD_TOKEN",
	"application_id":             "DISCORD_CLIENT_ID",
	"guild_id":                   "DISCORD_GUILD_ID",
	"register_commands":          "REGISTER_COMMANDS",
	"clean_commands_on_shutdown": "CLEAN_COMMANDS_AFTER_SHUTDOWN",
	"reconcile_interval":         "RECONCILE_INTERVAL",
	"database.type":              "DATABASE_TYPE",
	"database.dsn":               "DATABASE_URL",
	"database.slow_threshold":    "DATABASE_SLOW_THRESHOLD",
	"log.level":                  "LOG_LEVEL",
	"log.file":                   "LOG_FILE",
	"log.max_size_mb":            "LOG_MAX_SIZE_MB",
	"log.max_backups":            "LOG_MAX_BACKUPS",
}

var rootCmd = &cobra.Command{
	Use:           "rolebot",
	Short:         "Discord bot for auto roles and self-assignable role panels",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := loadConfig(envFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logger, logCloser = logging.New(cfg.Log)
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		logger.Error("Exiting", "error", err)
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

// closeLog flushes the log file, if any. It runs whether or not the command
// failed.
func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

// loadConfig reads the configuration from the environment, falling back to
// values from envFile and then to the defaults.
func loadConfig(envFile string) (*config.Config, error) {
	v := viper.New()

	defaults := config.Default()
	v.SetDefault("register_commands", defaults.RegisterCommands)
	v.SetDefault("clean_commands_on_shutdown", defaults.CleanCommandsOnShutdown)
	v.SetDefault("reconcile_interval", defaults.ReconcileInterval)
	v.SetDefault("database.type", defaults.Database.Type)
	v.SetDefault("database.dsn", defaults.Database.DSN)
	v.SetDefault("database.slow_threshold", defaults.Database.SlowThreshold)
	v.SetDefault("log.level", defaults.Log.Level.String())
	v.SetDefault("log.max_size_mb", defaults.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", defaults.Log.MaxBackups)

	fileValues, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
		if value, ok := fileValues[env]; ok {
			v.SetDefault(key, value)
		}
	}

	loaded := &config.Config{}
	err = v.Unmarshal(loaded, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return loaded, nil
}

// readEnvFile returns the variables of an env file without exporting them.
// A missing default file is not an error.
func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	values, err := godotenv.Read(path)
	switch {
	case err == nil:
		return values, nil
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return map[string]string{}, nil
	default:
		return nil, fmt.Errorf("could not read env file %s: %w", path, err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to read configuration from (default .env when present)")
}
