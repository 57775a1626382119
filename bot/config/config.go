package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rolebot/bot/logging"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"

	DefaultDatabaseType          = DatabaseSQLite
	DefaultDatabaseDSN           = "bot.sqlite"
	DefaultDatabaseSlowThreshold = 200 * time.Millisecond
	DefaultReconcileInterval     = 6 * time.Hour
	DefaultLogLevel              = slog.LevelInfo
	DefaultLogMaxSizeMB          = 50
	DefaultLogMaxBackups         = 3
)

var ErrMissingToken = errors.New("missing DISCORD_TOKEN in environment")

type Config struct {
	Token                   string        `mapstructure:"token"`
	ApplicationId           string        `mapstructure:"application_id"`
	GuildId                 string        `mapstructure:"guild_id"`
	RegisterCommands        bool          `mapstructure:"register_commands"`
	CleanCommandsOnShutdown bool          `mapstructure:"clean_commands_on_shutdown"`
	ReconcileInterval       time.Duration `mapstructure:"reconcile_interval"`

	Database Database       `mapstructure:"database"`
	Log      logging.Config `mapstructure:"log"`
}

type Database struct {
	Type          string        `mapstructure:"type"`
	DSN           string        `mapstructure:"dsn"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

func Default() *Config {
	return &Config{
		RegisterCommands:  true,
		ReconcileInterval: DefaultReconcileInterval,
		Database: Database{
			Type:          DefaultDatabaseType,
			DSN:           DefaultDatabaseDSN,
			SlowThreshold: DefaultDatabaseSlowThreshold,
		},
		Log: logging.Config{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}

// Validate reports configuration the bot cannot start without.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	return c.Database.Validate()
}

func (d Database) Validate() error {
	switch d.Type {
	case DatabaseSQLite, DatabasePostgres:
	default:
		return fmt.Errorf("unsupported database type %q (must be %q or %q)", d.Type, DatabaseSQLite, DatabasePostgres)
	}
	if d.DSN == "" {
		return errors.New("database dsn is empty")
	}
	return nil
}
