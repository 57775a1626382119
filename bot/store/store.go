package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rolebot/bot/config"
	"rolebot/bot/logging"
	"rolebot/bot/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// Store is the bot's single storage dependency. Open it once at startup and
// Close it at shutdown.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

func Open(ctx context.Context, cfg config.Database, log *slog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log = logging.Named(log, "store")
	gormConfig := &gorm.Config{
		Logger:         logging.NewGormLogger(log, cfg.SlowThreshold),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	log.InfoContext(ctx, "Opening database", "database_type", cfg.Type)

	var db *gorm.DB
	var err error

	switch cfg.Type {
	case config.DatabasePostgres:
		changed, err := MigrateUp(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if changed {
			log.InfoContext(ctx, "Applied database migrations")
		}

		db, err = gorm.Open(postgres.Open(cfg.DSN), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("could not connect to database: %w", err)
		}
	case config.DatabaseSQLite:
		if dir := filepath.Dir(cfg.DSN); dir != "" && !strings.HasPrefix(cfg.DSN, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}

		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.DSN)), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("could not open database: %w", err)
		}

		if err := db.WithContext(ctx).AutoMigrate(&models.AutoRole{}, &models.Panel{}, &models.PanelButton{}); err != nil {
			return nil, fmt.Errorf("could not migrate database: %w", err)
		}
	}

	return &Store{db: db, log: log}, nil
}

// sqliteDSN turns on foreign key enforcement, which sqlite leaves off per connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + "_foreign_keys=on"
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
