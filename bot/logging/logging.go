package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const NameKey = "logger"

type Config struct {
	Level      slog.Level `mapstructure:"level"`
	File       string     `mapstructure:"file"`
	MaxSizeMB  int        `mapstructure:"max_size_mb"`
	MaxBackups int        `mapstructure:"max_backups"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the root logger. Without a file it writes colored text to
// stderr, otherwise JSON lines to a size-rotated file.
func New(cfg Config) (*slog.Logger, io.Closer) {
	if cfg.File == "" {
		handler := tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.Level,
			TimeFormat: time.DateTime,
		})
		return slog.New(handler), nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}
	handler := slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: cfg.Level})
	return slog.New(handler), rotator
}

// Named returns a child logger tagged with a component name.
func Named(log *slog.Logger, name string) *slog.Logger {
	return log.With(NameKey, name)
}

var discordgoLevels = map[int]slog.Level{
	discordgo.LogDebug:         slog.LevelDebug,
	discordgo.LogInformational: slog.LevelInfo,
	discordgo.LogWarning:       slog.LevelWarn,
	discordgo.LogError:         slog.LevelError,
}

// DiscordgoLevel maps a slog level onto discordgo's package log levels.
func DiscordgoLevel(level slog.Level) int {
	switch {
	case level <= slog.LevelDebug:
		return discordgo.LogDebug
	case level <= slog.LevelInfo:
		return discordgo.LogInformational
	case level <= slog.LevelWarn:
		return discordgo.LogWarning
	default:
		return discordgo.LogError
	}
}

// BridgeDiscordgo routes discordgo's package logger into log.
func BridgeDiscordgo(log *slog.Logger) {
	log = Named(log, "discordgo")
	discordgo.Logger = func(msgL, _ int, format string, a ...interface{}) {
		level, ok := discordgoLevels[msgL]
		if !ok {
			level = slog.LevelInfo
		}
		msg := strings.ReplaceAll(fmt.Sprintf(format, a...), "\n", " ")
		log.Log(context.Background(), level, msg)
	}
}

type gormLogger struct {
	log           *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger adapts slog to gorm's logger interface. Queries slower than
// slowThreshold are logged as warnings, everything else at debug.
func NewGormLogger(log *slog.Logger, slowThreshold time.Duration) logger.Interface {
	return &gormLogger{
		log:           Named(log, "gorm"),
		level:         logger.Info,
		slowThreshold: slowThreshold,
	}
}

func (g *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Info {
		g.log.InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Warn {
		g.log.WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Error {
		g.log.ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{"elapsed", elapsed, "rows", rows, "sql", sql}

	switch {
	// Handled by callers, not worth more than a debug line.
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrDuplicatedKey):
		g.log.DebugContext(ctx, "sql completed", append(attrs, tint.Err(err))...)
	case err != nil && g.level >= logger.Error:
		g.log.ErrorContext(ctx, "sql failed", append(attrs, tint.Err(err))...)
	case g.slowThreshold != 0 && elapsed > g.slowThreshold && g.level >= logger.Warn:
		g.log.WarnContext(ctx, "slow sql", append(attrs, "threshold", g.slowThreshold)...)
	default:
		g.log.DebugContext(ctx, "sql completed", attrs...)
	}
}
