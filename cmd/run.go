package cmd

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"rolebot/bot/commands"
	"rolebot/bot/config"
	"rolebot/bot/events"
	"rolebot/bot/handlers"
	"rolebot/bot/logging"
	"rolebot/bot/session"
	"rolebot/bot/store"
	"rolebot/bot/tasks"
)

// Pause between two panel edits during reconciliation, to stay clear of rate limits.
const reconcilePause = 2 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve auto roles and role panels",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), cfg, logger)
	},
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("Could not close database", tint.Err(err))
		}
	}()

	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("invalid bot parameters: %w", err)
	}
	s.Identify.Intents |= discordgo.IntentGuildMembers
	s.LogLevel = logging.DiscordgoLevel(cfg.Log.Level)
	logging.BridgeDiscordgo(log)

	sess := session.New(s)

	var register func(userId string) error
	if cfg.RegisterCommands {
		register = func(userId string) error {
			_, err := commands.Register(s, cmp.Or(cfg.ApplicationId, userId), cfg.GuildId)
			return err
		}
	}

	s.AddHandler(events.ReadyEventHandler(log, register))
	s.AddHandler(events.AutoRoleEventHandler(st, sess, log))
	s.AddHandler(events.RoleDeleteEventHandler(st, sess, log))
	s.AddHandler(handlers.InteractionCreateHandler(st, sess, log))

	if err := s.Open(); err != nil {
		return fmt.Errorf("cannot open the session: %w", err)
	}
	defer s.Close()

	if cfg.ReconcileInterval > 0 {
		scheduler, err := tasks.NewScheduler(cfg.ReconcileInterval, tasks.ReconcilePanels(st, sess, log, reconcilePause))
		if err != nil {
			return err
		}
		scheduler.StartAsync()
		defer scheduler.Stop()
		log.Info("Scheduled panel reconciliation", "interval", cfg.ReconcileInterval)
	}

	log.Info("Bot is running, press Ctrl+C to exit")
	<-ctx.Done()

	if cfg.CleanCommandsOnShutdown {
		log.Info("Removing commands")
		if err := commands.Clean(s, cmp.Or(cfg.ApplicationId, sess.BotUserId()), cfg.GuildId); err != nil {
			log.Error("Could not remove commands", tint.Err(err))
		}
	}

	log.Info("Gracefully shutting down")
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
