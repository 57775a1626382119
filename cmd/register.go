package cmd

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"rolebot/bot/commands"
	"rolebot/bot/config"
)

var cleanCommands bool

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register slash commands over REST without connecting to the gateway",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Token == "" {
			return config.ErrMissingToken
		}
		if cfg.ApplicationId == "" {
			return errors.New("missing DISCORD_CLIENT_ID in environment")
		}

		s, err := discordgo.New("Bot " + cfg.Token)
		if err != nil {
			return fmt.Errorf("invalid bot parameters: %w", err)
		}

		scope := "globally"
		if cfg.GuildId != "" {
			scope = "in guild " + cfg.GuildId
		}

		if cleanCommands {
			if err := commands.Clean(s, cfg.ApplicationId, cfg.GuildId); err != nil {
				return err
			}
			logger.Info("Removed commands " + scope)
			return nil
		}

		registered, err := commands.Register(s, cfg.ApplicationId, cfg.GuildId)
		if err != nil {
			return err
		}
		for _, command := range registered {
			logger.Info("Registered command "+scope, "name", command.Name, "id", command.ID)
		}
		return nil
	},
}

func init() {
	registerCmd.Flags().BoolVar(&cleanCommands, "clean", false, "remove the commands instead")
	rootCmd.AddCommand(registerCmd)
}
