package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Registrar is satisfied by *discordgo.Session.
type Registrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Register replaces the application's commands with Commands. An empty
// guildId registers them globally.
func Register(r Registrar, appId, guildId string) ([]*discordgo.ApplicationCommand, error) {
	if appId == "" {
		return nil, fmt.Errorf("cannot register commands without an application id")
	}
	registered, err := r.ApplicationCommandBulkOverwrite(appId, guildId, Commands)
	if err != nil {
		return nil, fmt.Errorf("cannot register commands: %w", err)
	}
	return registered, nil
}

// Clean removes every command of the application from guildId, or globally.
func Clean(r Registrar, appId, guildId string) error {
	if _, err := r.ApplicationCommandBulkOverwrite(appId, guildId, []*discordgo.ApplicationCommand{}); err != nil {
		return fmt.Errorf("cannot remove commands: %w", err)
	}
	return nil
}
