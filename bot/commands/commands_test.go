package commands

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRegistrar struct {
	appId    string
	guildId  string
	commands []*discordgo.ApplicationCommand
	err      error
}

func (r *recordingRegistrar) ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	r.appId, r.guildId, r.commands = appID, guildID, commands
	return commands, r.err
}

func subcommands(cmd *discordgo.ApplicationCommand) []string {
	var names []string
	for _, opt := range cmd.Options {
		if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			names = append(names, opt.Name)
		}
	}
	return names
}

func TestCommandSurface(t *testing.T) {
	require.Len(t, Commands, 2)

	for _, cmd := range Commands {
		require.NotNil(t, cmd.DefaultMemberPermissions, cmd.Name)
		assert.Equal(t, int64(discordgo.PermissionManageRoles), *cmd.DefaultMemberPermissions)
		require.NotNil(t, cmd.DMPermission)
		assert.False(t, *cmd.DMPermission)
	}

	assert.Equal(t, "autorole", Commands[0].Name)
	assert.Equal(t, []string{"add", "remove", "list", "set", "clear"}, subcommands(Commands[0]))

	assert.Equal(t, "panel", Commands[1].Name)
	assert.Equal(t, []string{"create", "addbutton", "removebutton", "refresh", "list", "buttons", "delete"}, subcommands(Commands[1]))
}

func TestStyleChoices(t *testing.T) {
	var names []string
	for _, choice := range styleChoices() {
		names = append(names, choice.Name)
	}
	assert.Equal(t, []string{"primary", "secondary", "success", "danger"}, names)
}

func TestRegister(t *testing.T) {
	r := &recordingRegistrar{}
	registered, err := Register(r, "app", "guild")
	require.NoError(t, err)
	assert.Len(t, registered, len(Commands))
	assert.Equal(t, "app", r.appId)
	assert.Equal(t, "guild", r.guildId)

	_, err = Register(r, "", "")
	assert.Error(t, err)

	r.err = errors.New("boom")
	_, err = Register(r, "app", "")
	assert.ErrorIs(t, err, r.err)
}

func TestClean(t *testing.T) {
	r := &recordingRegistrar{}
	require.NoError(t, Clean(r, "app", ""))
	assert.NotNil(t, r.commands)
	assert.Empty(t, r.commands)
}
