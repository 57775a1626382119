package models

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleButtonCustomId(t *testing.T) {
	customId := RoleButtonCustomId("100", 7, "200")
	assert.Equal(t, "rolebtn:100:7:200", customId)

	ref, err := ParseRoleButtonCustomId(customId)
	require.NoError(t, err)
	assert.Equal(t, RoleButtonRef{GuildId: "100", PanelId: 7, RoleId: "200"}, ref)
	assert.Equal(t, RoleButtonTag, CustomIdTag(customId))
}

func TestParseRoleButtonCustomIdRejectsForeignIds(t *testing.T) {
	for _, customId := range []string{
		"",
		"rolebtn",
		"rolebtn:100:7",
		"lotto_buy_3",
		"other:100:7:200",
		"rolebtn:100:x:200",
		"rolebtn::7:200",
		"rolebtn:100:7:",
	} {
		_, err := ParseRoleButtonCustomId(customId)
		assert.Error(t, err, customId)
	}
}

func TestParseButtonStyle(t *testing.T) {
	style, err := ParseButtonStyle("Danger")
	require.NoError(t, err)
	assert.Equal(t, discordgo.DangerButton, style.Discord())
	assert.Equal(t, "danger", style.String())

	for _, name := range StyleNames {
		_, err := ParseButtonStyle(name)
		assert.NoError(t, err)
	}

	_, err = ParseButtonStyle("link")
	assert.Error(t, err)
}
