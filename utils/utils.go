package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

func MessageURL(guildId, channelId, messageId string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildId, channelId, messageId)
}

func ChannelMention(channelId string) string {
	return fmt.Sprintf("<#%s>", channelId)
}

func RoleMention(roleId string) string {
	return fmt.Sprintf("<@&%s>", roleId)
}

// RoleName prefers the role's name and falls back to a mention when only the
// id is known.
func RoleName(role *discordgo.Role) string {
	if role.Name != "" {
		return role.Name
	}
	return RoleMention(role.ID)
}

// Truncate cuts s to at most max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
