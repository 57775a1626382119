package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"rolebot/bot/permissions"
	"rolebot/bot/responses"
	"rolebot/bot/session"
	"rolebot/bot/store"
	"rolebot/utils"
)

func autoroleCommandHandler(st *store.Store, sess session.Session) CommandHandler {
	return func(ctx context.Context, r *responses.Responder, i *discordgo.InteractionCreate) error {
		name, options := subcommand(i)

		switch name {
		case "add":
			role, ok := roleOption(i, options, "role")
			if !ok {
				return r.Reply("Please provide a role.")
			}

			created, err := st.AddAutoRole(ctx, i.GuildID, role.ID)
			switch {
			case err != nil:
				return fmt.Errorf("failed to add auto role: %w", err)
			case !created:
				return r.Reply(fmt.Sprintf("**%s** is already given on join.", utils.RoleName(role)))
			default:
				return r.Reply(fmt.Sprintf("Auto role added: **%s**", utils.RoleName(role)))
			}

		case "remove":
			role, ok := roleOption(i, options, "role")
			if !ok {
				return r.Reply("Please provide a role.")
			}

			removed, err := st.RemoveAutoRole(ctx, i.GuildID, role.ID)
			switch {
			case err != nil:
				return fmt.Errorf("failed to remove auto role: %w", err)
			case !removed:
				return r.Reply(fmt.Sprintf("Auto role not found: **%s**", utils.RoleName(role)))
			default:
				return r.Reply(fmt.Sprintf("Auto role removed: **%s**", utils.RoleName(role)))
			}

		case "list":
			autoRoles, err := st.AutoRoles(ctx, i.GuildID)
			switch {
			case err != nil:
				return fmt.Errorf("failed to list auto roles: %w", err)
			case len(autoRoles) == 0:
				return r.Reply("No auto roles configured.")
			}

			// Roles deleted behind our back are still listed, flagged as missing.
			var guildRoles []*discordgo.Role
			if guild, err := sess.Guild(i.GuildID); err == nil {
				guildRoles = guild.Roles
			}

			lines := make([]string, 0, len(autoRoles)+1)
			lines = append(lines, "Roles given on join:")
			for _, autoRole := range autoRoles {
				line := "• " + utils.RoleMention(autoRole.RoleId)
				if guildRoles != nil && permissions.FindRole(guildRoles, autoRole.RoleId) == nil {
					line += " (role no longer exists)"
				}
				lines = append(lines, line)
			}
			return r.Reply(utils.Truncate(strings.Join(lines, "\n"), maxContentLength))

		case "set":
			role, ok := roleOption(i, options, "role")
			if !ok {
				return r.Reply("Please provide a role.")
			}

			if err := st.SetAutoRole(ctx, i.GuildID, role.ID); err != nil {
				return fmt.Errorf("failed to set auto role: %w", err)
			}
			return r.Reply(fmt.Sprintf("Auto role set to: **%s**", utils.RoleName(role)))

		case "clear":
			if _, err := st.ClearAutoRoles(ctx, i.GuildID); err != nil {
				return fmt.Errorf("failed to clear auto roles: %w", err)
			}
			return r.Reply("Auto role disabled.")
		}

		return nil
	}
}
