package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"

	"rolebot/bot/models"
	"rolebot/bot/permissions"
	"rolebot/bot/responses"
	"rolebot/bot/session"
	"rolebot/bot/store"
)

const (
	notConfigured    = "This button is not configured."
	toggleAuditLog   = "Role panel button toggle"
	toggleFailedText = "I could not update your roles. Check permissions and role hierarchy."
)

// roleButtonHandler toggles the role behind a panel button on the member who
// clicked it.
func roleButtonHandler(st *store.Store, sess session.Session, log *slog.Logger) ComponentHandler {
	return func(ctx context.Context, r *responses.Responder, i *discordgo.InteractionCreate) error {
		customId := i.MessageComponentData().CustomID

		// A token minted for another guild is never honoured here.
		ref, err := models.ParseRoleButtonCustomId(customId)
		if err != nil || i.Member == nil || ref.GuildId != i.GuildID {
			return r.Reply(notConfigured)
		}

		button, err := st.ButtonByCustomId(ctx, customId)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return r.Reply(notConfigured)
		case err != nil:
			return fmt.Errorf("failed to look up button: %w", err)
		}

		guild, err := sess.Guild(i.GuildID)
		if err != nil {
			return fmt.Errorf("failed to load guild: %w", err)
		}

		role := permissions.FindRole(guild.Roles, button.RoleId)
		if role == nil {
			return r.Reply("Role not found (it may have been deleted).")
		}

		bot, err := sess.Member(i.GuildID, sess.BotUserId())
		if err != nil {
			return fmt.Errorf("failed to load bot member: %w", err)
		}

		var rejection *permissions.Rejection
		if err := permissions.CanManageRole(permissions.NewActor(guild, bot), role); errors.As(err, &rejection) {
			return r.Reply("I cannot manage this role: " + rejection.Reason)
		}

		userId := i.Member.User.ID
		log := log.With("user_id", userId, "role_id", role.ID)

		if slices.Contains(i.Member.Roles, role.ID) {
			if err := sess.RemoveMemberRole(i.GuildID, userId, role.ID, toggleAuditLog); err != nil {
				log.WarnContext(ctx, "Could not remove role", tint.Err(err))
				return r.Reply(toggleFailedText)
			}
			log.DebugContext(ctx, "Removed role")
			return r.Reply("Role removed: " + role.Name)
		}

		if err := sess.AddMemberRole(i.GuildID, userId, role.ID, toggleAuditLog); err != nil {
			log.WarnContext(ctx, "Could not add role", tint.Err(err))
			return r.Reply(toggleFailedText)
		}
		log.DebugContext(ctx, "Added role")
		return r.Reply("Role added: " + role.Name)
	}
}
