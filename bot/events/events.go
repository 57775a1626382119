package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"

	"rolebot/bot/logging"
	"rolebot/bot/panels"
	"rolebot/bot/permissions"
	"rolebot/bot/session"
	"rolebot/bot/store"
)

const (
	eventTimeout     = 10 * time.Second
	autoRoleAuditLog = "Auto role on join"
)

// AutoRoleEventHandler gives a joining member every auto role of the guild
// that still exists, in a single request.
func AutoRoleEventHandler(st *store.Store, sess session.Session, log *slog.Logger) func(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	log = logging.Named(log, "autoroles")

	return func(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
		if e.Member == nil || e.User == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()

		log := log.With("guild_id", e.GuildID, "user_id", e.User.ID)

		autoRoles, err := st.AutoRoles(ctx, e.GuildID)
		switch {
		case err != nil:
			log.ErrorContext(ctx, "Could not load auto roles", tint.Err(err))
			return
		case len(autoRoles) == 0:
			return
		}

		guild, err := sess.Guild(e.GuildID)
		if err != nil {
			log.ErrorContext(ctx, "Could not load guild", tint.Err(err))
			return
		}

		roles := slices.Clone(e.Roles)
		added := 0
		for _, autoRole := range autoRoles {
			if permissions.FindRole(guild.Roles, autoRole.RoleId) == nil {
				log.DebugContext(ctx, "Skipping deleted auto role", "role_id", autoRole.RoleId)
				continue
			}
			if slices.Contains(roles, autoRole.RoleId) {
				continue
			}
			roles = append(roles, autoRole.RoleId)
			added++
		}

		if added == 0 {
			return
		}

		if err := sess.SetMemberRoles(e.GuildID, e.User.ID, roles, autoRoleAuditLog); err != nil {
			log.WarnContext(ctx, "Failed to add auto roles", tint.Err(err))
			return
		}
		log.InfoContext(ctx, "Added auto roles", "count", added)
	}
}

// RoleDeleteEventHandler forgets a deleted role and redraws the panels that
// offered it.
func RoleDeleteEventHandler(st *store.Store, sess session.Session, log *slog.Logger) func(s *discordgo.Session, e *discordgo.GuildRoleDelete) {
	log = logging.Named(log, "roles")

	return func(_ *discordgo.Session, e *discordgo.GuildRoleDelete) {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()

		log := log.With("guild_id", e.GuildID, "role_id", e.RoleID)

		affected, err := st.DeleteRoleReferences(ctx, e.GuildID, e.RoleID)
		if err != nil {
			log.ErrorContext(ctx, "Could not remove deleted role", tint.Err(err))
			return
		}

		for _, panel := range affected {
			if err := panels.Refresh(ctx, sess, st, panel); err != nil {
				log.WarnContext(ctx, "Could not refresh panel", "panel_id", panel.Id, tint.Err(err))
			}
		}
	}
}

// ReadyEventHandler logs the connected user and calls register once, on the
// first Ready of the process.
func ReadyEventHandler(log *slog.Logger, register func(userId string) error) func(s *discordgo.Session, r *discordgo.Ready) {
	var once sync.Once

	return func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Info("Logged in", "user", r.User.Username, "user_id", r.User.ID, "guilds", len(r.Guilds))

		if register == nil {
			return
		}
		once.Do(func() {
			if err := register(r.User.ID); err != nil {
				log.Error("Could not register commands", tint.Err(err))
				return
			}
			log.Info("Registered commands")
		})
	}
}
