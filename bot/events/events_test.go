package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rolebot/bot/models"
	"rolebot/bot/panels"
	"rolebot/bot/session/sessiontest"
	"rolebot/bot/store"
	"rolebot/bot/store/storetest"
)

const (
	guildId = "100"
	userId  = "42"
)

var (
	redRole  = &discordgo.Role{ID: "601", Name: "Red", Position: 2}
	blueRole = &discordgo.Role{ID: "602", Name: "Blue", Position: 3}
)

func setup(t *testing.T) (*store.Store, *sessiontest.Fake) {
	st := storetest.Open(t)
	fake := sessiontest.New("900")
	fake.AddGuild(guildId, "1", redRole, blueRole)
	return st, fake
}

func join(member *discordgo.Member) *discordgo.GuildMemberAdd {
	return &discordgo.GuildMemberAdd{Member: member}
}

func TestAutoRolesOnJoin(t *testing.T) {
	st, fake := setup(t)
	ctx := context.Background()
	member := fake.AddMember(guildId, userId, "555")

	for _, roleId := range []string{redRole.ID, "gone", blueRole.ID} {
		_, err := st.AddAutoRole(ctx, guildId, roleId)
		require.NoError(t, err)
	}

	AutoRoleEventHandler(st, fake, slog.Default())(nil, join(member))

	require.Len(t, fake.RoleCalls, 1)
	assert.Equal(t, autoRoleAuditLog, fake.RoleCalls[0].Reason)
	assert.ElementsMatch(t, []string{"555", redRole.ID, blueRole.ID}, fake.MemberRoles(guildId, userId))
}

func TestAutoRolesNothingToDo(t *testing.T) {
	st, fake := setup(t)
	ctx := context.Background()
	member := fake.AddMember(guildId, userId, redRole.ID)
	handler := AutoRoleEventHandler(st, fake, slog.Default())

	// No bindings at all.
	handler(nil, join(member))
	assert.Empty(t, fake.RoleCalls)

	// Only a deleted role and one the member already has.
	_, err := st.AddAutoRole(ctx, guildId, "gone")
	require.NoError(t, err)
	_, err = st.AddAutoRole(ctx, guildId, redRole.ID)
	require.NoError(t, err)

	handler(nil, join(member))
	assert.Empty(t, fake.RoleCalls)
}

func TestAutoRolesFailureIsNotRetried(t *testing.T) {
	st, fake := setup(t)
	member := fake.AddMember(guildId, userId)
	fake.Errors["SetMemberRoles"] = errors.New("missing permissions")

	_, err := st.AddAutoRole(context.Background(), guildId, redRole.ID)
	require.NoError(t, err)

	AutoRoleEventHandler(st, fake, slog.Default())(nil, join(member))
	assert.Len(t, fake.RoleCalls, 1)
	assert.Empty(t, fake.MemberRoles(guildId, userId))
}

func TestRoleDeleteCleansUp(t *testing.T) {
	st, fake := setup(t)
	ctx := context.Background()

	sent, err := fake.SendMessage("chan", panels.InitialMessage("Colors", nil))
	require.NoError(t, err)
	panel := &models.Panel{GuildId: guildId, ChannelId: "chan", MessageId: sent.ID, Title: "Colors"}
	require.NoError(t, st.CreatePanel(ctx, panel))

	for _, role := range []*discordgo.Role{redRole, blueRole} {
		require.NoError(t, st.AddButton(ctx, &models.PanelButton{
			PanelId:  panel.Id,
			CustomId: models.RoleButtonCustomId(guildId, panel.Id, role.ID),
			RoleId:   role.ID,
			Label:    role.Name,
			Style:    models.StylePrimary,
		}))
	}
	_, err = st.AddAutoRole(ctx, guildId, redRole.ID)
	require.NoError(t, err)

	RoleDeleteEventHandler(st, fake, slog.Default())(nil, &discordgo.GuildRoleDelete{GuildID: guildId, RoleID: redRole.ID})

	autoRoles, err := st.AutoRoles(ctx, guildId)
	require.NoError(t, err)
	assert.Empty(t, autoRoles)

	buttons, err := st.PanelButtons(ctx, panel.Id)
	require.NoError(t, err)
	require.Len(t, buttons, 1)
	assert.Equal(t, blueRole.ID, buttons[0].RoleId)

	require.Len(t, fake.Edits, 1)
	components := fake.Message(sent.ID).Components
	require.Len(t, components, 1)
	assert.Len(t, components[0].(discordgo.ActionsRow).Components, 1)
}

func TestRoleDeleteWithoutReferences(t *testing.T) {
	st, fake := setup(t)

	RoleDeleteEventHandler(st, fake, slog.Default())(nil, &discordgo.GuildRoleDelete{GuildID: guildId, RoleID: "nothing"})
	assert.Empty(t, fake.Edits)
}

func TestReadyRegistersOnce(t *testing.T) {
	var calls []string
	handler := ReadyEventHandler(slog.Default(), func(userId string) error {
		calls = append(calls, userId)
		return nil
	})

	ready := &discordgo.Ready{User: &discordgo.User{ID: "900", Username: "rolebot"}}
	handler(nil, ready)
	handler(nil, ready)

	assert.Equal(t, []string{"900"}, calls)

	// Registration disabled.
	ReadyEventHandler(slog.Default(), nil)(nil, ready)
}
