package tasks

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rolebot/bot/models"
	"rolebot/bot/panels"
	"rolebot/bot/session/sessiontest"
	"rolebot/bot/store"
	"rolebot/bot/store/storetest"
)

func createPanel(t *testing.T, st *store.Store, fake *sessiontest.Fake, guildId, roleId string) (*models.Panel, string) {
	t.Helper()
	ctx := context.Background()

	sent, err := fake.SendMessage("chan-"+guildId, panels.InitialMessage("Roles", nil))
	require.NoError(t, err)

	panel := &models.Panel{GuildId: guildId, ChannelId: "chan-" + guildId, MessageId: sent.ID, Title: "Roles"}
	require.NoError(t, st.CreatePanel(ctx, panel))
	require.NoError(t, st.AddButton(ctx, &models.PanelButton{
		PanelId:  panel.Id,
		CustomId: models.RoleButtonCustomId(guildId, panel.Id, roleId),
		RoleId:   roleId,
		Label:    "Role",
		Style:    models.StylePrimary,
	}))
	return panel, sent.ID
}

func TestReconcilePanels(t *testing.T) {
	st := storetest.Open(t)
	fake := sessiontest.New("bot")

	_, first := createPanel(t, st, fake, "100", "1")
	gone, _ := createPanel(t, st, fake, "200", "2")
	_, third := createPanel(t, st, fake, "300", "3")
	delete(fake.Messages, gone.MessageId)

	ReconcilePanels(st, fake, slog.Default(), time.Millisecond)()

	assert.Len(t, fake.Edits, 3)
	assert.Len(t, fake.Message(first).Components, 1)
	assert.Len(t, fake.Message(third).Components, 1)

	// Missing messages are only reported.
	_, err := st.Panel(context.Background(), gone.Id, "200")
	assert.NoError(t, err)
}

func TestReconcilePanelsKeepsGoingAfterErrors(t *testing.T) {
	st := storetest.Open(t)
	fake := sessiontest.New("bot")
	createPanel(t, st, fake, "100", "1")
	createPanel(t, st, fake, "200", "2")
	fake.Errors["EditMessage"] = errors.New("rate limited")

	ReconcilePanels(st, fake, slog.Default(), 0)()
	assert.Len(t, fake.Edits, 2)
}

func TestNewScheduler(t *testing.T) {
	scheduler, err := NewScheduler(time.Hour, func() {})
	require.NoError(t, err)
	assert.Len(t, scheduler.Jobs(), 1)

	_, err = NewScheduler(0, func() {})
	assert.Error(t, err)
}
