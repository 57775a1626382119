package panels

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"rolebot/bot/models"
	"rolebot/bot/session"
)

type ButtonLister interface {
	PanelButtons(ctx context.Context, panelId uint) ([]models.PanelButton, error)
}

// Refresh re-renders a panel from stored buttons and pushes it to the
// panel's message.
func Refresh(ctx context.Context, s session.Session, store ButtonLister, panel models.Panel) error {
	buttons, err := store.PanelButtons(ctx, panel.Id)
	if err != nil {
		return fmt.Errorf("failed to load buttons of panel %d: %w", panel.Id, err)
	}

	rendered := Render(panel, buttons)

	// An empty, non-nil slice clears the buttons of the message.
	components := rendered.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}

	edit := discordgo.NewMessageEdit(panel.ChannelId, panel.MessageId).SetEmbed(rendered.Embed)
	edit.Components = &components

	if _, err := s.EditMessage(edit); err != nil {
		return fmt.Errorf("failed to edit message of panel %d: %w", panel.Id, err)
	}
	return nil
}
