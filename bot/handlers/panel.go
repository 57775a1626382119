package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"

	"rolebot/bot/models"
	"rolebot/bot/panels"
	"rolebot/bot/responses"
	"rolebot/bot/session"
	"rolebot/bot/store"
	"rolebot/utils"
)

const panelNotFound = "Panel not found for this guild."

func panelCommandHandler(st *store.Store, sess session.Session, log *slog.Logger) CommandHandler {
	return func(ctx context.Context, r *responses.Responder, i *discordgo.InteractionCreate) error {
		name, options := subcommand(i)

		switch name {
		case "create":
			return createPanel(ctx, st, sess, r, i, options)
		case "list":
			return listPanels(ctx, st, r, i)
		}

		// Every other subcommand targets one panel of this guild.
		panelId, _ := intOption(options, "panel_id")
		if panelId <= 0 {
			return r.Reply(panelNotFound)
		}

		panel, err := st.Panel(ctx, uint(panelId), i.GuildID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return r.Reply(panelNotFound)
		case err != nil:
			return fmt.Errorf("failed to load panel %d: %w", panelId, err)
		}

		switch name {
		case "addbutton":
			return addButton(ctx, st, sess, r, i, panel, options)
		case "removebutton":
			return removeButton(ctx, st, sess, r, i, panel, options)
		case "refresh":
			if err := panels.Refresh(ctx, sess, st, *panel); err != nil {
				return err
			}
			return r.Reply("Panel refreshed.")
		case "buttons":
			return listButtons(ctx, st, r, panel)
		case "delete":
			return deletePanel(ctx, st, sess, log, r, panel)
		}

		return nil
	}
}

func createPanel(ctx context.Context, st *store.Store, sess session.Session, r *responses.Responder, i *discordgo.InteractionCreate, options optionMap) error {
	channel, ok := channelOption(i, options, "channel")
	if !ok {
		return r.Reply("Please provide a channel.")
	}
	title, _ := stringOption(options, "title")
	title = strings.TrimSpace(title)
	if title == "" {
		return r.Reply("Please provide a title.")
	}

	var description *string
	if value, ok := stringOption(options, "description"); ok && strings.TrimSpace(value) != "" {
		description = &value
	}

	message, err := sess.SendMessage(channel.ID, panels.InitialMessage(title, description))
	if err != nil {
		return fmt.Errorf("failed to send panel message in %s: %w", channel.ID, err)
	}

	panel := models.Panel{
		GuildId:     i.GuildID,
		ChannelId:   channel.ID,
		MessageId:   message.ID,
		Title:       title,
		Description: description,
	}
	if err := st.CreatePanel(ctx, &panel); err != nil {
		return fmt.Errorf("failed to store panel: %w", err)
	}

	return r.Reply(fmt.Sprintf("Panel created. ID: **%d** (message sent in %s).", panel.Id, utils.ChannelMention(channel.ID)))
}

func listPanels(ctx context.Context, st *store.Store, r *responses.Responder, i *discordgo.InteractionCreate) error {
	guildPanels, err := st.Panels(ctx, i.GuildID)
	switch {
	case err != nil:
		return fmt.Errorf("failed to list panels: %w", err)
	case len(guildPanels) == 0:
		return r.Reply("No panels configured.")
	}

	lines := make([]string, 0, len(guildPanels))
	for _, panel := range guildPanels {
		lines = append(lines, fmt.Sprintf("• ID **%d**: **%s** in %s (%s)",
			panel.Id, panel.Title, utils.ChannelMention(panel.ChannelId), utils.MessageURL(panel.GuildId, panel.ChannelId, panel.MessageId)))
	}
	return r.Reply(utils.Truncate(strings.Join(lines, "\n"), maxContentLength))
}

func addButton(ctx context.Context, st *store.Store, sess session.Session, r *responses.Responder, i *discordgo.InteractionCreate, panel *models.Panel, options optionMap) error {
	role, ok := roleOption(i, options, "role")
	if !ok {
		return r.Reply("Please provide a role.")
	}
	label, _ := stringOption(options, "label")
	label = strings.TrimSpace(label)
	if label == "" {
		return r.Reply("Please provide a label.")
	}

	styleName, _ := stringOption(options, "style")
	style, err := models.ParseButtonStyle(styleName)
	if err != nil {
		return r.Reply(fmt.Sprintf("Unknown style. Use one of: %s.", strings.Join(models.StyleNames, ", ")))
	}

	count, err := st.CountButtons(ctx, panel.Id)
	switch {
	case err != nil:
		return fmt.Errorf("failed to count buttons of panel %d: %w", panel.Id, err)
	case count >= models.MaxButtonsPerMessage:
		return r.Reply(fmt.Sprintf("This panel already has %d buttons (Discord limit).", models.MaxButtonsPerMessage))
	}

	button := models.PanelButton{
		PanelId:   panel.Id,
		CustomId:  models.RoleButtonCustomId(i.GuildID, panel.Id, role.ID),
		RoleId:    role.ID,
		Label:     label,
		Style:     style,
		GroupName: models.DefaultGroupName,
	}
	if group, ok := stringOption(options, "group"); ok && strings.TrimSpace(group) != "" {
		button.GroupName = strings.TrimSpace(group)
	}
	if position, ok := intOption(options, "position"); ok {
		button.Position = int(position)
	}
	if emoji, ok := stringOption(options, "emoji"); ok && strings.TrimSpace(emoji) != "" {
		emoji = strings.TrimSpace(emoji)
		if !panels.ValidEmoji(emoji) {
			return r.Reply("Invalid emoji. Use a unicode emoji or a custom emoji like <:name:id>.")
		}
		button.Emoji = &emoji
	}

	err = st.AddButton(ctx, &button)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return r.Reply("Failed to add button (this role already has a button on this panel).")
	case err != nil:
		return fmt.Errorf("failed to add button to panel %d: %w", panel.Id, err)
	}

	if err := panels.Refresh(ctx, sess, st, *panel); err != nil {
		return err
	}

	return r.Reply(fmt.Sprintf("Button added for role: **%s** (group: %s)", utils.RoleName(role), button.GroupName))
}

func removeButton(ctx context.Context, st *store.Store, sess session.Session, r *responses.Responder, i *discordgo.InteractionCreate, panel *models.Panel, options optionMap) error {
	role, ok := roleOption(i, options, "role")
	if !ok {
		return r.Reply("Please provide a role.")
	}

	removed, err := st.RemoveButton(ctx, models.RoleButtonCustomId(i.GuildID, panel.Id, role.ID))
	switch {
	case err != nil:
		return fmt.Errorf("failed to remove button from panel %d: %w", panel.Id, err)
	case !removed:
		return r.Reply("Button not found for that role in this panel.")
	}

	if err := panels.Refresh(ctx, sess, st, *panel); err != nil {
		return err
	}

	return r.Reply(fmt.Sprintf("Button removed for role: **%s**", utils.RoleName(role)))
}

func listButtons(ctx context.Context, st *store.Store, r *responses.Responder, panel *models.Panel) error {
	buttons, err := st.PanelButtons(ctx, panel.Id)
	switch {
	case err != nil:
		return fmt.Errorf("failed to list buttons of panel %d: %w", panel.Id, err)
	case len(buttons) == 0:
		return r.Reply(fmt.Sprintf("Panel **%d** has no buttons.", panel.Id))
	}

	lines := make([]string, 0, len(buttons)+1)
	lines = append(lines, fmt.Sprintf("Buttons of panel **%d** (%s):", panel.Id, panel.Title))
	for _, b := range buttons {
		label := b.Label
		if b.Emoji != nil {
			label = *b.Emoji + " " + label
		}
		lines = append(lines, fmt.Sprintf("• [%s] %s → %s (%s, position %d)",
			b.GroupName, label, utils.RoleMention(b.RoleId), b.Style, b.Position))
	}
	return r.Reply(utils.Truncate(strings.Join(lines, "\n"), maxContentLength))
}

func deletePanel(ctx context.Context, st *store.Store, sess session.Session, log *slog.Logger, r *responses.Responder, panel *models.Panel) error {
	// The message may already be gone or the bot may have lost access to the channel.
	if err := sess.DeleteMessage(panel.ChannelId, panel.MessageId); err != nil {
		log.WarnContext(ctx, "Could not delete panel message", "panel_id", panel.Id, "channel_id", panel.ChannelId, tint.Err(err))
	}

	if _, err := st.DeletePanel(ctx, panel.Id, panel.GuildId); err != nil {
		return fmt.Errorf("failed to delete panel %d: %w", panel.Id, err)
	}

	return r.Reply(fmt.Sprintf("Panel **%d** deleted.", panel.Id))
}
