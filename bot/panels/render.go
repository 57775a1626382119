package panels

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/bwmarrin/discordgo"

	"rolebot/bot/models"
)

// Message is a rendered panel, ready to be sent or edited in.
type Message struct {
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

type group struct {
	name    string
	buttons []models.PanelButton
}

// Render builds the message for a panel. Buttons past the 25th, and any that
// would need a sixth row, are left out. The same buttons always render the
// same way.
func Render(panel models.Panel, buttons []models.PanelButton) Message {
	buttons = slices.Clone(buttons)
	slices.SortStableFunc(buttons, func(a, b models.PanelButton) int {
		return cmp.Or(
			cmp.Compare(a.GroupName, b.GroupName),
			cmp.Compare(a.Position, b.Position),
			cmp.Compare(a.Id, b.Id),
		)
	})
	if len(buttons) > models.MaxButtonsPerMessage {
		buttons = buttons[:models.MaxButtonsPerMessage]
	}

	groups := groupButtons(buttons)

	embed := &discordgo.MessageEmbed{Title: panel.Title}
	if panel.Description != nil {
		embed.Description = *panel.Description
	}
	if len(groups) > 1 {
		for _, g := range groups {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  g.name,
				Value: summary(g.buttons),
			})
		}
	}

	return Message{Embed: embed, Components: packRows(groups)}
}

// groupButtons partitions buttons by group name in first-seen order.
func groupButtons(buttons []models.PanelButton) []group {
	var groups []group
	index := map[string]int{}
	for _, b := range buttons {
		i, ok := index[b.GroupName]
		if !ok {
			i = len(groups)
			index[b.GroupName] = i
			groups = append(groups, group{name: b.GroupName})
		}
		groups[i].buttons = append(groups[i].buttons, b)
	}
	return groups
}

func summary(buttons []models.PanelButton) string {
	labels := make([]string, 0, len(buttons))
	for _, b := range buttons {
		if b.Emoji != nil && *b.Emoji != "" {
			labels = append(labels, *b.Emoji+" "+b.Label)
		} else {
			labels = append(labels, b.Label)
		}
	}
	if len(labels) == 0 {
		return "-"
	}
	return strings.Join(labels, " • ")
}

// packRows lays groups out in rows of up to five buttons. A group always
// starts a new row and packing stops at five rows.
func packRows(groups []group) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent

	for _, g := range groups {
		var row []discordgo.MessageComponent
		for _, b := range g.buttons {
			if len(row) == models.MaxButtonsPerRow {
				rows = append(rows, discordgo.ActionsRow{Components: row})
				row = nil
				if len(rows) == models.MaxRowsPerMessage {
					return rows
				}
			}
			row = append(row, button(b))
		}
		if len(row) > 0 {
			rows = append(rows, discordgo.ActionsRow{Components: row})
		}
		if len(rows) == models.MaxRowsPerMessage {
			break
		}
	}

	return rows
}

func button(b models.PanelButton) discordgo.Button {
	btn := discordgo.Button{
		CustomID: b.CustomId,
		Label:    b.Label,
		Style:    b.Style.Discord(),
	}
	if b.Emoji != nil {
		btn.Emoji = ParseEmoji(*b.Emoji)
	}
	return btn
}

var customEmoji = regexp.MustCompile(`^<(a?):(\w+):(\d+)>$`)

// ParseEmoji accepts a unicode emoji or a custom emoji mention such as
// <:name:id> or <a:name:id>. Anything else yields nil, so a bad value never
// breaks the panel message.
func ParseEmoji(emoji string) *discordgo.ComponentEmoji {
	emoji = strings.TrimSpace(emoji)
	if m := customEmoji.FindStringSubmatch(emoji); m != nil {
		return &discordgo.ComponentEmoji{Name: m[2], ID: m[3], Animated: m[1] == "a"}
	}
	if !isUnicodeEmoji(emoji) {
		return nil
	}
	return &discordgo.ComponentEmoji{Name: emoji}
}

// ValidEmoji reports whether ParseEmoji understands emoji.
func ValidEmoji(emoji string) bool {
	return ParseEmoji(emoji) != nil
}

// isUnicodeEmoji needs at least one symbol or keycap mark and no letters or
// spaces.
func isUnicodeEmoji(s string) bool {
	symbol := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsSpace(r):
			return false
		case unicode.Is(unicode.So, r), unicode.Is(unicode.Me, r):
			symbol = true
		}
	}
	return symbol
}

// InitialMessage is what a freshly created panel shows before any button
// is added.
func InitialMessage(title string, description *string) *discordgo.MessageSend {
	rendered := Render(models.Panel{Title: title, Description: description}, nil)
	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{rendered.Embed},
		Components: []discordgo.MessageComponent{},
	}
}
