package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	DefaultGroupName = "General"

	// Discord limits for a single message
	MaxButtonsPerMessage = 25
	MaxButtonsPerRow     = 5
	MaxRowsPerMessage    = 5

	RoleButtonTag = "rolebtn"
)

type AutoRole struct {
	GuildId   string    `gorm:"primaryKey;index:idx_guild_autoroles_guild"`
	RoleId    string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}

func (AutoRole) TableName() string { return "guild_autoroles" }

type Panel struct {
	Id          uint   `gorm:"primaryKey;autoIncrement"`
	GuildId     string `gorm:"not null;index"`
	ChannelId   string `gorm:"not null"`
	MessageId   string `gorm:"not null"`
	Title       string `gorm:"not null"`
	Description *string

	Buttons []PanelButton `gorm:"foreignKey:PanelId;constraint:OnDelete:CASCADE"`
}

func (Panel) TableName() string { return "role_panels" }

type PanelButton struct {
	Id        uint        `gorm:"primaryKey;autoIncrement"`
	PanelId   uint        `gorm:"not null;index"`
	CustomId  string      `gorm:"not null;uniqueIndex"`
	RoleId    string      `gorm:"not null"`
	Label     string      `gorm:"not null"`
	Style     ButtonStyle `gorm:"not null"`
	Emoji     *string
	GroupName string `gorm:"not null;default:General"`
	Position  int    `gorm:"not null;default:0"`
}

func (PanelButton) TableName() string { return "role_panel_buttons" }

// ButtonStyle holds the Discord integer for a button style and is stored as-is.
type ButtonStyle int

const (
	StylePrimary   = ButtonStyle(discordgo.PrimaryButton)
	StyleSecondary = ButtonStyle(discordgo.SecondaryButton)
	StyleSuccess   = ButtonStyle(discordgo.SuccessButton)
	StyleDanger    = ButtonStyle(discordgo.DangerButton)
)

var styleNames = map[string]ButtonStyle{
	"primary":   StylePrimary,
	"secondary": StyleSecondary,
	"success":   StyleSuccess,
	"danger":    StyleDanger,
}

// StyleNames lists the accepted style names in display order.
var StyleNames = []string{"primary", "secondary", "success", "danger"}

func ParseButtonStyle(name string) (ButtonStyle, error) {
	style, ok := styleNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown button style %q", name)
	}
	return style, nil
}

func (s ButtonStyle) String() string {
	for name, style := range styleNames {
		if style == s {
			return name
		}
	}
	return strconv.Itoa(int(s))
}

func (s ButtonStyle) Discord() discordgo.ButtonStyle {
	return discordgo.ButtonStyle(s)
}

// RoleButtonCustomId returns the interaction token for a role button.
// One (guild, panel, role) triple maps to exactly one token.
func RoleButtonCustomId(guildId string, panelId uint, roleId string) string {
	return fmt.Sprintf("%s:%s:%d:%s", RoleButtonTag, guildId, panelId, roleId)
}

type RoleButtonRef struct {
	GuildId string
	PanelId uint
	RoleId  string
}

func ParseRoleButtonCustomId(customId string) (RoleButtonRef, error) {
	parts := strings.Split(customId, ":")
	if len(parts) != 4 || parts[0] != RoleButtonTag {
		return RoleButtonRef{}, fmt.Errorf("not a role button custom id: %q", customId)
	}

	panelId, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return RoleButtonRef{}, fmt.Errorf("invalid panel id in custom id %q: %w", customId, err)
	}

	if parts[1] == "" || parts[3] == "" {
		return RoleButtonRef{}, fmt.Errorf("incomplete custom id: %q", customId)
	}

	return RoleButtonRef{GuildId: parts[1], PanelId: uint(panelId), RoleId: parts[3]}, nil
}

// CustomIdTag returns the prefix used to route component interactions.
func CustomIdTag(customId string) string {
	tag, _, _ := strings.Cut(customId, ":")
	return tag
}
