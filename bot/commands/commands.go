package commands

import (
	"github.com/bwmarrin/discordgo"

	"rolebot/bot/models"
)

var noDM = false
var manageRolesPermission int64 = discordgo.PermissionManageRoles
var minPosition float64 = 0

const maxPosition = 999

var Commands = []*discordgo.ApplicationCommand{
	&autoroleCommand,
	&panelCommand,
}

func roleOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "role",
		Description: description,
		Required:    true,
	}
}

var panelIdOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionInteger,
	Name:        "panel_id",
	Description: "Panel ID",
	Required:    true,
}

var autoroleCommand = discordgo.ApplicationCommand{
	Name:                     "autorole",
	Description:              "Configure roles given to members when they join",
	DMPermission:             &noDM,
	DefaultMemberPermissions: &manageRolesPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "add",
			Description: "Add a role given on join",
			Options:     []*discordgo.ApplicationCommandOption{roleOption("Role to assign on join")},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "remove",
			Description: "Stop giving a role on join",
			Options:     []*discordgo.ApplicationCommandOption{roleOption("Role to stop assigning")},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List roles given on join",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "set",
			Description: "Replace every auto role with a single role",
			Options:     []*discordgo.ApplicationCommandOption{roleOption("Role to assign on join")},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "clear",
			Description: "Disable auto roles",
		},
	},
}

func styleChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.StyleNames))
	for _, name := range models.StyleNames {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}
	return choices
}

var panelCommand = discordgo.ApplicationCommand{
	Name:                     "panel",
	Description:              "Manage role panels with buttons",
	DMPermission:             &noDM,
	DefaultMemberPermissions: &manageRolesPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "create",
			Description: "Create a new role panel message",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Target channel",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "Panel title",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "description",
					Description: "Panel description",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "addbutton",
			Description: "Add a role button to an existing panel",
			Options: []*discordgo.ApplicationCommandOption{
				panelIdOption,
				roleOption("Role to toggle"),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "label",
					Description: "Button label",
					Required:    true,
					MaxLength:   80,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "style",
					Description: "Button style",
					Required:    true,
					Choices:     styleChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "group",
					Description: "Group name, used for visual grouping",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "position",
					Description: "Ordering inside the group (0..999), lower first",
					MinValue:    &minPosition,
					MaxValue:    maxPosition,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "emoji",
					Description: "Emoji, e.g. 🔒",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "removebutton",
			Description: "Remove a role button from a panel",
			Options: []*discordgo.ApplicationCommandOption{
				panelIdOption,
				roleOption("Role to remove from the panel"),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "refresh",
			Description: "Rebuild and update the panel message from the database",
			Options:     []*discordgo.ApplicationCommandOption{panelIdOption},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List panels in this server",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "buttons",
			Description: "List the buttons of a panel",
			Options:     []*discordgo.ApplicationCommandOption{panelIdOption},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "delete",
			Description: "Delete a panel and try to delete its message",
			Options:     []*discordgo.ApplicationCommandOption{panelIdOption},
		},
	},
}
