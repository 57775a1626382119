package session

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

// Session is the part of Discord the bot talks to. Discord wraps a live
// discordgo session; tests use an in-memory fake.
type Session interface {
	BotUserId() string

	// Guild returns the guild including its roles.
	Guild(guildId string) (*discordgo.Guild, error)
	Member(guildId, userId string) (*discordgo.Member, error)

	// SetMemberRoles replaces the member's role set in one request.
	SetMemberRoles(guildId, userId string, roleIds []string, reason string) error
	AddMemberRole(guildId, userId, roleId, reason string) error
	RemoveMemberRole(guildId, userId, roleId, reason string) error

	SendMessage(channelId string, data *discordgo.MessageSend) (*discordgo.Message, error)
	EditMessage(edit *discordgo.MessageEdit) (*discordgo.Message, error)
	DeleteMessage(channelId, messageId string) error

	// InteractionRespond sends the initial response. Discord accepts one per
	// interaction; anything after it has to be a follow-up.
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	FollowupMessageCreate(interaction *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error)
}

type Discord struct {
	s *discordgo.Session
}

func New(s *discordgo.Session) *Discord {
	return &Discord{s: s}
}

func (d *Discord) BotUserId() string {
	if d.s.State == nil || d.s.State.User == nil {
		return ""
	}
	return d.s.State.User.ID
}

func (d *Discord) Guild(guildId string) (*discordgo.Guild, error) {
	if d.s.State != nil {
		if guild, err := d.s.State.Guild(guildId); err == nil && len(guild.Roles) > 0 {
			return guild, nil
		}
	}
	return d.s.Guild(guildId)
}

func (d *Discord) Member(guildId, userId string) (*discordgo.Member, error) {
	if d.s.State != nil {
		if member, err := d.s.State.Member(guildId, userId); err == nil {
			return member, nil
		}
	}
	return d.s.GuildMember(guildId, userId)
}

func (d *Discord) SetMemberRoles(guildId, userId string, roleIds []string, reason string) error {
	_, err := d.s.GuildMemberEdit(guildId, userId, &discordgo.GuildMemberParams{Roles: &roleIds}, discordgo.WithAuditLogReason(reason))
	return err
}

func (d *Discord) AddMemberRole(guildId, userId, roleId, reason string) error {
	return d.s.GuildMemberRoleAdd(guildId, userId, roleId, discordgo.WithAuditLogReason(reason))
}

func (d *Discord) RemoveMemberRole(guildId, userId, roleId, reason string) error {
	return d.s.GuildMemberRoleRemove(guildId, userId, roleId, discordgo.WithAuditLogReason(reason))
}

func (d *Discord) SendMessage(channelId string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	return d.s.ChannelMessageSendComplex(channelId, data)
}

func (d *Discord) EditMessage(edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	return d.s.ChannelMessageEditComplex(edit)
}

func (d *Discord) DeleteMessage(channelId, messageId string) error {
	return d.s.ChannelMessageDelete(channelId, messageId)
}

func (d *Discord) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return d.s.InteractionRespond(interaction, resp)
}

func (d *Discord) FollowupMessageCreate(interaction *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	return d.s.FollowupMessageCreate(interaction, true, params)
}

// IsUnknownResource reports whether err is Discord saying the message or
// channel no longer exists.
func IsUnknownResource(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return false
	}
	switch restErr.Message.Code {
	case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
		return true
	}
	return false
}
