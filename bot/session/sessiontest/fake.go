// Package sessiontest provides an in-memory Discord for handler tests.
package sessiontest

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/bwmarrin/discordgo"

	"rolebot/bot/session"
)

var _ session.Session = (*Fake)(nil)

type RoleCall struct {
	GuildId string
	UserId  string
	RoleIds []string
	Reason  string
}

type Fake struct {
	mu sync.Mutex

	BotId    string
	Guilds   map[string]*discordgo.Guild
	Members  map[string]map[string]*discordgo.Member
	Messages map[string]*discordgo.Message

	Responses []*discordgo.InteractionResponse
	Followups []*discordgo.WebhookParams
	Edits     []*discordgo.MessageEdit
	Deleted   []string
	RoleCalls []RoleCall

	// Errors forces a method, by name, to fail.
	Errors map[string]error

	responded map[string]bool
	nextId    int
}

func New(botId string) *Fake {
	return &Fake{
		BotId:     botId,
		Guilds:    map[string]*discordgo.Guild{},
		Members:   map[string]map[string]*discordgo.Member{},
		Messages:  map[string]*discordgo.Message{},
		Errors:    map[string]error{},
		responded: map[string]bool{},
	}
}

// UnknownMessageError mimics the REST error Discord returns for a deleted message.
func UnknownMessageError() error {
	return &discordgo.RESTError{
		Response:     &http.Response{Status: "404 Not Found", StatusCode: http.StatusNotFound},
		ResponseBody: []byte(`{"message": "Unknown Message", "code": 10008}`),
		Message:      &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage, Message: "Unknown Message"},
	}
}

func (f *Fake) AddGuild(guildId, ownerId string, roles ...*discordgo.Role) *discordgo.Guild {
	f.mu.Lock()
	defer f.mu.Unlock()
	everyone := &discordgo.Role{ID: guildId, Name: "@everyone", Position: 0}
	guild := &discordgo.Guild{ID: guildId, OwnerID: ownerId, Roles: append([]*discordgo.Role{everyone}, roles...)}
	f.Guilds[guildId] = guild
	return guild
}

func (f *Fake) AddMember(guildId, userId string, roleIds ...string) *discordgo.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	member := &discordgo.Member{GuildID: guildId, User: &discordgo.User{ID: userId}, Roles: roleIds}
	if f.Members[guildId] == nil {
		f.Members[guildId] = map[string]*discordgo.Member{}
	}
	f.Members[guildId][userId] = member
	return member
}

// MemberRoles returns a copy of the member's current roles.
func (f *Fake) MemberRoles(guildId, userId string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	member, ok := f.Members[guildId][userId]
	if !ok {
		return nil
	}
	return slices.Clone(member.Roles)
}

// Contents lists every interaction reply and follow-up in order.
func (f *Fake) Contents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var contents []string
	for _, resp := range f.Responses {
		if resp.Data != nil {
			contents = append(contents, resp.Data.Content)
		}
	}
	for _, params := range f.Followups {
		contents = append(contents, params.Content)
	}
	return contents
}

func (f *Fake) LastContent() string {
	contents := f.Contents()
	if len(contents) == 0 {
		return ""
	}
	return contents[len(contents)-1]
}

func (f *Fake) fail(method string) error {
	return f.Errors[method]
}

func (f *Fake) BotUserId() string { return f.BotId }

func (f *Fake) Guild(guildId string) (*discordgo.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("Guild"); err != nil {
		return nil, err
	}
	guild, ok := f.Guilds[guildId]
	if !ok {
		return nil, fmt.Errorf("unknown guild %s", guildId)
	}
	return guild, nil
}

func (f *Fake) Member(guildId, userId string) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("Member"); err != nil {
		return nil, err
	}
	member, ok := f.Members[guildId][userId]
	if !ok {
		return nil, fmt.Errorf("unknown member %s", userId)
	}
	return member, nil
}

func (f *Fake) member(guildId, userId string) (*discordgo.Member, error) {
	member, ok := f.Members[guildId][userId]
	if !ok {
		return nil, fmt.Errorf("unknown member %s", userId)
	}
	return member, nil
}

func (f *Fake) SetMemberRoles(guildId, userId string, roleIds []string, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RoleCalls = append(f.RoleCalls, RoleCall{GuildId: guildId, UserId: userId, RoleIds: slices.Clone(roleIds), Reason: reason})
	if err := f.fail("SetMemberRoles"); err != nil {
		return err
	}
	member, err := f.member(guildId, userId)
	if err != nil {
		return err
	}
	member.Roles = slices.Clone(roleIds)
	return nil
}

func (f *Fake) AddMemberRole(guildId, userId, roleId, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RoleCalls = append(f.RoleCalls, RoleCall{GuildId: guildId, UserId: userId, RoleIds: []string{roleId}, Reason: reason})
	if err := f.fail("AddMemberRole"); err != nil {
		return err
	}
	member, err := f.member(guildId, userId)
	if err != nil {
		return err
	}
	if !slices.Contains(member.Roles, roleId) {
		member.Roles = append(member.Roles, roleId)
	}
	return nil
}

func (f *Fake) RemoveMemberRole(guildId, userId, roleId, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RoleCalls = append(f.RoleCalls, RoleCall{GuildId: guildId, UserId: userId, RoleIds: []string{roleId}, Reason: reason})
	if err := f.fail("RemoveMemberRole"); err != nil {
		return err
	}
	member, err := f.member(guildId, userId)
	if err != nil {
		return err
	}
	member.Roles = slices.DeleteFunc(member.Roles, func(id string) bool { return id == roleId })
	return nil
}

func (f *Fake) SendMessage(channelId string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SendMessage"); err != nil {
		return nil, err
	}
	f.nextId++
	message := &discordgo.Message{
		ID:         fmt.Sprintf("msg-%d", f.nextId),
		ChannelID:  channelId,
		Content:    data.Content,
		Embeds:     data.Embeds,
		Components: data.Components,
	}
	f.Messages[message.ID] = message
	return message, nil
}

func (f *Fake) EditMessage(edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edits = append(f.Edits, edit)
	if err := f.fail("EditMessage"); err != nil {
		return nil, err
	}
	message, ok := f.Messages[edit.ID]
	if !ok || message.ChannelID != edit.Channel {
		return nil, UnknownMessageError()
	}
	if edit.Embeds != nil {
		message.Embeds = *edit.Embeds
	}
	if edit.Components != nil {
		message.Components = *edit.Components
	}
	return message, nil
}

func (f *Fake) DeleteMessage(channelId, messageId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeleteMessage"); err != nil {
		return err
	}
	message, ok := f.Messages[messageId]
	if !ok || message.ChannelID != channelId {
		return UnknownMessageError()
	}
	delete(f.Messages, messageId)
	f.Deleted = append(f.Deleted, messageId)
	return nil
}

// Message returns a stored message, or nil.
func (f *Fake) Message(messageId string) *discordgo.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Messages[messageId]
}

func (f *Fake) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("InteractionRespond"); err != nil {
		return err
	}
	if f.responded[interaction.ID] {
		return errors.New("interaction has already been acknowledged")
	}
	f.responded[interaction.ID] = true
	f.Responses = append(f.Responses, resp)
	return nil
}

func (f *Fake) FollowupMessageCreate(interaction *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("FollowupMessageCreate"); err != nil {
		return nil, err
	}
	if !f.responded[interaction.ID] {
		return nil, errors.New("unknown webhook: interaction was never acknowledged")
	}
	f.Followups = append(f.Followups, params)
	return &discordgo.Message{Content: params.Content}, nil
}
