package permissions

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

const guildId = "100"

func botActor(roles []*discordgo.Role, held ...string) Actor {
	everyone := &discordgo.Role{ID: guildId, Name: "@everyone"}
	return Actor{
		GuildId:    guildId,
		OwnerId:    "1",
		UserId:     "900",
		RoleIds:    held,
		GuildRoles: append([]*discordgo.Role{everyone}, roles...),
	}
}

func TestCanManageRole(t *testing.T) {
	botRole := &discordgo.Role{ID: "210", Name: "Bot", Position: 5, Permissions: discordgo.PermissionManageRoles}
	plain := &discordgo.Role{ID: "220", Name: "Bot without perms", Position: 5}
	low := &discordgo.Role{ID: "230", Name: "Red", Position: 2}
	high := &discordgo.Role{ID: "240", Name: "Admin", Position: 9}
	managed := &discordgo.Role{ID: "250", Name: "Integration", Position: 9, Managed: true}
	roles := []*discordgo.Role{botRole, plain, low, high, managed}

	tests := []struct {
		name  string
		actor Actor
		role  *discordgo.Role
		want  error
	}{
		{"missing role", botActor(roles, "210"), nil, ErrRoleNotFound},
		{"managed is checked before anything else", botActor(roles), managed, ErrManagedRole},
		{"no manage roles", botActor(roles, "220"), low, ErrMissingPermission},
		{"target above bot", botActor(roles, "210"), high, ErrRoleHierarchy},
		{"target is bot top role", botActor(roles, "210"), botRole, ErrRoleHierarchy},
		{"ok", botActor(roles, "210"), low, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanManageRole(tt.actor, tt.role)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRejectionReasons(t *testing.T) {
	reasons := map[string]bool{}
	for _, rejection := range []*Rejection{ErrRoleNotFound, ErrManagedRole, ErrMissingPermission, ErrRoleHierarchy} {
		assert.NotEmpty(t, rejection.Reason)
		assert.Equal(t, rejection.Reason, rejection.Error())
		reasons[rejection.Reason] = true
	}
	assert.Len(t, reasons, 4)
}

func TestAdministratorImpliesManageRoles(t *testing.T) {
	admin := &discordgo.Role{ID: "210", Position: 3, Permissions: discordgo.PermissionAdministrator}
	target := &discordgo.Role{ID: "230", Position: 1}

	actor := botActor([]*discordgo.Role{admin, target}, "210")
	assert.True(t, actor.HasPermission(discordgo.PermissionManageRoles))
	assert.NoError(t, CanManageRole(actor, target))
}

func TestEveryonePermissionsApply(t *testing.T) {
	actor := botActor(nil)
	actor.GuildRoles[0].Permissions = discordgo.PermissionManageRoles
	assert.True(t, actor.HasPermission(discordgo.PermissionManageRoles))
	assert.Equal(t, guildId, actor.HighestRole().ID)
}

func TestOwnerHasAllPermissions(t *testing.T) {
	actor := botActor(nil)
	actor.UserId = actor.OwnerId
	assert.Equal(t, int64(discordgo.PermissionAll), actor.Permissions())
}

func TestComparePositions(t *testing.T) {
	older := &discordgo.Role{ID: "10", Position: 4}
	newer := &discordgo.Role{ID: "20", Position: 4}
	higher := &discordgo.Role{ID: "30", Position: 5}

	assert.Positive(t, ComparePositions(higher, older))
	assert.Negative(t, ComparePositions(older, higher))
	assert.Positive(t, ComparePositions(older, newer))
	assert.Negative(t, ComparePositions(newer, older))
	assert.Zero(t, ComparePositions(older, older))
	assert.Negative(t, ComparePositions(nil, older))
}

func TestHighestRoleUsesTieBreak(t *testing.T) {
	older := &discordgo.Role{ID: "10", Position: 4, Permissions: discordgo.PermissionManageRoles}
	newer := &discordgo.Role{ID: "20", Position: 4}

	actor := botActor([]*discordgo.Role{newer, older}, "10")
	assert.Equal(t, "10", actor.HighestRole().ID)

	// Equal position but newer id: the bot outranks it.
	assert.NoError(t, CanManageRole(actor, newer))
}

func TestNewActor(t *testing.T) {
	guild := &discordgo.Guild{ID: guildId, OwnerID: "1", Roles: []*discordgo.Role{{ID: guildId}}}
	member := &discordgo.Member{User: &discordgo.User{ID: "900"}, Roles: []string{"210"}}

	actor := NewActor(guild, member)
	assert.Equal(t, "900", actor.UserId)
	assert.Equal(t, []string{"210"}, actor.RoleIds)
	assert.Equal(t, "1", actor.OwnerId)

	assert.Nil(t, FindRole(guild.Roles, "nope"))
	assert.Equal(t, guildId, FindRole(guild.Roles, guildId).ID)
}
