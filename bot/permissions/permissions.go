package permissions

import (
	"slices"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// Rejection is why the bot may not touch a role. Reason is shown to users.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

var (
	ErrRoleNotFound      = &Rejection{Reason: "Role not found."}
	ErrManagedRole       = &Rejection{Reason: "This role is managed by an integration."}
	ErrMissingPermission = &Rejection{Reason: "Bot lacks the Manage Roles permission."}
	ErrRoleHierarchy     = &Rejection{Reason: "Role is higher or equal to the bot top role."}
)

// Actor is a guild member as seen by the guard: the guild's roles and owner
// plus the member's own role ids.
type Actor struct {
	GuildId    string
	OwnerId    string
	UserId     string
	RoleIds    []string
	GuildRoles []*discordgo.Role
}

func NewActor(guild *discordgo.Guild, member *discordgo.Member) Actor {
	actor := Actor{GuildId: guild.ID, OwnerId: guild.OwnerID, GuildRoles: guild.Roles}
	if member != nil {
		actor.RoleIds = member.Roles
		if member.User != nil {
			actor.UserId = member.User.ID
		}
	}
	return actor
}

// CanManageRole checks, in order, that the role exists, is not managed by an
// integration, that the actor has Manage Roles, and that the actor's top role
// is above it. The first failing check wins.
func CanManageRole(actor Actor, role *discordgo.Role) error {
	if role == nil {
		return ErrRoleNotFound
	}
	if role.Managed {
		return ErrManagedRole
	}
	if !actor.HasPermission(discordgo.PermissionManageRoles) {
		return ErrMissingPermission
	}
	if ComparePositions(actor.HighestRole(), role) <= 0 {
		return ErrRoleHierarchy
	}
	return nil
}

// Permissions is the guild-level permission set: @everyone plus every held role.
func (a Actor) Permissions() int64 {
	if a.UserId != "" && a.UserId == a.OwnerId {
		return discordgo.PermissionAll
	}

	var perms int64
	for _, role := range a.GuildRoles {
		if role.ID == a.GuildId || slices.Contains(a.RoleIds, role.ID) {
			perms |= role.Permissions
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return perms
}

func (a Actor) HasPermission(perm int64) bool {
	return a.Permissions()&perm == perm
}

// HighestRole returns the actor's top role, falling back to @everyone.
func (a Actor) HighestRole() *discordgo.Role {
	var highest *discordgo.Role
	for _, role := range a.GuildRoles {
		if role.ID != a.GuildId && !slices.Contains(a.RoleIds, role.ID) {
			continue
		}
		if highest == nil || ComparePositions(role, highest) > 0 {
			highest = role
		}
	}
	return highest
}

// FindRole returns the guild role with the given id, or nil.
func FindRole(roles []*discordgo.Role, roleId string) *discordgo.Role {
	for _, role := range roles {
		if role.ID == roleId {
			return role
		}
	}
	return nil
}

// ComparePositions orders roles the way Discord displays them. Equal
// positions are broken by id: the older (smaller) snowflake ranks higher.
// A nil role ranks below everything.
func ComparePositions(a, b *discordgo.Role) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Position != b.Position:
		return a.Position - b.Position
	}

	aId, aErr := strconv.ParseUint(a.ID, 10, 64)
	bId, bErr := strconv.ParseUint(b.ID, 10, 64)
	if aErr != nil || bErr != nil {
		return 0
	}
	switch {
	case aId < bId:
		return 1
	case aId > bId:
		return -1
	}
	return 0
}
