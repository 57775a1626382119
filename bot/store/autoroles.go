package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rolebot/bot/models"
)

// AddAutoRole binds a role to a guild. Adding an existing binding is a no-op
// and reports created=false.
func (s *Store) AddAutoRole(ctx context.Context, guildId, roleId string) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.AutoRole{GuildId: guildId, RoleId: roleId})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) RemoveAutoRole(ctx context.Context, guildId, roleId string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("guild_id = ? AND role_id = ?", guildId, roleId).
		Delete(&models.AutoRole{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) AutoRoles(ctx context.Context, guildId string) ([]models.AutoRole, error) {
	var autoRoles []models.AutoRole
	result := s.db.WithContext(ctx).
		Where(&models.AutoRole{GuildId: guildId}).
		Order("created_at ASC, role_id ASC").
		Find(&autoRoles)
	return autoRoles, result.Error
}

// SetAutoRole replaces every binding of the guild with a single role.
func (s *Store) SetAutoRole(ctx context.Context, guildId, roleId string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guild_id = ?", guildId).Delete(&models.AutoRole{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.AutoRole{GuildId: guildId, RoleId: roleId}).Error
	})
}

func (s *Store) ClearAutoRoles(ctx context.Context, guildId string) (int64, error) {
	result := s.db.WithContext(ctx).Where("guild_id = ?", guildId).Delete(&models.AutoRole{})
	return result.RowsAffected, result.Error
}
