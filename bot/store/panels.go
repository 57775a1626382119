package store

import (
	"context"

	"gorm.io/gorm"

	"rolebot/bot/models"
)

func (s *Store) CreatePanel(ctx context.Context, panel *models.Panel) error {
	return s.db.WithContext(ctx).Omit("Buttons").Create(panel).Error
}

// Panel looks a panel up within a single guild.
func (s *Store) Panel(ctx context.Context, panelId uint, guildId string) (*models.Panel, error) {
	var panel models.Panel
	result := s.db.WithContext(ctx).
		Where("id = ? AND guild_id = ?", panelId, guildId).
		First(&panel)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &panel, nil
}

func (s *Store) Panels(ctx context.Context, guildId string) ([]models.Panel, error) {
	var panels []models.Panel
	result := s.db.WithContext(ctx).
		Where("guild_id = ?", guildId).
		Order("id DESC").
		Find(&panels)
	return panels, result.Error
}

func (s *Store) AllPanels(ctx context.Context) ([]models.Panel, error) {
	var panels []models.Panel
	result := s.db.WithContext(ctx).Order("id ASC").Find(&panels)
	return panels, result.Error
}

// DeletePanel removes a panel and its buttons in one transaction.
func (s *Store) DeletePanel(ctx context.Context, panelId uint, guildId string) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var panel models.Panel
		if err := tx.Where("id = ? AND guild_id = ?", panelId, guildId).First(&panel).Error; err != nil {
			return err
		}

		if err := tx.Where("panel_id = ?", panel.Id).Delete(&models.PanelButton{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&panel)
		deleted = result.RowsAffected > 0
		return result.Error
	})

	switch translate(err) {
	case nil:
		return deleted, nil
	case ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

// AddButton inserts a button. A second button with the same custom id
// returns ErrDuplicate.
func (s *Store) AddButton(ctx context.Context, button *models.PanelButton) error {
	if button.GroupName == "" {
		button.GroupName = models.DefaultGroupName
	}
	return translate(s.db.WithContext(ctx).Create(button).Error)
}

func (s *Store) RemoveButton(ctx context.Context, customId string) (bool, error) {
	result := s.db.WithContext(ctx).Where("custom_id = ?", customId).Delete(&models.PanelButton{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) CountButtons(ctx context.Context, panelId uint) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&models.PanelButton{}).Where("panel_id = ?", panelId).Count(&count)
	return count, result.Error
}

// PanelButtons returns a panel's buttons in render order.
func (s *Store) PanelButtons(ctx context.Context, panelId uint) ([]models.PanelButton, error) {
	var buttons []models.PanelButton
	result := s.db.WithContext(ctx).
		Where("panel_id = ?", panelId).
		Order("group_name ASC, position ASC, id ASC").
		Find(&buttons)
	return buttons, result.Error
}

func (s *Store) ButtonByCustomId(ctx context.Context, customId string) (*models.PanelButton, error) {
	var button models.PanelButton
	result := s.db.WithContext(ctx).Where("custom_id = ?", customId).First(&button)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &button, nil
}

// DeleteRoleReferences drops every auto-role binding and panel button of a
// guild that points at roleId. It returns the panels that lost buttons.
func (s *Store) DeleteRoleReferences(ctx context.Context, guildId, roleId string) ([]models.Panel, error) {
	var affected []models.Panel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guild_id = ? AND role_id = ?", guildId, roleId).Delete(&models.AutoRole{}).Error; err != nil {
			return err
		}

		var panelIds []uint
		err := tx.Model(&models.PanelButton{}).
			Joins("JOIN role_panels ON role_panels.id = role_panel_buttons.panel_id").
			Where("role_panels.guild_id = ? AND role_panel_buttons.role_id = ?", guildId, roleId).
			Distinct().
			Pluck("role_panel_buttons.panel_id", &panelIds).Error
		if err != nil {
			return err
		}
		if len(panelIds) == 0 {
			return nil
		}

		if err := tx.Where("id IN ?", panelIds).Order("id ASC").Find(&affected).Error; err != nil {
			return err
		}

		return tx.Where("role_id = ? AND panel_id IN ?", roleId, panelIds).Delete(&models.PanelButton{}).Error
	})
	if err != nil {
		return nil, err
	}
	return affected, nil
}
