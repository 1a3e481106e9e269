package economy

import (
	"errors"

	"github.com/mireuk/gameledger/model"
	"gorm.io/gorm"
)

// EquipItem records itemCode as worn by charID. It only manages set
// membership; moving the unit out of the inventory and applying the stat
// modifier is the operation layer's job. Runs inside the caller's
// transaction.
func EquipItem(tx *gorm.DB, charID int64, itemCode int) error {
	var existing model.Equipment
	err := tx.Where("character_id = ? AND item_code = ?", charID, itemCode).First(&existing).Error
	if err == nil {
		return ErrAlreadyEquipped
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Internal(err)
	}
	if err := tx.Create(&model.Equipment{CharacterID: charID, ItemCode: itemCode}).Error; err != nil {
		return Internal(err)
	}
	return nil
}

// UnequipItem removes itemCode from charID's worn set. Runs inside the
// caller's transaction.
func UnequipItem(tx *gorm.DB, charID int64, itemCode int) error {
	var eq model.Equipment
	if err := tx.Where("character_id = ? AND item_code = ?", charID, itemCode).First(&eq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEquipped
		}
		return Internal(err)
	}
	if err := tx.Delete(&eq).Error; err != nil {
		return Internal(err)
	}
	return nil
}

// ListEquipment returns charID's equipment rows ordered by item code.
func ListEquipment(tx *gorm.DB, charID int64) ([]model.Equipment, error) {
	var rows []model.Equipment
	if err := tx.Where("character_id = ?", charID).Order("item_code asc").Find(&rows).Error; err != nil {
		return nil, Internal(err)
	}
	return rows, nil
}
