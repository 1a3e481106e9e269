package economy

import (
	"errors"

	"github.com/mireuk/gameledger/model"
	"gorm.io/gorm"
)

// AddStock merges count units of itemCode into charID's matching stack, or
// creates the stack. It must run inside the caller's transaction so it
// composes atomically with wallet and equipment changes.
func AddStock(tx *gorm.DB, charID int64, itemCode, count int) error {
	var inv model.Inventory
	err := tx.Where("character_id = ? AND item_code = ?", charID, itemCode).First(&inv).Error
	switch {
	case err == nil:
		if err := tx.Model(&inv).Update("quantity", inv.Quantity+count).Error; err != nil {
			return Internal(err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&model.Inventory{CharacterID: charID, ItemCode: itemCode, Quantity: count}).Error; err != nil {
			return Internal(err)
		}
		return nil
	default:
		return Internal(err)
	}
}

// RemoveStock decrements count units from charID's stack of itemCode.
// The row is deleted when its quantity reaches zero. Runs inside the
// caller's transaction.
func RemoveStock(tx *gorm.DB, charID int64, itemCode, count int) error {
	var inv model.Inventory
	if err := tx.Where("character_id = ? AND item_code = ?", charID, itemCode).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInventoryNotFound
		}
		return Internal(err)
	}
	if inv.Quantity < count {
		return ErrInsufficientStock
	}
	if inv.Quantity == count {
		if err := tx.Delete(&inv).Error; err != nil {
			return Internal(err)
		}
		return nil
	}
	if err := tx.Model(&inv).Update("quantity", inv.Quantity-count).Error; err != nil {
		return Internal(err)
	}
	return nil
}

// ListStock returns charID's inventory rows ordered by item code.
func ListStock(tx *gorm.DB, charID int64) ([]model.Inventory, error) {
	var rows []model.Inventory
	if err := tx.Where("character_id = ?", charID).Order("item_code asc").Find(&rows).Error; err != nil {
		return nil, Internal(err)
	}
	return rows, nil
}
