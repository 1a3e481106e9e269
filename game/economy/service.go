package economy

import (
	"context"
	"errors"

	"github.com/mireuk/gameledger/cache"
	"github.com/mireuk/gameledger/config"
	"github.com/mireuk/gameledger/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sellBackRatePercent is the fixed fraction of the catalog price credited
// when selling an item back.
const sellBackRatePercent = 60

// SellLine is one (item, count) entry of a batch sale.
type SellLine struct {
	ItemCode int `json:"item_code" binding:"required"`
	Count    int `json:"count" binding:"required,min=1"`
}

// Service orchestrates wallet, inventory, and equipment mutations.
// Every operation runs as one database transaction under a per-character
// advisory lock, and reads its character snapshot inside that transaction,
// so concurrent operations on the same character serialize instead of
// validating against stale state.
type Service struct {
	db     *gorm.DB
	cache  cache.Cache
	game   config.GameConfig
	logger *zap.Logger
}

// NewService creates an economy Service.
func NewService(db *gorm.DB, c cache.Cache, game config.GameConfig, logger *zap.Logger) *Service {
	if game.EarnAmount <= 0 {
		game.EarnAmount = 100
	}
	return &Service{db: db, cache: c, game: game, logger: logger}
}

func findItem(tx *gorm.DB, itemCode int) (*model.Item, error) {
	var item model.Item
	if err := tx.Where("code = ?", itemCode).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, Internal(err)
	}
	return &item, nil
}

func findCharacter(tx *gorm.DB, charID int64) (*model.Character, error) {
	var char model.Character
	if err := tx.Where("id = ?", charID).First(&char).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, Internal(err)
	}
	return &char, nil
}

// ApplyStatDelta applies an item's (health, power) modifier to a character's
// stored derived stats. sign is +1 on equip and -1 on unequip; catalog edits
// pass the modifier difference with sign +1. Shared by every caller so the
// arithmetic cannot diverge.
func ApplyStatDelta(char *model.Character, health, power, sign int) {
	char.Health += sign * health
	char.Power += sign * power
}

func saveStats(tx *gorm.DB, char *model.Character) error {
	err := tx.Model(&model.Character{}).Where("id = ?", char.ID).
		Updates(map[string]interface{}{"health": char.Health, "power": char.Power}).Error
	if err != nil {
		return Internal(err)
	}
	return nil
}

// Equip moves one unit of itemCode from charID's inventory into the worn
// set and applies the item's stat modifier. The item lock keeps the
// modifier read consistent with any concurrent catalog edit.
func (s *Service) Equip(ctx context.Context, charID int64, itemCode int) (*model.Character, error) {
	var out *model.Character
	err := WithCharacterLock(ctx, s.cache, charID, func() error {
		return WithItemLock(ctx, s.cache, itemCode, func() error {
			return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				item, err := findItem(tx, itemCode)
				if err != nil {
					return err
				}
				char, err := findCharacter(tx, charID)
				if err != nil {
					return err
				}
				if err := EquipItem(tx, charID, itemCode); err != nil {
					return err
				}
				if err := RemoveStock(tx, charID, itemCode, 1); err != nil {
					if errors.Is(err, ErrInventoryNotFound) {
						return ErrNotInInventory
					}
					return err
				}
				ApplyStatDelta(char, item.StatHealth, item.StatPower, +1)
				if err := saveStats(tx, char); err != nil {
					return err
				}
				out = char
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("item equipped",
		zap.Int64("character_id", charID), zap.Int("item_code", itemCode))
	return out, nil
}

// Unequip removes itemCode from charID's worn set, returns one unit to the
// inventory, and reverses the item's stat modifier.
func (s *Service) Unequip(ctx context.Context, charID int64, itemCode int) (*model.Character, error) {
	var out *model.Character
	err := WithCharacterLock(ctx, s.cache, charID, func() error {
		return WithItemLock(ctx, s.cache, itemCode, func() error {
			return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				item, err := findItem(tx, itemCode)
				if err != nil {
					return err
				}
				char, err := findCharacter(tx, charID)
				if err != nil {
					return err
				}
				if err := UnequipItem(tx, charID, itemCode); err != nil {
					return err
				}
				if err := AddStock(tx, charID, itemCode, 1); err != nil {
					return err
				}
				ApplyStatDelta(char, item.StatHealth, item.StatPower, -1)
				if err := saveStats(tx, char); err != nil {
					return err
				}
				out = char
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("item unequipped",
		zap.Int64("character_id", charID), zap.Int("item_code", itemCode))
	return out, nil
}

// Buy debits charID's wallet by price*count and adds count units of
// itemCode to the inventory. Returns the new balance and the total spent.
func (s *Service) Buy(ctx context.Context, charID int64, itemCode, count int) (balance, total int64, err error) {
	err = WithCharacterLock(ctx, s.cache, charID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			item, err := findItem(tx, itemCode)
			if err != nil {
				return err
			}
			char, err := findCharacter(tx, charID)
			if err != nil {
				return err
			}
			total = item.Price * int64(count)
			if char.Wallet < total {
				return ErrInsufficientFunds
			}
			balance = char.Wallet - total
			if err := tx.Model(&model.Character{}).Where("id = ?", charID).
				Update("wallet", balance).Error; err != nil {
				return Internal(err)
			}
			return AddStock(tx, charID, itemCode, count)
		})
	})
	if err != nil {
		return 0, 0, err
	}
	s.logger.Info("items bought",
		zap.Int64("character_id", charID), zap.Int("item_code", itemCode),
		zap.Int("count", count), zap.Int64("spent", total))
	return balance, total, nil
}

// Sell removes stock for every line and credits the wallet once with the
// summed buy-back value (60% of catalog price, floored per line). The
// whole batch is validated before any row changes: one bad line aborts
// the entire sale.
func (s *Service) Sell(ctx context.Context, charID int64, lines []SellLine) (balance, earned int64, err error) {
	err = WithCharacterLock(ctx, s.cache, charID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			char, err := findCharacter(tx, charID)
			if err != nil {
				return err
			}

			// Validation phase. held tracks remaining quantity per code so
			// duplicate lines for the same item are checked cumulatively.
			held := make(map[int]int)
			earned = 0
			for _, ln := range lines {
				item, err := findItem(tx, ln.ItemCode)
				if err != nil {
					return err
				}
				if _, ok := held[ln.ItemCode]; !ok {
					var inv model.Inventory
					if err := tx.Where("character_id = ? AND item_code = ?", charID, ln.ItemCode).
						First(&inv).Error; err != nil {
						if errors.Is(err, gorm.ErrRecordNotFound) {
							return ErrInventoryNotFound
						}
						return Internal(err)
					}
					held[ln.ItemCode] = inv.Quantity
				}
				held[ln.ItemCode] -= ln.Count
				if held[ln.ItemCode] < 0 {
					return ErrInsufficientStock
				}
				earned += item.Price * int64(ln.Count) * sellBackRatePercent / 100
			}

			// Mutation phase.
			for _, ln := range lines {
				if err := RemoveStock(tx, charID, ln.ItemCode, ln.Count); err != nil {
					return err
				}
			}
			balance = char.Wallet + earned
			if err := tx.Model(&model.Character{}).Where("id = ?", charID).
				Update("wallet", balance).Error; err != nil {
				return Internal(err)
			}
			return nil
		})
	})
	if err != nil {
		return 0, 0, err
	}
	s.logger.Info("items sold",
		zap.Int64("character_id", charID), zap.Int("lines", len(lines)),
		zap.Int64("earned", earned))
	return balance, earned, nil
}

// Earn credits the fixed earn amount to charID's wallet.
func (s *Service) Earn(ctx context.Context, charID int64) (balance, amount int64, err error) {
	amount = s.game.EarnAmount
	err = WithCharacterLock(ctx, s.cache, charID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			char, err := findCharacter(tx, charID)
			if err != nil {
				return err
			}
			balance = char.Wallet + amount
			if err := tx.Model(&model.Character{}).Where("id = ?", charID).
				Update("wallet", balance).Error; err != nil {
				return Internal(err)
			}
			return nil
		})
	})
	if err != nil {
		return 0, 0, err
	}
	return balance, amount, nil
}
