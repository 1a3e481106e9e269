package catalog

import (
	"context"
	"errors"

	"github.com/mireuk/gameledger/cache"
	"github.com/mireuk/gameledger/game/economy"
	"github.com/mireuk/gameledger/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service manages the item catalog. Edits to an item's stat modifier
// propagate to every character currently wearing the item, in the same
// transaction, so stored stats never drift from the catalog.
type Service struct {
	db     *gorm.DB
	cache  cache.Cache
	logger *zap.Logger
}

func NewService(db *gorm.DB, c cache.Cache, logger *zap.Logger) *Service {
	return &Service{db: db, cache: c, logger: logger}
}

// CreateInput holds the fields of a new catalog item. A zero Code lets
// the database assign the next one.
type CreateInput struct {
	Code       int
	Name       string
	Price      int64
	StatHealth int
	StatPower  int
}

// UpdateInput holds the editable fields of an item. Nil means unchanged.
// Price is deliberately absent: repricing held goods is a separate problem.
type UpdateInput struct {
	Name       *string
	StatHealth *int
	StatPower  *int
}

// ListEntry is the summary view returned by List.
type ListEntry struct {
	Code  int    `json:"item_code"`
	Name  string `json:"item_name"`
	Price int64  `json:"item_price"`
}

// Create adds an item to the catalog. Duplicate code or name conflicts.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Item, error) {
	item := &model.Item{
		Code:       in.Code,
		Name:       in.Name,
		Price:      in.Price,
		StatHealth: in.StatHealth,
		StatPower:  in.StatPower,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Code != 0 {
			var existing model.Item
			err := tx.Where("code = ?", in.Code).First(&existing).Error
			if err == nil {
				return economy.ErrItemExists
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return economy.Internal(err)
			}
		}
		var existing model.Item
		err := tx.Where("name = ?", in.Name).First(&existing).Error
		if err == nil {
			return economy.ErrItemExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return economy.Internal(err)
		}
		if err := tx.Create(item).Error; err != nil {
			return economy.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("item created", zap.Int("item_code", item.Code), zap.String("name", item.Name))
	return item, nil
}

// Update edits an item's name and stat modifier. When the modifier
// changes, the delta is applied to the stored stats of every character
// wearing the item before the transaction commits. The item lock keeps
// an in-flight equip or unequip of the same item from committing against
// the old modifier.
func (s *Service) Update(ctx context.Context, itemCode int, in UpdateInput) (*model.Item, error) {
	var out *model.Item
	err := economy.WithItemLock(ctx, s.cache, itemCode, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var item model.Item
			if err := tx.Where("code = ?", itemCode).First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return economy.ErrItemNotFound
				}
				return economy.Internal(err)
			}

			if in.Name != nil && *in.Name != item.Name {
				var dup model.Item
				err := tx.Where("name = ? AND code <> ?", *in.Name, itemCode).First(&dup).Error
				if err == nil {
					return economy.ErrItemExists
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return economy.Internal(err)
				}
				item.Name = *in.Name
			}

			healthDelta, powerDelta := 0, 0
			if in.StatHealth != nil {
				healthDelta = *in.StatHealth - item.StatHealth
				item.StatHealth = *in.StatHealth
			}
			if in.StatPower != nil {
				powerDelta = *in.StatPower - item.StatPower
				item.StatPower = *in.StatPower
			}

			if err := tx.Save(&item).Error; err != nil {
				return economy.Internal(err)
			}

			if healthDelta != 0 || powerDelta != 0 {
				if err := propagate(tx, itemCode, healthDelta, powerDelta); err != nil {
					return err
				}
			}
			out = &item
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("item updated", zap.Int("item_code", itemCode))
	return out, nil
}

// propagate applies a modifier delta to every character wearing itemCode.
// The update is relative (health = health + delta) in one statement, so a
// concurrent operation on some wearer's other items cannot be overwritten
// by a stale absolute value.
func propagate(tx *gorm.DB, itemCode, healthDelta, powerDelta int) error {
	var worn []model.Equipment
	if err := tx.Where("item_code = ?", itemCode).Find(&worn).Error; err != nil {
		return economy.Internal(err)
	}
	if len(worn) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(worn))
	for _, eq := range worn {
		ids = append(ids, eq.CharacterID)
	}
	err := tx.Model(&model.Character{}).Where("id IN ?", ids).
		UpdateColumns(map[string]interface{}{
			"health": gorm.Expr("health + ?", healthDelta),
			"power":  gorm.Expr("power + ?", powerDelta),
		}).Error
	if err != nil {
		return economy.Internal(err)
	}
	return nil
}

// List returns the catalog summary ordered by item code.
func (s *Service) List(ctx context.Context) ([]ListEntry, error) {
	var items []model.Item
	if err := s.db.WithContext(ctx).Order("code asc").Find(&items).Error; err != nil {
		return nil, economy.Internal(err)
	}
	out := make([]ListEntry, 0, len(items))
	for _, it := range items {
		out = append(out, ListEntry{Code: it.Code, Name: it.Name, Price: it.Price})
	}
	return out, nil
}

// Get returns the full detail of one item.
func (s *Service) Get(ctx context.Context, itemCode int) (*model.Item, error) {
	var item model.Item
	if err := s.db.WithContext(ctx).Where("code = ?", itemCode).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, economy.ErrItemNotFound
		}
		return nil, economy.Internal(err)
	}
	return &item, nil
}
