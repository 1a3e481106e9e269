package economy

import (
	"context"

	"github.com/mireuk/gameledger/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatMismatch describes one character whose stored stats disagree with
// base + equipped modifiers.
type StatMismatch struct {
	CharacterID int64
	WantHealth  int
	GotHealth   int
	WantPower   int
	GotPower    int
}

// VerifyStats sweeps every character and checks that the stored health and
// power equal the base stat plus the sum of the equipped items' modifiers.
// Mismatches are logged and returned; the sweep never repairs rows, a
// mismatch means a write path has a bug worth investigating first.
func (s *Service) VerifyStats(ctx context.Context) ([]StatMismatch, error) {
	var mismatches []StatMismatch
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []model.Item
		if err := tx.Find(&items).Error; err != nil {
			return Internal(err)
		}
		byCode := make(map[int]model.Item, len(items))
		for _, it := range items {
			byCode[it.Code] = it
		}

		var chars []model.Character
		if err := tx.Find(&chars).Error; err != nil {
			return Internal(err)
		}
		for _, char := range chars {
			worn, err := ListEquipment(tx, char.ID)
			if err != nil {
				return err
			}
			wantHealth, wantPower := char.BaseHealth, char.BasePower
			for _, eq := range worn {
				it := byCode[eq.ItemCode]
				wantHealth += it.StatHealth
				wantPower += it.StatPower
			}
			if char.Health != wantHealth || char.Power != wantPower {
				mismatches = append(mismatches, StatMismatch{
					CharacterID: char.ID,
					WantHealth:  wantHealth,
					GotHealth:   char.Health,
					WantPower:   wantPower,
					GotPower:    char.Power,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, m := range mismatches {
		s.logger.Warn("stat invariant violated",
			zap.Int64("character_id", m.CharacterID),
			zap.Int("want_health", m.WantHealth), zap.Int("got_health", m.GotHealth),
			zap.Int("want_power", m.WantPower), zap.Int("got_power", m.GotPower))
	}
	return mismatches, nil
}
