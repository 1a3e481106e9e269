package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mireuk/gameledger/game/economy"
	mw "github.com/mireuk/gameledger/middleware"
	"github.com/mireuk/gameledger/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryHandler handles inventory REST endpoints.
type InventoryHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(db *gorm.DB, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{db: db, logger: logger}
}

// List handles GET /api/characters/:id/inventory. Runs behind
// CharacterAuth: only the owner may see what a character holds.
func (h *InventoryHandler) List(c *gin.Context) {
	charID := mw.GetCharacterID(c)

	rows, err := economy.ListStock(h.db, charID)
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}

	names, err := itemNames(h.db, rowCodes(rows))
	if err != nil {
		writeDomainError(c, h.logger, economy.Internal(err))
		return
	}

	type entry struct {
		ItemCode int    `json:"item_code"`
		ItemName string `json:"item_name"`
		Count    int    `json:"count"`
	}
	entries := make([]entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entry{
			ItemCode: row.ItemCode,
			ItemName: names[row.ItemCode],
			Count:    row.Quantity,
		})
	}
	c.JSON(http.StatusOK, gin.H{"inventory": entries})
}

func rowCodes(rows []model.Inventory) []int {
	codes := make([]int, 0, len(rows))
	for _, r := range rows {
		codes = append(codes, r.ItemCode)
	}
	return codes
}

// itemNames resolves item codes to display names in one query.
func itemNames(db *gorm.DB, codes []int) (map[int]string, error) {
	names := make(map[int]string, len(codes))
	if len(codes) == 0 {
		return names, nil
	}
	var items []model.Item
	if err := db.Where("code IN ?", codes).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		names[it.Code] = it.Name
	}
	return names, nil
}
