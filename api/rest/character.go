package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mireuk/gameledger/cache"
	"github.com/mireuk/gameledger/config"
	"github.com/mireuk/gameledger/game/economy"
	mw "github.com/mireuk/gameledger/middleware"
	"github.com/mireuk/gameledger/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CharacterHandler handles character REST endpoints.
type CharacterHandler struct {
	db     *gorm.DB
	cache  cache.Cache
	game   config.GameConfig
	sec    config.SecurityConfig
	logger *zap.Logger
}

// NewCharacterHandler creates a new CharacterHandler.
func NewCharacterHandler(db *gorm.DB, c cache.Cache, game config.GameConfig, sec config.SecurityConfig, logger *zap.Logger) *CharacterHandler {
	return &CharacterHandler{db: db, cache: c, game: game, sec: sec, logger: logger}
}

type createCharacterRequest struct {
	Name string `json:"name" binding:"required,min=1,max=32"`
}

// Create handles POST /api/characters. New characters start with the
// configured base stats and wallet balance.
func (h *CharacterHandler) Create(c *gin.Context) {
	userID := mw.GetUserID(c)

	var req createCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	char := model.Character{
		UserID:     userID,
		Name:       req.Name,
		BaseHealth: h.game.StartHealth,
		BasePower:  h.game.StartPower,
		Health:     h.game.StartHealth,
		Power:      h.game.StartPower,
		Wallet:     h.game.StartWallet,
	}
	if err := h.db.Create(&char).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "character name already taken"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.logger.Info("character created",
		zap.Int64("user_id", userID), zap.Int64("character_id", char.ID))
	c.JSON(http.StatusCreated, gin.H{"character_id": char.ID, "name": char.Name})
}

// Delete handles DELETE /api/characters/:id. The character's inventory and
// equipment rows go with it, in one transaction under the same per-character
// lock the economy operations take, so a delete cannot interleave with an
// in-flight equip. Runs behind CharacterAuth.
func (h *CharacterHandler) Delete(c *gin.Context) {
	charID := mw.GetCharacterID(c)

	err := economy.WithCharacterLock(c.Request.Context(), h.cache, charID, func() error {
		return h.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("character_id = ?", charID).Delete(&model.Inventory{}).Error; err != nil {
				return economy.Internal(err)
			}
			if err := tx.Where("character_id = ?", charID).Delete(&model.Equipment{}).Error; err != nil {
				return economy.Internal(err)
			}
			if err := tx.Delete(&model.Character{}, charID).Error; err != nil {
				return economy.Internal(err)
			}
			return nil
		})
	})
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}

	h.logger.Info("character deleted", zap.Int64("character_id", charID))
	c.JSON(http.StatusOK, gin.H{"message": "character deleted"})
}

// Detail handles GET /api/characters/:id. The route is public; the wallet
// balance is only included when the request carries the owner's token.
func (h *CharacterHandler) Detail(c *gin.Context) {
	charID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid character id"})
		return
	}

	var char model.Character
	if err := h.db.First(&char, charID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	body := gin.H{
		"character_id": char.ID,
		"name":         char.Name,
		"health":       char.Health,
		"power":        char.Power,
	}
	if h.callerOwns(c, &char) {
		body["wallet"] = char.Wallet
	}
	c.JSON(http.StatusOK, body)
}

// callerOwns checks an optional Bearer token against the character's owner.
// An absent or invalid token just means the public view.
func (h *CharacterHandler) callerOwns(c *gin.Context, char *model.Character) bool {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	claims, err := mw.ParseToken(strings.TrimPrefix(header, "Bearer "), h.sec.JWTSecret)
	if err != nil {
		return false
	}
	return claims.UserID == char.UserID
}
