package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mireuk/gameledger/audit"
	"github.com/mireuk/gameledger/game/economy"
	mw "github.com/mireuk/gameledger/middleware"
	"github.com/mireuk/gameledger/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EquipmentHandler handles equipment REST endpoints.
type EquipmentHandler struct {
	db      *gorm.DB
	economy *economy.Service
	audit   *audit.Service
	logger  *zap.Logger
}

// NewEquipmentHandler creates a new EquipmentHandler.
func NewEquipmentHandler(db *gorm.DB, eco *economy.Service, aud *audit.Service, logger *zap.Logger) *EquipmentHandler {
	return &EquipmentHandler{db: db, economy: eco, audit: aud, logger: logger}
}

// List handles GET /api/characters/:id/equipment. The worn set is public
// information, so the route carries no auth.
func (h *EquipmentHandler) List(c *gin.Context) {
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

	rows, err := economy.ListEquipment(h.db, charID)
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}
	codes := make([]int, 0, len(rows))
	for _, r := range rows {
		codes = append(codes, r.ItemCode)
	}
	names, err := itemNames(h.db, codes)
	if err != nil {
		writeDomainError(c, h.logger, economy.Internal(err))
		return
	}

	type entry struct {
		ItemCode int    `json:"item_code"`
		ItemName string `json:"item_name"`
	}
	entries := make([]entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, entry{ItemCode: r.ItemCode, ItemName: names[r.ItemCode]})
	}
	c.JSON(http.StatusOK, gin.H{"equipment": entries})
}

type equipRequest struct {
	ItemCode int `json:"item_code" binding:"required"`
}

// Equip handles POST /api/characters/:id/equip.
func (h *EquipmentHandler) Equip(c *gin.Context) {
	charID := mw.GetCharacterID(c)

	var req equipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	char, err := h.economy.Equip(c.Request.Context(), charID, req.ItemCode)
	var resp gin.H
	if err == nil {
		resp = gin.H{"character_id": char.ID, "health": char.Health, "power": char.Power}
	}
	recordAudit(c, h.audit, "equip", charID, start, req, resp, err)
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Unequip handles POST /api/characters/:id/unequip.
func (h *EquipmentHandler) Unequip(c *gin.Context) {
	charID := mw.GetCharacterID(c)

	var req equipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	char, err := h.economy.Unequip(c.Request.Context(), charID, req.ItemCode)
	var resp gin.H
	if err == nil {
		resp = gin.H{"character_id": char.ID, "health": char.Health, "power": char.Power}
	}
	recordAudit(c, h.audit, "unequip", charID, start, req, resp, err)
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
