package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mireuk/gameledger/audit"
	"github.com/mireuk/gameledger/game/economy"
	mw "github.com/mireuk/gameledger/middleware"
	"go.uber.org/zap"
)

// TradingHandler handles buy, sell, and earn REST endpoints. All routes
// run behind CharacterAuth.
type TradingHandler struct {
	economy *economy.Service
	audit   *audit.Service
	logger  *zap.Logger
}

// NewTradingHandler creates a new TradingHandler.
func NewTradingHandler(eco *economy.Service, aud *audit.Service, logger *zap.Logger) *TradingHandler {
	return &TradingHandler{economy: eco, audit: aud, logger: logger}
}

type buyRequest struct {
	ItemCode int `json:"item_code" binding:"required"`
	Count    int `json:"count" binding:"required,min=1"`
}

// Buy handles POST /api/characters/:id/buy.
func (h *TradingHandler) Buy(c *gin.Context) {
	charID := mw.GetCharacterID(c)

	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	balance, total, err := h.economy.Buy(c.Request.Context(), charID, req.ItemCode, req.Count)
	var resp gin.H
	if err == nil {
		resp = gin.H{"balance": balance, "spent": total}
	}
	recordAudit(c, h.audit, "buy", charID, start, req, resp, err)
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type sellRequest struct {
	Items []economy.SellLine `json:"items" binding:"required,min=1,dive"`
}

// Sell handles POST /api/characters/:id/sell. The whole batch succeeds
// or nothing changes.
func (h *TradingHandler) Sell(c *gin.Context) {
	charID := mw.GetCharacterID(c)

	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	balance, earned, err := h.economy.Sell(c.Request.Context(), charID, req.Items)
	var resp gin.H
	if err == nil {
		resp = gin.H{"balance": balance, "earned": earned}
	}
	recordAudit(c, h.audit, "sell", charID, start, req, resp, err)
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Earn handles POST /api/characters/:id/earn.
func (h *TradingHandler) Earn(c *gin.Context) {
	charID := mw.GetCharacterID(c)

	start := time.Now()
	balance, amount, err := h.economy.Earn(c.Request.Context(), charID)
	var resp gin.H
	if err == nil {
		resp = gin.H{"balance": balance, "earned": amount}
	}
	recordAudit(c, h.audit, "earn", charID, start, nil, resp, err)
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
