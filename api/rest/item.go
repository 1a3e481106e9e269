package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mireuk/gameledger/game/catalog"
	"go.uber.org/zap"
)

// ItemHandler handles item catalog REST endpoints. Reads are public;
// writes run behind AdminAuth.
type ItemHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(svc *catalog.Service, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{catalog: svc, logger: logger}
}

type createItemRequest struct {
	Code       int    `json:"item_code" binding:"min=0"`
	Name       string `json:"item_name" binding:"required,min=1,max=64"`
	Price      int64  `json:"item_price" binding:"min=0"`
	StatHealth int    `json:"stat_health"`
	StatPower  int    `json:"stat_power"`
}

// Create handles POST /api/items.
func (h *ItemHandler) Create(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.catalog.Create(c.Request.Context(), catalog.CreateInput{
		Code:       req.Code,
		Name:       req.Name,
		Price:      req.Price,
		StatHealth: req.StatHealth,
		StatPower:  req.StatPower,
	})
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

type updateItemRequest struct {
	Name       *string `json:"item_name" binding:"omitempty,min=1,max=64"`
	StatHealth *int    `json:"stat_health"`
	StatPower  *int    `json:"stat_power"`
}

// Update handles PATCH /api/items/:code. Price is not editable.
func (h *ItemHandler) Update(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item code"})
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.catalog.Update(c.Request.Context(), code, catalog.UpdateInput{
		Name:       req.Name,
		StatHealth: req.StatHealth,
		StatPower:  req.StatPower,
	})
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// List handles GET /api/items.
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Get handles GET /api/items/:code.
func (h *ItemHandler) Get(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item code"})
		return
	}
	item, err := h.catalog.Get(c.Request.Context(), code)
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
