package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	mw "github.com/mireuk/gameledger/middleware"
	"github.com/mireuk/gameledger/model"
	"gorm.io/gorm"
)

// UserHandler handles user profile REST endpoints.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// Me handles GET /api/users. It returns the caller's profile and the
// summary of every character they own.
func (h *UserHandler) Me(c *gin.Context) {
	userID := mw.GetUserID(c)

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	var chars []model.Character
	if err := h.db.Where("user_id = ?", userID).Order("id asc").Find(&chars).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	type charSummary struct {
		CharacterID int64  `json:"character_id"`
		Name        string `json:"name"`
		Health      int    `json:"health"`
		Power       int    `json:"power"`
	}
	summaries := make([]charSummary, 0, len(chars))
	for _, ch := range chars {
		summaries = append(summaries, charSummary{
			CharacterID: ch.ID, Name: ch.Name, Health: ch.Health, Power: ch.Power,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    user.ID,
		"login_id":   user.LoginID,
		"name":       user.Name,
		"characters": summaries,
	})
}
