package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mireuk/gameledger/model"
	"gorm.io/gorm"
)

const CharacterIDKey = "character_id"

// CharacterAuth resolves the :id route param to a character owned by the
// authenticated user. Routes behind it can trust the character ID in the
// context. Must run after Auth.
func CharacterAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		charID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid character id"})
			return
		}

		var char model.Character
		if err := db.Where("id = ? AND user_id = ?", charID, userID).First(&char).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "character not found"})
			return
		}

		c.Set(CharacterIDKey, char.ID)
		c.Next()
	}
}

// GetCharacterID retrieves the pre-authorized character ID from the Gin context.
func GetCharacterID(c *gin.Context) int64 {
	if v, exists := c.Get(CharacterIDKey); exists {
		return v.(int64)
	}
	return 0
}
