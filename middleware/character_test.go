package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mireuk/gameledger/model"
	"github.com/mireuk/gameledger/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCharacterRouter(db *gorm.DB, userID int64) *gin.Engine {
	r := gin.New()
	// Stand-in for Auth: inject the user ID directly.
	r.Use(func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Next()
	})
	r.GET("/characters/:id/ping", CharacterAuth(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"character_id": GetCharacterID(c)})
	})
	return r
}

func TestCharacterAuth_Owner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.SetupTestDB(t)

	user := &model.User{LoginID: "owner", PasswordHash: "x", Name: "Owner"}
	require.NoError(t, db.Create(user).Error)
	char := &model.Character{UserID: user.ID, Name: "Mine", BaseHealth: 500, BasePower: 100, Health: 500, Power: 100}
	require.NoError(t, db.Create(char).Error)

	r := newCharacterRouter(db, user.ID)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/characters/%d/ping", char.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCharacterAuth_NotOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.SetupTestDB(t)

	owner := &model.User{LoginID: "owner2", PasswordHash: "x", Name: "Owner"}
	require.NoError(t, db.Create(owner).Error)
	other := &model.User{LoginID: "other2", PasswordHash: "x", Name: "Other"}
	require.NoError(t, db.Create(other).Error)
	char := &model.Character{UserID: owner.ID, Name: "NotYours", BaseHealth: 500, BasePower: 100, Health: 500, Power: 100}
	require.NoError(t, db.Create(char).Error)

	r := newCharacterRouter(db, other.ID)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/characters/%d/ping", char.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCharacterAuth_BadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.SetupTestDB(t)

	r := newCharacterRouter(db, 1)
	req := httptest.NewRequest(http.MethodGet, "/characters/abc/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
