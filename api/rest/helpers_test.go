package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mireuk/gameledger/api/rest"
	"github.com/mireuk/gameledger/audit"
	"github.com/mireuk/gameledger/cache"
	"github.com/mireuk/gameledger/config"
	"github.com/mireuk/gameledger/game/catalog"
	"github.com/mireuk/gameledger/game/economy"
	mw "github.com/mireuk/gameledger/middleware"
	"github.com/mireuk/gameledger/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testAdminKey = "test-admin-key"

func init() { gin.SetMode(gin.TestMode) }

func nop() *zap.Logger { l, _ := zap.NewDevelopment(); return l }

type testEnv struct {
	r     *gin.Engine
	db    *gorm.DB
	cache cache.Cache
}

// newTestEnv wires the full route table against an in-memory DB, the same
// shape main.go builds.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	logger := nop()
	sec := config.SecurityConfig{JWTSecret: "test-secret", JWTTTL: 72 * time.Hour}
	game := config.GameConfig{StartHealth: 500, StartPower: 100, StartWallet: 10000, EarnAmount: 100}

	aud := audit.New(db, logger)
	t.Cleanup(func() { aud.Stop(context.Background()) })

	ecoSvc := economy.NewService(db, c, game, logger)
	catSvc := catalog.NewService(db, c, logger)

	authH := rest.NewAuthHandler(db, c, sec)
	userH := rest.NewUserHandler(db)
	charH := rest.NewCharacterHandler(db, c, game, sec, logger)
	itemH := rest.NewItemHandler(catSvc, logger)
	invH := rest.NewInventoryHandler(db, logger)
	equipH := rest.NewEquipmentHandler(db, ecoSvc, aud, logger)
	tradeH := rest.NewTradingHandler(ecoSvc, aud, logger)

	r := gin.New()
	r.Use(mw.TraceID())
	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/sign-up", authH.SignUp)
		authG.POST("/sign-in", authH.SignIn)
		authG.POST("/sign-out", mw.Auth(sec, c), authH.SignOut)

		api.GET("/users", mw.Auth(sec, c), userH.Me)

		itemsG := api.Group("/items")
		itemsG.GET("", itemH.List)
		itemsG.GET("/:code", itemH.Get)
		adminG := itemsG.Group("", rest.AdminAuth(testAdminKey))
		adminG.POST("", itemH.Create)
		adminG.PATCH("/:code", itemH.Update)

		charsG := api.Group("/characters")
		charsG.POST("", mw.Auth(sec, c), charH.Create)
		charsG.GET("/:id", charH.Detail)
		charsG.GET("/:id/equipment", equipH.List)

		ownedG := charsG.Group("/:id", mw.Auth(sec, c), mw.CharacterAuth(db))
		ownedG.DELETE("", charH.Delete)
		ownedG.GET("/inventory", invH.List)
		ownedG.POST("/equip", equipH.Equip)
		ownedG.POST("/unequip", equipH.Unequip)
		ownedG.POST("/buy", tradeH.Buy)
		ownedG.POST("/sell", tradeH.Sell)
		ownedG.POST("/earn", tradeH.Earn)
	}

	return &testEnv{r: r, db: db, cache: c}
}

// doJSON performs a request with an optional Bearer token and optional
// extra headers, returning the recorder.
func (e *testEnv) doJSON(method, path, token string, body interface{}, headers ...map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// signUpAndIn registers loginID and returns a valid token.
func (e *testEnv) signUpAndIn(t *testing.T, loginID string) string {
	t.Helper()
	w := e.doJSON(http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"login_id":         loginID,
		"password":         "secret1",
		"confirm_password": "secret1",
		"name":             "Player " + loginID,
	})
	require.Equal(t, http.StatusCreated, w.Code, "sign-up: %s", w.Body.String())

	w = e.doJSON(http.MethodPost, "/api/auth/sign-in", "", map[string]string{
		"login_id": loginID,
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, "sign-in: %s", w.Body.String())
	return decode(t, w)["token"].(string)
}

// createCharacter makes a character for the token's user and returns its ID.
func (e *testEnv) createCharacter(t *testing.T, token, name string) int64 {
	t.Helper()
	w := e.doJSON(http.MethodPost, "/api/characters", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, "create character: %s", w.Body.String())
	return int64(decode(t, w)["character_id"].(float64))
}

// createItem adds a catalog item through the admin surface.
func (e *testEnv) createItem(t *testing.T, name string, price int64, health, power int) int {
	t.Helper()
	w := e.doJSON(http.MethodPost, "/api/items", "", map[string]interface{}{
		"item_name":   name,
		"item_price":  price,
		"stat_health": health,
		"stat_power":  power,
	}, map[string]string{"X-Admin-Key": testAdminKey})
	require.Equal(t, http.StatusCreated, w.Code, "create item: %s", w.Body.String())
	return int(decode(t, w)["item_code"].(float64))
}

func charPath(charID int64, suffix string) string {
	return fmt.Sprintf("/api/characters/%d%s", charID, suffix)
}
