package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mireuk/gameledger/game/economy"
	"github.com/mireuk/gameledger/model"
	"github.com/mireuk/gameledger/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func nop() *zap.Logger { l, _ := zap.NewDevelopment(); return l }

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutil.SetupTestDB(t), testutil.SetupTestCache(t), nop())
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreate_AssignsCode(t *testing.T) {
	svc := newService(t)

	item, err := svc.Create(context.Background(), CreateInput{Name: "sword", Price: 500, StatHealth: 20, StatPower: 5})
	require.NoError(t, err)
	assert.Positive(t, item.Code)
	assert.Equal(t, "sword", item.Name)
}

func TestCreate_DuplicateName(t *testing.T) {
	svc := newService(t)
	_, err := svc.Create(context.Background(), CreateInput{Name: "sword", Price: 500})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Name: "sword", Price: 100})
	assert.ErrorIs(t, err, economy.ErrItemExists)
}

func TestUpdate_RenamesAndKeepsPrice(t *testing.T) {
	svc := newService(t)
	item, err := svc.Create(context.Background(), CreateInput{Name: "sword", Price: 500})
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), item.Code, UpdateInput{Name: strPtr("longsword")})
	require.NoError(t, err)
	assert.Equal(t, "longsword", got.Name)
	assert.Equal(t, int64(500), got.Price)
}

func TestUpdate_DuplicateName(t *testing.T) {
	svc := newService(t)
	_, err := svc.Create(context.Background(), CreateInput{Name: "sword", Price: 500})
	require.NoError(t, err)
	other, err := svc.Create(context.Background(), CreateInput{Name: "axe", Price: 300})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), other.Code, UpdateInput{Name: strPtr("sword")})
	assert.ErrorIs(t, err, economy.ErrItemExists)
}

func TestUpdate_UnknownItem(t *testing.T) {
	svc := newService(t)
	_, err := svc.Update(context.Background(), 999, UpdateInput{Name: strPtr("ghost")})
	assert.ErrorIs(t, err, economy.ErrItemNotFound)
}

func TestUpdate_PropagatesModifierToWearers(t *testing.T) {
	svc := newService(t)
	item, err := svc.Create(context.Background(), CreateInput{Name: "sword", Price: 500, StatHealth: 20, StatPower: 5})
	require.NoError(t, err)

	// wearer: stats already include the +20/+5 modifier
	wearer := seedCharacter(t, svc.db, "wearer", 520, 105)
	require.NoError(t, svc.db.Create(&model.Equipment{CharacterID: wearer.ID, ItemCode: item.Code}).Error)
	// holder has the item only in inventory, must be untouched
	holder := seedCharacter(t, svc.db, "holder", 500, 100)
	require.NoError(t, svc.db.Create(&model.Inventory{CharacterID: holder.ID, ItemCode: item.Code, Quantity: 1}).Error)

	_, err = svc.Update(context.Background(), item.Code, UpdateInput{StatHealth: intPtr(50), StatPower: intPtr(2)})
	require.NoError(t, err)

	assert.Equal(t, 550, charOf(t, svc.db, wearer.ID).Health)
	assert.Equal(t, 102, charOf(t, svc.db, wearer.ID).Power)
	assert.Equal(t, 500, charOf(t, svc.db, holder.ID).Health)
	assert.Equal(t, 100, charOf(t, svc.db, holder.ID).Power)
}

func TestListAndGet(t *testing.T) {
	svc := newService(t)
	a, err := svc.Create(context.Background(), CreateInput{Name: "sword", Price: 500, StatHealth: 20})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{Name: "axe", Price: 300})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "sword", list[0].Name)
	assert.Less(t, list[0].Code, list[1].Code)

	got, err := svc.Get(context.Background(), a.Code)
	require.NoError(t, err)
	assert.Equal(t, 20, got.StatHealth)

	_, err = svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, economy.ErrItemNotFound)
}

func seedCharacter(t *testing.T, db *gorm.DB, name string, health, power int) *model.Character {
	t.Helper()
	char := &model.Character{
		UserID:     1,
		Name:       name,
		BaseHealth: 500,
		BasePower:  100,
		Health:     health,
		Power:      power,
	}
	require.NoError(t, db.Create(char).Error)
	return char
}

func charOf(t *testing.T, db *gorm.DB, id int64) *model.Character {
	t.Helper()
	var char model.Character
	require.NoError(t, db.First(&char, id).Error)
	return &char
}

func TestCreate_ExplicitCode(t *testing.T) {
	svc := newService(t)

	item, err := svc.Create(context.Background(), CreateInput{Code: 42, Name: "sword", Price: 500})
	require.NoError(t, err)
	assert.Equal(t, 42, item.Code)

	got, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "sword", got.Name)
}

func TestCreate_DuplicateCode(t *testing.T) {
	svc := newService(t)
	_, err := svc.Create(context.Background(), CreateInput{Code: 42, Name: "sword", Price: 500})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Code: 42, Name: "axe", Price: 300})
	assert.ErrorIs(t, err, economy.ErrItemExists)
}

func TestUpdate_PropagationIsRelative(t *testing.T) {
	svc := newService(t)
	item, err := svc.Create(context.Background(), CreateInput{Name: "sword", Price: 500, StatHealth: 20, StatPower: 5})
	require.NoError(t, err)

	// wearer also carries other gear worth +40/+10 on top of the sword
	wearer := seedCharacter(t, svc.db, "wearer", 560, 115)
	require.NoError(t, svc.db.Create(&model.Equipment{CharacterID: wearer.ID, ItemCode: item.Code}).Error)

	_, err = svc.Update(context.Background(), item.Code, UpdateInput{StatHealth: intPtr(50), StatPower: intPtr(2)})
	require.NoError(t, err)

	// only the sword's delta moves; the other gear's contribution survives
	assert.Equal(t, 590, charOf(t, svc.db, wearer.ID).Health)
	assert.Equal(t, 112, charOf(t, svc.db, wearer.ID).Power)
}

func TestUpdate_ItemLockContention(t *testing.T) {
	svc := newService(t)
	item, err := svc.Create(context.Background(), CreateInput{Name: "sword", Price: 500, StatHealth: 20})
	require.NoError(t, err)
	wearer := seedCharacter(t, svc.db, "wearer", 520, 100)
	require.NoError(t, svc.db.Create(&model.Equipment{CharacterID: wearer.ID, ItemCode: item.Code}).Error)

	ok, err := svc.cache.SetNX(context.Background(), fmt.Sprintf("lock:item:%d", item.Code), "1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.Update(context.Background(), item.Code, UpdateInput{StatHealth: intPtr(50)})
	assert.ErrorIs(t, err, economy.ErrItemBusy)
	assert.Equal(t, economy.KindTransient, economy.KindOf(err))

	// nothing moved while the lock was held
	got, err := svc.Get(context.Background(), item.Code)
	require.NoError(t, err)
	assert.Equal(t, 20, got.StatHealth)
	assert.Equal(t, 520, charOf(t, svc.db, wearer.ID).Health)
}
