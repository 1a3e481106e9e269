package model_test

import (
	"testing"

	"github.com/mireuk/gameledger/model"
	"github.com/mireuk/gameledger/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrate_InsertAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)

	// User
	user := &model.User{LoginID: "testuser1", PasswordHash: "hash", Name: "Tester"}
	require.NoError(t, db.Create(user).Error)
	assert.Greater(t, user.ID, int64(0))

	var found model.User
	require.NoError(t, db.First(&found, user.ID).Error)
	assert.Equal(t, "testuser1", found.LoginID)

	// Character
	char := &model.Character{
		UserID:     user.ID,
		Name:       "Hero",
		BaseHealth: 500, BasePower: 100,
		Health: 500, Power: 100,
		Wallet: 10000,
	}
	require.NoError(t, db.Create(char).Error)
	assert.Greater(t, char.ID, int64(0))

	// Item
	item := &model.Item{Name: "Rusty Sword", Price: 100, StatHealth: 0, StatPower: 5}
	require.NoError(t, db.Create(item).Error)
	assert.Greater(t, item.Code, 0)

	// Inventory
	inv := &model.Inventory{CharacterID: char.ID, ItemCode: item.Code, Quantity: 3}
	require.NoError(t, db.Create(inv).Error)

	// Equipment
	eq := &model.Equipment{CharacterID: char.ID, ItemCode: item.Code}
	require.NoError(t, db.Create(eq).Error)

	// AuditLog
	al := &model.AuditLog{TraceID: "trace-001", Action: "buy"}
	require.NoError(t, db.Create(al).Error)
}

func TestUniqueIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)

	user := &model.User{LoginID: "uniq", PasswordHash: "hash", Name: "U"}
	require.NoError(t, db.Create(user).Error)

	char := &model.Character{UserID: user.ID, Name: "Solo", BaseHealth: 500, BasePower: 100, Health: 500, Power: 100}
	require.NoError(t, db.Create(char).Error)

	// Duplicate character name must be rejected.
	dup := &model.Character{UserID: user.ID, Name: "Solo", BaseHealth: 500, BasePower: 100, Health: 500, Power: 100}
	assert.Error(t, db.Create(dup).Error)

	// At most one inventory row per (character, item code).
	require.NoError(t, db.Create(&model.Inventory{CharacterID: char.ID, ItemCode: 1, Quantity: 1}).Error)
	assert.Error(t, db.Create(&model.Inventory{CharacterID: char.ID, ItemCode: 1, Quantity: 1}).Error)

	// At most one equipment row per (character, item code).
	require.NoError(t, db.Create(&model.Equipment{CharacterID: char.ID, ItemCode: 1}).Error)
	assert.Error(t, db.Create(&model.Equipment{CharacterID: char.ID, ItemCode: 1}).Error)
}
