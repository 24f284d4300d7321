package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/bugai/backend/internal/config"
	"github.com/emilythestrangee/bugai/backend/internal/models"
)

func openSQLite(t *testing.T) Service {
	t.Helper()

	svc, err := Open(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "bugai.db"),
	}, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Migrate(context.Background()))
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestSQLiteDSN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.db?_foreign_keys=on", SQLiteDSN("a.db"))
	assert.Equal(t, "a.db?cache=shared&_foreign_keys=on", SQLiteDSN("a.db?cache=shared"))
	assert.Equal(t, "a.db?_foreign_keys=off", SQLiteDSN("a.db?_foreign_keys=off"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(config.DatabaseConfig{Driver: "oracle"}, nil)
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	svc := openSQLite(t)

	stats := svc.Health(context.Background())
	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, "sqlite", stats["driver"])
}

func TestUniqueIndexesAreTranslated(t *testing.T) {
	db := openSQLite(t).GetDB()

	require.NoError(t, db.Create(&models.User{Username: "alice", Email: "a@example.com", Password: "x"}).Error)
	err := db.Create(&models.User{Username: "alice", Email: "b@example.com", Password: "x"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestCascadeDeletesFollowOwner(t *testing.T) {
	db := openSQLite(t).GetDB()

	user := models.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	c := models.Case{
		UserID:          &user.ID,
		AIName:          "GPT-4",
		AIProvider:      models.ProviderChatGPT,
		ErrorType:       models.ErrorLogic,
		HighlightedText: "2+2=5",
		OriginalDialog:  []models.DialogMessage{{Role: models.RoleUser, Content: "2+2?", Timestamp: 1}},
	}
	require.NoError(t, db.Create(&c).Error)
	require.NoError(t, db.Create(&models.Comment{CaseID: c.ID, UserID: &user.ID, Content: "lol"}).Error)
	require.NoError(t, db.Create(&models.Like{CaseID: c.ID, Identity: "anon:x"}).Error)

	require.NoError(t, db.Delete(&user).Error)

	var n int64
	require.NoError(t, db.Model(&models.Case{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Like{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
