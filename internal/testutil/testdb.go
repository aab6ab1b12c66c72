package testutil

import (
	"fmt"
	"testing"

	"achatavis_backend/database"
	"achatavis_backend/internal/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB - отдельная in-memory SQLite база на каждый тест со всеми таблицами.
// Одно соединение: транзакции сериализуются так же, как строки под блокировкой в Postgres.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init("test")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "не удалось открыть тестовую БД")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db), "AutoMigrate для тестовой БД")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// NewSeededTestDB - то же самое плюс справочники (правила и секторы)
func NewSeededTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := NewTestDB(t)
	require.NoError(t, database.Seed(db))
	return db
}
