package tokens

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tokenworks/servicepos-app/models"
	"github.com/tokenworks/servicepos-app/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCacheTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Token{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedToken(t *testing.T, db *gorm.DB, tokenID, status string, generatedAt time.Time) models.Token {
	t.Helper()
	token := models.Token{
		TokenID:       tokenID,
		CustomerName:  "Customer " + tokenID,
		CustomerPhone: "555000",
		GeneratedBy:   1,
		GeneratedAt:   generatedAt,
		Status:        status,
	}
	if err := db.Create(&token).Error; err != nil {
		t.Fatalf("failed to seed token: %v", err)
	}
	return token
}

func TestCacheRefreshOrdersNewestFirst(t *testing.T) {
	db := setupCacheTestDB(t, "cache_order")
	now := time.Now()

	seedToken(t, db, "TKN-A", models.TokenStatusActive, now.Add(-2*time.Hour))
	seedToken(t, db, "TKN-B", models.TokenStatusActive, now.Add(-1*time.Hour))
	seedToken(t, db, "TKN-C", models.TokenStatusActive, now)

	cache := NewCache(db)
	cache.Refresh()

	snapshot := cache.Snapshot()
	assert.Len(t, snapshot, 3)
	assert.Equal(t, "TKN-C", snapshot[0].TokenID)
	assert.Equal(t, "TKN-A", snapshot[2].TokenID)
}

func TestCacheRefreshIdempotent(t *testing.T) {
	db := setupCacheTestDB(t, "cache_idem")
	now := time.Now()

	seedToken(t, db, "TKN-X", models.TokenStatusActive, now)
	seedToken(t, db, "TKN-Y", models.TokenStatusUsed, now.Add(-time.Minute))

	cache := NewCache(db)
	cache.Refresh()
	first := cache.Snapshot()

	// Dua refresh berturut-turut tanpa mutasi backend menghasilkan list sama
	cache.Refresh()
	second := cache.Snapshot()

	assert.Equal(t, first, second)
}

func TestCacheLookup(t *testing.T) {
	db := setupCacheTestDB(t, "cache_lookup")
	seedToken(t, db, "TKN-HIT", models.TokenStatusActive, time.Now())

	cache := NewCache(db)
	cache.Refresh()

	found, ok := cache.Lookup("TKN-HIT")
	assert.True(t, ok)
	assert.Equal(t, "Customer TKN-HIT", found.CustomerName)

	_, ok = cache.Lookup("TKN-MISS")
	assert.False(t, ok)
}

func TestCacheKeepsStaleDataOnFailedRefresh(t *testing.T) {
	db := setupCacheTestDB(t, "cache_stale")
	seedToken(t, db, "TKN-STALE", models.TokenStatusActive, time.Now())

	cache := NewCache(db)
	cache.Refresh()
	assert.Equal(t, 1, cache.Len())

	// Rusakkan backend: fetch berikutnya gagal, isi lama dipertahankan
	assert.NoError(t, db.Migrator().DropTable(&models.Token{}))
	cache.Refresh()

	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Lookup("TKN-STALE")
	assert.True(t, ok)
}
