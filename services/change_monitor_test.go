package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tokenworks/servicepos-app/models"
	"github.com/tokenworks/servicepos-app/tokens"
)

func TestChangeMonitorRefreshesCacheOnTokenChange(t *testing.T) {
	db := setupServiceTestDB(t, "monitor_refresh")
	assert.NoError(t, db.AutoMigrate(&models.DBChange{}))

	cache := tokens.NewCache(db)
	cache.Refresh()
	assert.Equal(t, 0, cache.Len())

	token := seedActiveToken(t, db, "TKN-MON-1")

	// Simulasikan trigger SQL: tulis row db_changes untuk insert token
	change := models.DBChange{
		TableName:  "tokens",
		RecordID:   int64(token.ID),
		ActionType: "INSERT",
		ChangedAt:  time.Now(),
		Processed:  false,
	}
	assert.NoError(t, db.Create(&change).Error)

	monitor := NewChangeMonitor(db, cache)
	monitor.Interval = 10 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	// Tunggu monitor memproses batch
	deadline := time.Now().Add(2 * time.Second)
	for cache.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}

	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Lookup("TKN-MON-1")
	assert.True(t, ok)

	// Row change ditandai processed
	var processed models.DBChange
	assert.NoError(t, db.First(&processed, change.ID).Error)
	assert.True(t, processed.Processed)
}

func TestChangeMonitorIgnoresProcessedRows(t *testing.T) {
	db := setupServiceTestDB(t, "monitor_processed")
	assert.NoError(t, db.AutoMigrate(&models.DBChange{}))

	change := models.DBChange{
		TableName:  "tokens",
		RecordID:   1,
		ActionType: "UPDATE",
		ChangedAt:  time.Now(),
		Processed:  true,
	}
	assert.NoError(t, db.Create(&change).Error)

	cache := tokens.NewCache(db)
	monitor := NewChangeMonitor(db, cache)
	monitor.Interval = 10 * time.Millisecond
	monitor.Start()
	time.Sleep(100 * time.Millisecond)
	monitor.Stop()

	// Tidak ada yang diproses ulang; cache tidak pernah diisi
	assert.Equal(t, 0, cache.Len())
}
