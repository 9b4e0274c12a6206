package services

import (
	"log"
	"time"

	"github.com/tokenworks/servicepos-app/models"
	"github.com/tokenworks/servicepos-app/realtime"
	"github.com/tokenworks/servicepos-app/tokens"
	"gorm.io/gorm"
)

// ChangeMonitor berdiri sebagai pengganti realtime channel vendor: trigger
// SQL menulis ke tabel db_changes, monitor ini mem-poll tabel itu, men-trigger
// refresh token cache, lalu menyiarkan perubahan ke semua dashboard.
type ChangeMonitor struct {
	DB         *gorm.DB
	TokenCache *tokens.Cache
	StopChan   chan struct{}
	Interval   time.Duration
}

type DBChange struct {
	ID         int64     `gorm:"column:id"`
	TableName  string    `gorm:"column:table_name"`
	RecordID   int64     `gorm:"column:record_id"`
	ActionType string    `gorm:"column:action_type"`
	ChangedAt  time.Time `gorm:"column:changed_at"`
	Processed  bool      `gorm:"column:processed"`
}

func NewChangeMonitor(db *gorm.DB, cache *tokens.Cache) *ChangeMonitor {
	return &ChangeMonitor{
		DB:         db,
		TokenCache: cache,
		StopChan:   make(chan struct{}),
		Interval:   1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []DBChange

	// Gunakan transaction untuk mencegah race condition
	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		log.Printf("Error fetching changes: %v", err)
		return
	}

	tokensChanged := false

	for _, change := range changes {
		switch change.TableName {
		case "tokens":
			tokensChanged = true
			cm.processTokenChange(change)
		case "form_entries":
			cm.processEntryChange(change)
		case "users":
			cm.processUserChange(change)
		}

		// Mark sebagai processed
		if err := tx.Model(&DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			log.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing transaction: %v", err)
		tx.Rollback()
		return
	}

	// Satu refresh penuh per batch, apa pun jenis perubahannya; cache tidak
	// pernah di-patch sebagian
	if tokensChanged {
		cm.TokenCache.Refresh()
	}
}

func (cm *ChangeMonitor) processTokenChange(change DBChange) {
	if change.ActionType == "DELETE" {
		realtime.BroadcastTokenDelete(change.RecordID)
		return
	}

	var token models.Token
	if err := cm.DB.First(&token, change.RecordID).Error; err != nil {
		log.Printf("Error fetching token: %v", err)
		return
	}

	realtime.BroadcastTokenUpdate(token)
}

func (cm *ChangeMonitor) processEntryChange(change DBChange) {
	if change.ActionType == "DELETE" {
		realtime.BroadcastEntryDelete(change.RecordID)
		return
	}

	var entry models.FormEntry
	if err := cm.DB.First(&entry, change.RecordID).Error; err != nil {
		log.Printf("Error fetching entry: %v", err)
		return
	}

	realtime.BroadcastEntryUpdate(entry)
}

func (cm *ChangeMonitor) processUserChange(change DBChange) {
	if change.ActionType == "DELETE" {
		return
	}

	var user models.User
	if err := cm.DB.First(&user, change.RecordID).Error; err != nil {
		log.Printf("Error fetching user: %v", err)
		return
	}

	realtime.BroadcastUserUpdate(user)
}
