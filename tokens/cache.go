package tokens

import (
	"sync"

	"github.com/tokenworks/servicepos-app/models"
	"github.com/tokenworks/servicepos-app/utils"
	"gorm.io/gorm"
)

// Cache adalah mirror in-memory dari seluruh tabel tokens, urut dari yang
// terbaru. Satu instance per proses, di-refresh penuh oleh change monitor
// setiap ada perubahan di tabel tokens. Semua komponen lain hanya membaca.
type Cache struct {
	db     *gorm.DB
	mu     sync.RWMutex
	tokens []models.Token
}

func NewCache(db *gorm.DB) *Cache {
	return &Cache{db: db}
}

// Refresh mengganti seluruh isi cache dengan state backend saat ini.
// Idempotent; dua Refresh yang overlap berakhir last-write-wins. Kalau fetch
// gagal, isi lama dipertahankan dan kondisinya hanya dicatat di log
// (kebijakan stale-cache-is-acceptable).
func (c *Cache) Refresh() {
	var fresh []models.Token
	if err := c.db.Order("generated_at DESC").Find(&fresh).Error; err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Token cache refresh failed, keeping stale data: %v", err)
		}
		return
	}

	c.mu.Lock()
	c.tokens = fresh
	c.mu.Unlock()
}

// Lookup mencari token berdasarkan token_id di cache
func (c *Cache) Lookup(tokenID string) (models.Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, t := range c.tokens {
		if t.TokenID == tokenID {
			return t, true
		}
	}
	return models.Token{}, false
}

// Snapshot mengembalikan salinan list token saat ini
func (c *Cache) Snapshot() []models.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Token, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// Len mengembalikan jumlah token di cache
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tokens)
}
