package models

import (
	"time"
)

// Token status values
const (
	TokenStatusActive    = "active"
	TokenStatusUsed      = "used"
	TokenStatusCancelled = "cancelled"
)

// Token adalah kredensial sekali pakai yang dibuat manager untuk customer
type Token struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TokenID       string     `gorm:"type:varchar(191);uniqueIndex;not null" json:"token_id"`
	CustomerName  string     `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone string     `gorm:"type:varchar(50);not null" json:"customer_phone"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	GeneratedBy   uint       `gorm:"not null;index" json:"generated_by"`
	Generator     *User      `gorm:"foreignKey:GeneratedBy" json:"-"`
	GeneratedAt   time.Time  `gorm:"not null;index" json:"generated_at"`
	Status        string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	UsedAt        *time.Time `json:"used_at,omitempty"`
	DailyNumber   *int       `json:"daily_number,omitempty"` // urutan token pada hari itu, untuk display
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsTerminal melaporkan apakah token sudah di status akhir (used/cancelled)
func (t *Token) IsTerminal() bool {
	return t.Status == TokenStatusUsed || t.Status == TokenStatusCancelled
}
