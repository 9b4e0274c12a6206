package models

import (
	"time"
)

// Payment methods yang diperbolehkan untuk form entry
var AllowedPaymentMethods = []string{"Cash", "Card", "UPI/Online"}

// FormEntry represents a service/payment record submitted by an employee
type FormEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EmployeeID    uint      `gorm:"not null;index" json:"employee_id"`
	Employee      *User     `gorm:"foreignKey:EmployeeID" json:"-"`
	TokenUsed     string    `gorm:"type:varchar(191);index" json:"token_used,omitempty"`
	SubmittedAt   time.Time `gorm:"not null;index" json:"submitted_at"`
	CustomerName  string    `gorm:"type:varchar(255);not null" json:"customer_name"`
	ServiceType   string    `gorm:"type:varchar(255);not null" json:"service_type"`
	ServiceCharge float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"service_charge"`
	BankCharge    float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"bank_charge"`
	PaymentMethod string    `gorm:"type:varchar(30);not null" json:"payment_method"`
	Status        string    `gorm:"type:varchar(20);not null;default:'Completed'" json:"status"`

	// Field legacy dari flow lama, tidak diisi oleh flow baru
	Priority      string   `gorm:"type:varchar(20)" json:"priority,omitempty"`
	ContactNumber string   `gorm:"type:varchar(50)" json:"contact_number,omitempty"`
	EstimatedCost *float64 `gorm:"type:decimal(10,2)" json:"estimated_cost,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalAmount dihitung, tidak pernah disimpan terpisah
func (e *FormEntry) TotalAmount() float64 {
	return e.ServiceCharge + e.BankCharge
}

// ValidPaymentMethod memeriksa method terhadap daftar yang diizinkan
func ValidPaymentMethod(method string) bool {
	for _, m := range AllowedPaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
