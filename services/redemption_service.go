package services

import (
	"errors"
	"time"

	"github.com/tokenworks/servicepos-app/models"
	"gorm.io/gorm"
)

var (
	ErrTokenNotRedeemable = errors.New("token not found or already used")
	ErrInvalidCharge      = errors.New("service charge and bank charge must be >= 0")
	ErrInvalidPayment     = errors.New("payment method is not allowed")
)

// RedemptionService mengeksekusi "redeem token + catat service" sebagai satu
// unit transaksional. Token di-flip dengan conditional update (hanya kalau
// masih active), jadi dua employee yang lolos validasi untuk token yang sama
// tidak bisa dua-duanya redeem: yang kedua kena zero rows affected dan
// seluruh operasinya batal tanpa ada yang tersimpan.
type RedemptionService struct {
	DB *gorm.DB
}

func NewRedemptionService(db *gorm.DB) *RedemptionService {
	return &RedemptionService{DB: db}
}

// EntryInput adalah data form yang sudah lolos binding
type EntryInput struct {
	TokenID       string
	CustomerName  string
	ServiceType   string
	ServiceCharge float64
	BankCharge    float64
	PaymentMethod string
}

// SubmitEntry memvalidasi input, lalu dalam satu transaksi: flip token
// active -> used (compare-and-swap) dan insert form entry. Kedua write
// commit bersama atau tidak sama sekali.
func (rs *RedemptionService) SubmitEntry(employeeID uint, input EntryInput) (*models.FormEntry, error) {
	if input.ServiceCharge < 0 || input.BankCharge < 0 {
		return nil, ErrInvalidCharge
	}
	if !models.ValidPaymentMethod(input.PaymentMethod) {
		return nil, ErrInvalidPayment
	}

	now := time.Now()
	entry := &models.FormEntry{
		EmployeeID:    employeeID,
		TokenUsed:     input.TokenID,
		SubmittedAt:   now,
		CustomerName:  input.CustomerName,
		ServiceType:   input.ServiceType,
		ServiceCharge: input.ServiceCharge,
		BankCharge:    input.BankCharge,
		PaymentMethod: input.PaymentMethod,
		Status:        "Completed",
		Priority:      "Medium", // legacy default
	}

	err := rs.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Token{}).
			Where("token_id = ? AND status = ?", input.TokenID, models.TokenStatusActive).
			Updates(map[string]interface{}{
				"status":  models.TokenStatusUsed,
				"used_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenNotRedeemable
		}

		return tx.Create(entry).Error
	})

	if err != nil {
		return nil, err
	}

	return entry, nil
}

// CancelToken membatalkan token yang masih active (by row id, kontrol
// manager). Token yang sudah used/cancelled tidak bisa dibatalkan lagi.
func (rs *RedemptionService) CancelToken(tokenRowID uint) error {
	res := rs.DB.Model(&models.Token{}).
		Where("id = ? AND status = ?", tokenRowID, models.TokenStatusActive).
		Update("status", models.TokenStatusCancelled)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTokenNotRedeemable
	}
	return nil
}
