package services

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

func setupServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Token{}, &models.FormEntry{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedActiveToken(t *testing.T, db *gorm.DB, tokenID string) models.Token {
	t.Helper()
	token := models.Token{
		TokenID:       tokenID,
		CustomerName:  "Jane Doe",
		CustomerPhone: "5551234567",
		GeneratedBy:   1,
		GeneratedAt:   time.Now(),
		Status:        models.TokenStatusActive,
	}
	if err := db.Create(&token).Error; err != nil {
		t.Fatalf("failed to seed token: %v", err)
	}
	return token
}

func validInput(tokenID string) EntryInput {
	return EntryInput{
		TokenID:       tokenID,
		CustomerName:  "Jane Doe",
		ServiceType:   "Money Transfer",
		ServiceCharge: 10.00,
		BankCharge:    2.50,
		PaymentMethod: "Cash",
	}
}

func TestSubmitEntryRedeemsTokenAndComputesTotal(t *testing.T) {
	db := setupServiceTestDB(t, "svc_submit")
	seedActiveToken(t, db, "TKN-SVC-1")

	rs := NewRedemptionService(db)
	entry, err := rs.SubmitEntry(7, validInput("TKN-SVC-1"))

	assert.NoError(t, err)
	assert.Equal(t, uint(7), entry.EmployeeID)
	assert.Equal(t, 12.50, entry.TotalAmount())
	assert.Equal(t, "Completed", entry.Status)

	var token models.Token
	assert.NoError(t, db.Where("token_id = ?", "TKN-SVC-1").First(&token).Error)
	assert.Equal(t, models.TokenStatusUsed, token.Status)
	assert.NotNil(t, token.UsedAt)
}

func TestSubmitEntrySecondRedemptionRejected(t *testing.T) {
	db := setupServiceTestDB(t, "svc_double")
	seedActiveToken(t, db, "TKN-SVC-2")

	rs := NewRedemptionService(db)
	_, err := rs.SubmitEntry(7, validInput("TKN-SVC-2"))
	assert.NoError(t, err)

	// Redemption kedua kena guard compare-and-swap: gagal utuh,
	// tidak ada entry kedua yang tersimpan
	_, err = rs.SubmitEntry(8, validInput("TKN-SVC-2"))
	assert.ErrorIs(t, err, ErrTokenNotRedeemable)

	var count int64
	db.Model(&models.FormEntry{}).Where("token_used = ?", "TKN-SVC-2").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitEntryUnknownTokenPersistsNothing(t *testing.T) {
	db := setupServiceTestDB(t, "svc_unknown")

	rs := NewRedemptionService(db)
	_, err := rs.SubmitEntry(7, validInput("TKN-NEVER-EXISTED"))
	assert.ErrorIs(t, err, ErrTokenNotRedeemable)

	var count int64
	db.Model(&models.FormEntry{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSubmitEntryChargeBoundaries(t *testing.T) {
	db := setupServiceTestDB(t, "svc_charges")
	seedActiveToken(t, db, "TKN-SVC-3")

	rs := NewRedemptionService(db)

	// Negatif ditolak sebelum write apa pun
	negative := validInput("TKN-SVC-3")
	negative.BankCharge = -0.01
	_, err := rs.SubmitEntry(7, negative)
	assert.ErrorIs(t, err, ErrInvalidCharge)

	var token models.Token
	db.Where("token_id = ?", "TKN-SVC-3").First(&token)
	assert.Equal(t, models.TokenStatusActive, token.Status)

	// Nol adalah charge non-negatif yang valid
	zero := validInput("TKN-SVC-3")
	zero.ServiceCharge = 0
	zero.BankCharge = 0
	entry, err := rs.SubmitEntry(7, zero)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, entry.TotalAmount())
}

func TestSubmitEntryRejectsUnknownPaymentMethod(t *testing.T) {
	db := setupServiceTestDB(t, "svc_payment")
	seedActiveToken(t, db, "TKN-SVC-4")

	rs := NewRedemptionService(db)
	bad := validInput("TKN-SVC-4")
	bad.PaymentMethod = "Cheque"
	_, err := rs.SubmitEntry(7, bad)
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestCancelTokenTransitions(t *testing.T) {
	db := setupServiceTestDB(t, "svc_cancel")
	token := seedActiveToken(t, db, "TKN-SVC-5")

	rs := NewRedemptionService(db)
	assert.NoError(t, rs.CancelToken(token.ID))

	var refreshed models.Token
	db.First(&refreshed, token.ID)
	assert.Equal(t, models.TokenStatusCancelled, refreshed.Status)

	// Status terminal: cancel kedua ditolak
	assert.ErrorIs(t, rs.CancelToken(token.ID), ErrTokenNotRedeemable)
}

func TestCancelUsedTokenRejected(t *testing.T) {
	db := setupServiceTestDB(t, "svc_cancel_used")
	token := seedActiveToken(t, db, "TKN-SVC-6")

	rs := NewRedemptionService(db)
	_, err := rs.SubmitEntry(7, validInput("TKN-SVC-6"))
	assert.NoError(t, err)

	// Token yang sudah used tidak bisa dibatalkan
	assert.ErrorIs(t, rs.CancelToken(token.ID), ErrTokenNotRedeemable)

	var refreshed models.Token
	db.First(&refreshed, token.ID)
	assert.Equal(t, models.TokenStatusUsed, refreshed.Status)
}
