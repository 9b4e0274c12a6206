package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tokenworks/servicepos-app/config"
	"github.com/tokenworks/servicepos-app/models"
	"github.com/tokenworks/servicepos-app/services"
	"github.com/tokenworks/servicepos-app/tokens"
	"github.com/tokenworks/servicepos-app/utils"
	"gorm.io/gorm"
)

type TokenController struct {
	DB         *gorm.DB
	Cache      *tokens.Cache
	Validator  *tokens.Validator
	Redemption *services.RedemptionService
}

func NewTokenController(db *gorm.DB, cache *tokens.Cache) *TokenController {
	return &TokenController{
		DB:         db,
		Cache:      cache,
		Validator:  tokens.NewValidator(db, cache),
		Redemption: services.NewRedemptionService(db),
	}
}

// GenerateToken -> manager mint token baru untuk customer
func (tc *TokenController) GenerateToken(c *gin.Context) {
	var input struct {
		CustomerName  string `json:"customer_name" binding:"required"`
		CustomerPhone string `json:"customer_phone" binding:"required"`
		Notes         string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userIDInterface, _ := c.Get("user_id")
	userID, _ := userIDInterface.(uint)

	now := time.Now()

	// Skema identifier dipilih lewat konfigurasi, lihat config.TokenScheme
	var tokenID string
	if config.TokenScheme() == config.TokenSchemeEmbedded {
		tokenID = tokens.NewEmbeddedID(input.CustomerName, input.CustomerPhone)
	} else {
		tokenID = tokens.NewOpaqueID(now)
	}

	// Nomor urut display untuk hari ini
	var todayCount int64
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tc.DB.Model(&models.Token{}).
		Where("generated_at >= ?", startOfDay).
		Count(&todayCount)
	dailyNumber := int(todayCount) + 1

	token := models.Token{
		TokenID:       tokenID,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Notes:         input.Notes,
		GeneratedBy:   userID,
		GeneratedAt:   now,
		Status:        models.TokenStatusActive,
		DailyNumber:   &dailyNumber,
	}

	if err := tc.DB.Create(&token).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Token minted: %s for %s (by user %d)", token.TokenID, token.CustomerName, userID)

	utils.RespondJSON(c, http.StatusCreated, "Token generated", token)
}

// GetAllTokens -> snapshot cache, urut terbaru dulu
func (tc *TokenController) GetAllTokens(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "All tokens", tc.Cache.Snapshot())
}

// ValidateToken -> jalankan strategy chain (decode -> cache -> backend)
func (tc *TokenController) ValidateToken(c *gin.Context) {
	var input struct {
		TokenID string `json:"token_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result := tc.Validator.Validate(input.TokenID)
	utils.RespondJSON(c, http.StatusOK, "Validation result", result)
}

// CancelToken -> manager membatalkan token active (by row id)
func (tc *TokenController) CancelToken(c *gin.Context) {
	var tokenRow models.Token
	if err := tc.DB.First(&tokenRow, c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("token not found"))
		return
	}

	if err := tc.Redemption.CancelToken(tokenRow.ID); err != nil {
		if errors.Is(err, services.ErrTokenNotRedeemable) {
			utils.RespondError(c, http.StatusConflict, errors.New("token is not active"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Token cancelled: %s", tokenRow.TokenID)
	utils.RespondJSON(c, http.StatusOK, "Token cancelled", nil)
}

// SearchTokensByPhone -> pencarian historis by substring nomor telepon
func (tc *TokenController) SearchTokensByPhone(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("phone query parameter required"))
		return
	}

	var result []models.Token
	if err := tc.DB.Where("customer_phone LIKE ?", "%"+phone+"%").
		Order("generated_at DESC").
		Find(&result).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Search result", result)
}

// GenerateSlip -> slip token siap cetak (PDF), dicari by token_id string
func (tc *TokenController) GenerateSlip(c *gin.Context) {
	tokenID := c.Param("id")

	var token models.Token
	if err := tc.DB.Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("token not found"))
		return
	}

	pdfBytes, err := buildTokenSlip(token)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("token_slip_%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
