package controllers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tokenworks/servicepos-app/models"
	"github.com/tokenworks/servicepos-app/utils"
	"github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> angka ringkasan untuk dashboard manager
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var activeTokens, usedTokens, cancelledTokens int64
	ac.DB.Model(&models.Token{}).Where("status = ?", models.TokenStatusActive).Count(&activeTokens)
	ac.DB.Model(&models.Token{}).Where("status = ?", models.TokenStatusUsed).Count(&usedTokens)
	ac.DB.Model(&models.Token{}).Where("status = ?", models.TokenStatusCancelled).Count(&cancelledTokens)

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var todayEntries int64
	ac.DB.Model(&models.FormEntry{}).Where("submitted_at >= ?", startOfDay).Count(&todayEntries)

	type sums struct {
		Service float64
		Bank    float64
	}
	var s sums
	ac.DB.Model(&models.FormEntry{}).
		Select("COALESCE(SUM(service_charge),0) as service, COALESCE(SUM(bank_charge),0) as bank").
		Where("submitted_at >= ?", startOfDay).
		Scan(&s)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"active_tokens":    activeTokens,
		"used_tokens":      usedTokens,
		"cancelled_tokens": cancelledTokens,
		"today_entries":    todayEntries,
		"today_total":      s.Service + s.Bank,
	})
}

// GetReportChart -> bar chart PNG: total amount per hari, 7 hari terakhir
func (ac *AdminController) GetReportChart(c *gin.Context) {
	now := time.Now()
	days := 7

	var bars []chart.Value
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 0, 1)

		type sums struct {
			Service float64
			Bank    float64
		}
		var s sums
		ac.DB.Model(&models.FormEntry{}).
			Select("COALESCE(SUM(service_charge),0) as service, COALESCE(SUM(bank_charge),0) as bank").
			Where("submitted_at >= ? AND submitted_at < ?", start, end).
			Scan(&s)

		bars = append(bars, chart.Value{
			Label: start.Format("01-02"),
			Value: s.Service + s.Bank,
		})
	}

	// go-chart menolak bar chart dengan semua nilai nol
	allZero := true
	for _, b := range bars {
		if b.Value > 0 {
			allZero = false
			break
		}
	}
	if allZero {
		utils.RespondJSON(c, http.StatusOK, "No data to chart", nil)
		return
	}

	graph := chart.BarChart{
		Title:    "Takings per day",
		Height:   400,
		BarWidth: 40,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
