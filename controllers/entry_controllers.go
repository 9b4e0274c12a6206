package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tokenworks/servicepos-app/models"
	"github.com/tokenworks/servicepos-app/services"
	"github.com/tokenworks/servicepos-app/utils"
	"gorm.io/gorm"
)

type EntryController struct {
	DB         *gorm.DB
	Redemption *services.RedemptionService
}

func NewEntryController(db *gorm.DB) *EntryController {
	return &EntryController{
		DB:         db,
		Redemption: services.NewRedemptionService(db),
	}
}

// CreateEntry -> employee submit entry + redeem token dalam satu transaksi
func (ec *EntryController) CreateEntry(c *gin.Context) {
	var input struct {
		TokenID       string   `json:"token_id" binding:"required"`
		CustomerName  string   `json:"customer_name" binding:"required"`
		ServiceType   string   `json:"service_type" binding:"required"`
		ServiceCharge *float64 `json:"service_charge" binding:"required"`
		BankCharge    *float64 `json:"bank_charge" binding:"required"`
		PaymentMethod string   `json:"payment_method" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userIDInterface, _ := c.Get("user_id")
	employeeID, _ := userIDInterface.(uint)

	entry, err := ec.Redemption.SubmitEntry(employeeID, services.EntryInput{
		TokenID:       input.TokenID,
		CustomerName:  input.CustomerName,
		ServiceType:   input.ServiceType,
		ServiceCharge: *input.ServiceCharge,
		BankCharge:    *input.BankCharge,
		PaymentMethod: input.PaymentMethod,
	})

	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCharge), errors.Is(err, services.ErrInvalidPayment):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, services.ErrTokenNotRedeemable):
			utils.RespondError(c, http.StatusConflict, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.InfoLogger.Printf("Entry recorded: token=%s employee=%d total=%.2f",
		entry.TokenUsed, entry.EmployeeID, entry.TotalAmount())

	utils.RespondJSON(c, http.StatusCreated, "Entry recorded", gin.H{
		"entry":        entry,
		"total_amount": entry.TotalAmount(),
	})
}

// GetTodayEntries -> view employee: hanya entry sendiri, tanggal hari ini
func (ec *EntryController) GetTodayEntries(c *gin.Context) {
	userIDInterface, _ := c.Get("user_id")
	employeeID, _ := userIDInterface.(uint)

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var entries []models.FormEntry
	if err := ec.DB.Where("employee_id = ? AND submitted_at >= ?", employeeID, startOfDay).
		Order("submitted_at DESC").
		Find(&entries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Today's entries", entries)
}

// filteredEntries menerapkan filter manager view: free-text, employee, dan
// date window. Semua filter independen, digabung AND.
func (ec *EntryController) filteredEntries(c *gin.Context) ([]models.FormEntry, error) {
	query := ec.DB.Model(&models.FormEntry{})

	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"customer_name LIKE ? OR service_type LIKE ? OR token_used LIKE ?",
			like, like, like)
	}

	if employee := c.Query("employee_id"); employee != "" && employee != "all" {
		query = query.Where("employee_id = ?", employee)
	}

	now := time.Now()
	switch c.DefaultQuery("range", "all") {
	case "today":
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		query = query.Where("submitted_at >= ?", startOfDay)
	case "week":
		query = query.Where("submitted_at > ?", now.AddDate(0, 0, -7))
	case "month":
		query = query.Where("submitted_at > ?", now.AddDate(0, 0, -30))
	}

	var entries []models.FormEntry
	err := query.Order("submitted_at DESC").Find(&entries).Error
	return entries, err
}

// GetAllEntries -> view manager dengan filter q/employee_id/range
func (ec *EntryController) GetAllEntries(c *gin.Context) {
	entries, err := ec.filteredEntries(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All entries", entries)
}

// DeleteEntry -> hanya manager; entry tidak pernah diupdate, hanya bisa dihapus
func (ec *EntryController) DeleteEntry(c *gin.Context) {
	entryID := c.Param("entry_id")

	res := ec.DB.Delete(&models.FormEntry{}, entryID)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("entry not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Entry deleted", nil)
}

// ExportEntries -> export xlsx dari rows yang sedang terfilter.
// scope=mine membatasi ke entry milik user hari ini (export versi employee).
func (ec *EntryController) ExportEntries(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	role, _ := roleInterface.(string)

	var entries []models.FormEntry
	var err error
	managerExport := role == "manager" && c.Query("scope") != "mine"

	if managerExport {
		entries, err = ec.filteredEntries(c)
	} else {
		userIDInterface, _ := c.Get("user_id")
		employeeID, _ := userIDInterface.(uint)
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		err = ec.DB.Where("employee_id = ? AND submitted_at >= ?", employeeID, startOfDay).
			Order("submitted_at DESC").
			Find(&entries).Error
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var emails map[uint]string
	if managerExport {
		emails = ec.employeeEmails()
	}

	data, filename, err := buildEntriesWorkbook(entries, managerExport, emails)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (ec *EntryController) employeeEmails() map[uint]string {
	var users []models.User
	emails := make(map[uint]string)
	if err := ec.DB.Find(&users).Error; err != nil {
		utils.ErrorLogger.Printf("Error loading users for export: %v", err)
		return emails
	}
	for _, u := range users {
		emails[u.ID] = u.Email
	}
	return emails
}
