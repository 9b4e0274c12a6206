package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tokenworks/servicepos-app/models"
	"github.com/tokenworks/servicepos-app/router"
	"github.com/tokenworks/servicepos-app/tokens"
	"github.com/tokenworks/servicepos-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.FormEntry{},
		&models.DBChange{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

func request(r *gin.Engine, method, path, bearer string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()

	w := request(r, "POST", "/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

// TestEndToEndIntegration menguji flow utama:
// 0. Register manager & employee, login -> JWT
// 1. Manager mint token untuk customer
// 2. Employee validasi token -> valid dengan data customer
// 3. Employee submit entry -> token berpindah ke used, total dihitung
// 4. Validasi ulang token yang sama -> invalid
// 5. Employee cek view today -> entry muncul
// 6. Manager cek dashboard stats
func TestEndToEndIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupTestDB()
	tokenCache := tokens.NewCache(db)
	tokenCache.Refresh()
	r := router.SetupRouter(db, tokenCache)

	// 0. Register + login
	w := request(r, "POST", "/register", "", map[string]string{
		"email": "manager@example.com", "password": "secret123", "role": "manager",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = request(r, "POST", "/register", "", map[string]string{
		"email": "employee@example.com", "password": "secret123", "role": "employee",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	managerToken := loginAs(t, r, "manager@example.com", "secret123")
	employeeToken := loginAs(t, r, "employee@example.com", "secret123")

	// Employee tidak boleh mint token
	w = request(r, "POST", "/api/tokens", employeeToken, map[string]string{
		"customer_name": "Jane Doe", "customer_phone": "5551234567",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 1. Manager mint token
	w = request(r, "POST", "/api/tokens", managerToken, map[string]string{
		"customer_name": "Jane Doe", "customer_phone": "5551234567",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var minted struct {
		Data models.Token `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &minted))
	customerToken := minted.Data.TokenID
	assert.NotEmpty(t, customerToken)

	// 2. Employee validasi token
	w = request(r, "POST", "/api/tokens/validate", employeeToken, map[string]string{
		"token_id": customerToken,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var validated struct {
		Data tokens.Result `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &validated))
	assert.True(t, validated.Data.Valid)
	assert.Equal(t, "Jane Doe", validated.Data.CustomerName)
	assert.Equal(t, "5551234567", validated.Data.CustomerPhone)

	// 3. Employee submit entry
	w = request(r, "POST", "/api/entries", employeeToken, map[string]interface{}{
		"token_id":       customerToken,
		"customer_name":  "Jane Doe",
		"service_type":   "Money Transfer",
		"service_charge": 10.00,
		"bank_charge":    2.50,
		"payment_method": "Cash",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var submitted struct {
		Data struct {
			TotalAmount float64 `json:"total_amount"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitted))
	assert.Equal(t, 12.50, submitted.Data.TotalAmount)

	// 4. Validasi ulang token yang sama -> invalid
	w = request(r, "POST", "/api/tokens/validate", employeeToken, map[string]string{
		"token_id": customerToken,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	validated.Data = tokens.Result{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &validated))
	assert.False(t, validated.Data.Valid)
	assert.Contains(t, validated.Data.Reason, "already used")

	// 5. View today employee
	w = request(r, "GET", "/api/entries/today", employeeToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var today struct {
		Data []models.FormEntry `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &today))
	assert.Len(t, today.Data, 1)
	assert.Equal(t, customerToken, today.Data[0].TokenUsed)

	// 6. Dashboard stats manager
	w = request(r, "GET", "/api/dashboard/stats", managerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Data struct {
			UsedTokens   int64   `json:"used_tokens"`
			TodayEntries int64   `json:"today_entries"`
			TodayTotal   float64 `json:"today_total"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Data.UsedTokens)
	assert.Equal(t, int64(1), stats.Data.TodayEntries)
	assert.Equal(t, 12.50, stats.Data.TodayTotal)

	// Logout mem-blacklist token
	w = request(r, "POST", "/api/logout", employeeToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, "GET", "/api/entries/today", employeeToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
