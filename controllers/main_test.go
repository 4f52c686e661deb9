package controllers_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/luckyfive/lottery-backend/config"
	"github.com/luckyfive/lottery-backend/models"
	"github.com/luckyfive/lottery-backend/routes"
	"github.com/luckyfive/lottery-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Lottery{}, &models.Ticket{}, &models.Transaction{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	config.DB = db
	services.Lottery = services.NewService(db, rand.New(rand.NewSource(1)))

	r := gin.New()
	routes.SetupRoutes(r)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

// registerUser registers via the API and returns the session cookies.
func registerUser(t *testing.T, r *gin.Engine, username, phone string) []*http.Cookie {
	t.Helper()
	payload := fmt.Sprintf(`{"username":%q,"phone":%q,"password":"secret123"}`, username, phone)
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", payload, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register %s: expected 200, got %d (%s)", username, w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func deposit(t *testing.T, r *gin.Engine, cookies []*http.Cookie, amount int64) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/wallet/deposit", fmt.Sprintf(`{"amount":%d}`, amount), cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("deposit: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
}
