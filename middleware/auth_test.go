package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func issueTestSession(t *testing.T, userID uint) *http.Cookie {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	if err := IssueSession(c, userID); err != nil {
		t.Fatalf("issue session: %v", err)
	}

	cookies := w.Result().Cookies()
	for _, cookie := range cookies {
		if cookie.Name == SessionCookie {
			return cookie
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	cookie := issueTestSession(t, 42)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(cookie)

	userID, ok := SessionUserID(c)
	if !ok {
		t.Fatal("expected valid session")
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestSessionCookieSecureFlag(t *testing.T) {
	cookie := issueTestSession(t, 1)
	if cookie.Secure {
		t.Fatal("cookie should not be Secure without COOKIE_SECURE")
	}

	t.Setenv("COOKIE_SECURE", "true")
	cookie = issueTestSession(t, 1)
	if !cookie.Secure {
		t.Fatal("cookie should be Secure with COOKIE_SECURE=true")
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must stay HttpOnly")
	}
}

func TestSessionRejectsGarbageToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-token"})

	if _, ok := SessionUserID(c); ok {
		t.Fatal("garbage token must not authenticate")
	}
}

func TestAuthenticatedMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Authenticated, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(UserIDKey)})
	})

	// Without a session.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	// With a session.
	cookie := issueTestSession(t, 7)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
