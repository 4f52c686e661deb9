package middleware

import (
	"net/http"
	"time"

	"github.com/luckyfive/lottery-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookie = "lottery_session"
	UserIDKey     = "userID"

	sessionTTL = 24 * time.Hour
)

// IssueSession signs a session token for the user and sets it as an
// HttpOnly cookie on the response.
func IssueSession(c *gin.Context, userID uint) error {
	claims := jwt.MapClaims{
		"sub": float64(userID),
		"exp": time.Now().Add(sessionTTL).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(config.SessionSecret())
	if err != nil {
		return err
	}

	c.SetCookie(SessionCookie, signed, int(sessionTTL.Seconds()), "/", "", config.SecureCookies(), true)
	return nil
}

// ClearSession expires the session cookie.
func ClearSession(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", config.SecureCookies(), true)
}

// SessionUserID returns the user ID from the session cookie, if a valid
// session is present.
func SessionUserID(c *gin.Context) (uint, bool) {
	tokenStr, err := c.Cookie(SessionCookie)
	if err != nil || tokenStr == "" {
		return 0, false
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return config.SessionSecret(), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, false
	}

	return uint(sub), true
}

// Authenticated rejects requests without a valid session.
func Authenticated(c *gin.Context) {
	userID, ok := SessionUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Not authenticated",
		})
		return
	}

	c.Set(UserIDKey, userID)
	c.Next()
}
