package api

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/constants"
	"github.com/gin-gonic/gin"
)

// setSessionCookie sets the session cookie with appropriate flags for dev/prod.
func setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	secure := false
	if os.Getenv(constants.EnvSessionSecureCookie) == "1" {
		secure = true
	}
	c.SetCookie(constants.CookieSessionName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// sessionToken extracts the credential from the Authorization bearer header
// or, failing that, the session cookie.
func sessionToken(c *gin.Context) string {
	if h := c.GetHeader(constants.HeaderAuthorization); strings.HasPrefix(h, constants.BearerPrefix) {
		return strings.TrimPrefix(h, constants.BearerPrefix)
	}
	token, err := c.Cookie(constants.CookieSessionName)
	if err != nil {
		return ""
	}
	return token
}

// AuthRequired validates the session credential and injects the verified
// (subject, display name) identity into the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, err := parseAndValidateSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set("userEmail", claims.Sub)
		c.Set("userName", claims.Name)
		c.Next()
	}
}

// currentSubject returns the authenticated subject id set by AuthRequired.
func currentSubject(c *gin.Context) string {
	if v, ok := c.Get("userEmail"); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return ""
}
