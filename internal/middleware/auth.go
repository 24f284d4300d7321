package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// TokenAuthenticator resolves a bearer token to a user id
type TokenAuthenticator interface {
	Authenticate(token string) (string, error)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// OptionalAuth records the caller's user id when a valid bearer token is
// present and lets every request through
func OptionalAuth(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if userID, err := auth.Authenticate(token); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		userID, err := auth.Authenticate(token)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"statusCode": http.StatusUnauthorized,
		"message":    message,
	})
}

// UserID returns the authenticated user id, if any
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
