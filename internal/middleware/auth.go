package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig configures the bearer token middleware
type AuthConfig struct {
	Secret    []byte
	SkipPaths []string
}

// Auth validates the Authorization bearer token and stores user_id (and
// tenant_id when the claim is present) in the gin context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if len(cfg.Secret) == 0 {
		cfg.Secret = []byte(os.Getenv("JWT_SECRET"))
	}

	return func(c *gin.Context) {
		for _, path := range cfg.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization bearer token is required"})
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return cfg.Secret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		userID, _ := claims["sub"].(string)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is missing subject claim"})
			c.Abort()
			return
		}
		c.Set("user_id", userID)

		if tenantID, _ := claims["tenant_id"].(string); tenantID != "" {
			c.Set("tenant_id", tenantID)
		}

		c.Next()
	}
}
