package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNoToken = errors.New("no token found")

// tokenFromRequest reads the access token from the "token" cookie, falling
// back to an Authorization bearer header for non-browser clients.
func tokenFromRequest(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie("token"); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie), nil
	}

	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		return "", errNoToken
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid token format")
	}
	return parts[1], nil
}

// Auth validates the session token and injects userId, role and email into
// the context. With allowedRoles set, any other role gets a 403.
func Auth(secret string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenValue, err := tokenFromRequest(c)
		if err != nil {
			if errors.Is(err, errNoToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "No token found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			return
		}

		token, err := jwt.Parse(tokenValue, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		userIDValue, ok := claims["sub"].(string)
		if !ok || strings.TrimSpace(userIDValue) == "" {
			log.Println("[AUTH] [ERROR] sub claim missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		userID, err := primitive.ObjectIDFromHex(userIDValue)
		if err != nil {
			log.Println("[AUTH] [ERROR] invalid sub claim")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		role, _ := claims["role"].(string)
		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if role == r {
					match = true
					break
				}
			}
			if !match {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
				return
			}
		}

		email, _ := claims["email"].(string)
		c.Set("userId", userID)
		c.Set("role", role)
		c.Set("email", email)
		c.Next()
	}
}

// AdminAuth is a shorthand for the admin-only guard.
func AdminAuth(secret string) gin.HandlerFunc {
	return Auth(secret, "admin")
}
