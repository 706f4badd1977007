package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"anoa.com/blogapi/pkg/apperror"
	"anoa.com/blogapi/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

// Claims are the token claims issued by the account service.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.secret) == 0 {
			response.Error(c, apperror.New(http.StatusServiceUnavailable, "authentication is not configured", apperror.ErrUnavailable))
			c.Abort()
			return
		}

		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			response.Error(c, apperror.New(http.StatusUnauthorized, "authorization required", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			message := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				message = "token expired"
			}
			response.Error(c, apperror.New(http.StatusUnauthorized, message, apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := response.GetUserID(c); err != nil {
			response.Error(c, apperror.New(http.StatusUnauthorized, "user not authenticated", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		if c.GetString("role") != RoleAdmin {
			response.Error(c, apperror.New(http.StatusForbidden, "admin access required", apperror.ErrForbidden))
			c.Abort()
			return
		}

		c.Next()
	}
}
