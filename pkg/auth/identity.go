package auth

import (
	"errors"
	"net/http"
	"strings"

	"cityquest/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityContextKey = "identity"

// UserClaims is what the external identity provider asserts about a request.
// The engine trusts these claims without re-verifying the user.
type UserClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type IdentityAuth struct {
	secret []byte
}

func NewIdentityAuth(secret string) *IdentityAuth {
	return &IdentityAuth{
		secret: []byte(secret),
	}
}

func (a *IdentityAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Info("invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		claims, err := a.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			log.Info("invalid identity token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid identity token"})
			return
		}

		c.Set(identityContextKey, claims)
		c.Next()
	}
}

func (a *IdentityAuth) ParseToken(tokenStr string) (*UserClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*UserClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// Identity returns the verified claims stored by the middleware.
func Identity(c *gin.Context) (*UserClaims, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return nil, false
	}

	claims, ok := value.(*UserClaims)
	if !ok {
		return nil, false
	}

	return claims, true
}
