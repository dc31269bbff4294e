package middleware

import (
	"context"
	"medprep_backend/internal/config"
	"medprep_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenRevoker answers whether a token id has been revoked via logout.
type TokenRevoker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) bool
}

func AuthMiddleware(cfg *config.Config, revoker TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFromRequest(c, cfg, revoker)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuthMiddleware attaches claims when a valid token is present but
// lets anonymous requests through. Endpoints behind it personalize
// their response when they can.
func TryAuthMiddleware(cfg *config.Config, revoker TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := claimsFromRequest(c, cfg, revoker); claims != nil {
			c.Set("user", claims)
		}
		c.Next()
	}
}

func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if !claims.IsStaff {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context, cfg *config.Config, revoker TokenRevoker) *util.Claims {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return nil
	}

	claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
	if err != nil {
		return nil
	}
	if revoker != nil && revoker.IsTokenRevoked(c.Request.Context(), claims.ID) {
		return nil
	}
	return claims
}
