package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"user-account-api/internal/domain/user"
	"user-account-api/internal/infrastructure/jwt"
)

const (
	CtxPrincipal = "principal"
	CtxClaims    = "claims"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// SessionChecker decides whether an issued token still stands for a live account.
type SessionChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	ResolvePrincipal(ctx context.Context, userID string) (user.Principal, error)
}

// AuthMiddleware stores the principal as the store currently knows it, not as
// the token recorded it at login.
func AuthMiddleware(tokens TokenValidator, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "missing Authorization header"},
			)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token format"},
			)
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token"},
			)
			return
		}
		claimed, err := claims.Principal()
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token"},
			)
			return
		}

		revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusServiceUnavailable,
				gin.H{"error": "session store unavailable"},
			)
			return
		}
		if revoked {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "token revoked"},
			)
			return
		}

		principal, err := sessions.ResolvePrincipal(c.Request.Context(), claimed.UserID)
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "account no longer active"},
			)
			return
		case err != nil:
			c.AbortWithStatusJSON(
				http.StatusServiceUnavailable,
				gin.H{"error": "session store unavailable"},
			)
			return
		}

		c.Set(CtxPrincipal, principal)
		c.Set(CtxClaims, claims)

		c.Next()
	}
}

// RequireUserManager must run after AuthMiddleware.
func RequireUserManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok || !p.Role.CanManageUsers() {
			c.AbortWithStatusJSON(
				http.StatusForbidden,
				gin.H{"error": "insufficient role"},
			)
			return
		}

		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (user.Principal, bool) {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return user.Principal{}, false
	}
	p, ok := v.(user.Principal)
	return p, ok
}

func ClaimsFrom(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}
