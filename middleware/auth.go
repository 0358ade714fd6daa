package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/debasish218/pg-manager/auth"
	"github.com/debasish218/pg-manager/models"
	"github.com/debasish218/pg-manager/services"
)

const accountIDKey = "account_id"

// AccountFinder resolves the account a token was issued for.
type AccountFinder interface {
	Get(ctx context.Context, accountID uint) (*models.Account, error)
}

func unauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message},
	})
}

// RequireAccount rejects requests without a valid bearer token, or whose
// account no longer exists, and stores the account id for the handlers.
func RequireAccount(jwtManager *auth.JWTManager, accounts AccountFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			unauthorized(c, "unauthorized", "missing bearer token")
			return
		}

		claims, err := jwtManager.Validate(strings.TrimSpace(token))
		if err != nil {
			unauthorized(c, "unauthorized", "invalid or expired token")
			return
		}

		// a token outlives a deleted account
		if _, err := accounts.Get(c.Request.Context(), claims.AccountID); err != nil {
			if errors.Is(err, services.ErrAccountNotFound) {
				unauthorized(c, services.ErrAccountNotFound.Error(), "account no longer exists")
				return
			}
			log.Error().Err(err).Str("request_id", RequestID(c)).Msg("account lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   gin.H{"code": "internal_error", "message": "internal server error"},
			})
			return
		}

		c.Set(accountIDKey, claims.AccountID)
		c.Next()
	}
}

// AccountID returns the account id set by RequireAccount.
func AccountID(c *gin.Context) uint {
	return c.GetUint(accountIDKey)
}
