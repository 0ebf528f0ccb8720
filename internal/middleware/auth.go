package middleware

import (
	"net/http"
	"strings"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/handlers"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TokenValidator resolves a caller token to its signer.
type TokenValidator interface {
	ValidateJWTToken(token string) (ledger.Address, error)
}

// AuthMiddleware caller JWT authentication
type AuthMiddleware struct {
	logger    *logrus.Logger
	validator TokenValidator
}

// NewAuthMiddleware creates the caller JWT middleware
func NewAuthMiddleware(logger *logrus.Logger, validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		logger:    logger,
		validator: validator,
	}
}

// bearerToken returns the token and an error code when the header is unusable.
func bearerToken(c *gin.Context) (string, string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "MISSING_AUTH_HEADER", "Authentication required"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "INVALID_AUTH_FORMAT", "Authorization header must be in format: Bearer <token>"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "EMPTY_TOKEN", "Token cannot be empty"
	}
	return token, "", ""
}

// RequireAuth rejects requests without a valid caller token and stores
// the signer address for the handlers.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, code, message := bearerToken(c)
		if code != "" {
			a.logger.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
				"code":   code,
			}).Warn("JWT auth failed")

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   code,
				"message": message,
			})
			return
		}

		signer, err := a.validator.ValidateJWTToken(token)
		if err != nil {
			a.logger.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
				"error":  err.Error(),
			}).Warn("JWT auth failed - token verification failed")

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "INVALID_TOKEN",
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(handlers.SignerContextKey, signer)
		a.logger.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"signer": signer.String(),
		}).Debug("JWT auth succeeded")

		c.Next()
	}
}
