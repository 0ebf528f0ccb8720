package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminTokenValidator resolves an admin token to the operator name.
type AdminTokenValidator interface {
	ValidateAdminJWTToken(token string) (string, error)
}

// AdminAuthMiddleware guards admin routes with an admin JWT
type AdminAuthMiddleware struct {
	logger    *logrus.Logger
	validator AdminTokenValidator
}

// NewAdminAuthMiddleware creates the admin auth middleware
func NewAdminAuthMiddleware(logger *logrus.Logger, validator AdminTokenValidator) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		logger:    logger,
		validator: validator,
	}
}

// RequireAdminAuth requires a valid admin token
func (a *AdminAuthMiddleware) RequireAdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, code, message := bearerToken(c)
		if code != "" {
			a.logger.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
				"code":   code,
			}).Warn("Admin auth failed")

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   code,
				"message": message,
			})
			return
		}

		username, err := a.validator.ValidateAdminJWTToken(token)
		if err != nil {
			a.logger.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
				"error":  err.Error(),
			}).Warn("Admin auth failed - invalid token")

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "INVALID_TOKEN",
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set("admin_username", username)
		c.Next()
	}
}
