package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// IPAllowlist admits loopback clients and the configured IPs or CIDR ranges.
type IPAllowlist struct {
	logger   *logrus.Logger
	exact    []net.IP
	networks []*net.IPNet
}

func NewIPAllowlist(logger *logrus.Logger, allowedIPs []string) *IPAllowlist {
	l := &IPAllowlist{logger: logger}
	for _, allowed := range allowedIPs {
		allowed = strings.TrimSpace(allowed)
		if allowed == "" {
			continue
		}
		if strings.Contains(allowed, "/") {
			_, ipNet, err := net.ParseCIDR(allowed)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"allowed": allowed,
					"error":   err.Error(),
				}).Warn("Invalid CIDR in allowedIPs")
				continue
			}
			l.networks = append(l.networks, ipNet)
			continue
		}
		if ip := net.ParseIP(allowed); ip != nil {
			l.exact = append(l.exact, ip)
		} else {
			logger.WithField("allowed", allowed).Warn("Invalid IP in allowedIPs")
		}
	}
	return l
}

// Restrict aborts requests from addresses outside the allowlist.
func (l *IPAllowlist) Restrict() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if !l.Allowed(clientIP) {
			l.logger.WithFields(logrus.Fields{
				"client_ip":  clientIP,
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
				"user_agent": c.GetHeader("User-Agent"),
			}).Warn("Reject non-whitelisted access to admin API")

			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "IP_NOT_ALLOWED",
				"message": "This API is only accessible from allowed IP addresses",
			})
			return
		}
		c.Next()
	}
}

// Allowed reports whether ip may reach the admin API.
func (l *IPAllowlist) Allowed(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	if parsed.IsLoopback() {
		return true
	}
	for _, allowed := range l.exact {
		if allowed.Equal(parsed) {
			return true
		}
	}
	for _, ipNet := range l.networks {
		if ipNet.Contains(parsed) {
			return true
		}
	}
	return false
}
