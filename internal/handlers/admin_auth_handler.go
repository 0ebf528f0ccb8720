package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/sirupsen/logrus"
)

const adminRole = "admin"

// AdminAuthHandler operator login with password and TOTP.
type AdminAuthHandler struct {
	cfg    config.AdminConfig
	secret []byte
	issuer string
	logger *logrus.Logger
}

// AdminLoginRequest admin login body
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code" binding:"required"`
}

// AdminLoginResponse admin login result
type AdminLoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

// AdminJWTClaims admin JWT claims
type AdminJWTClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func NewAdminAuthHandler(admin config.AdminConfig, auth config.AuthConfig, logger *logrus.Logger) *AdminAuthHandler {
	if admin.TOTPSecret == "" || admin.Password == "" {
		logger.Warn("Admin TOTP secret or password not configured, admin login disabled")
	}
	if admin.Username == "" {
		admin.Username = "admin"
	}
	return &AdminAuthHandler{
		cfg:    admin,
		secret: []byte(auth.JWTSecret),
		issuer: auth.Issuer + "-admin",
		logger: logger,
	}
}

// AdminLoginHandler POST /api/admin/login
func (h *AdminAuthHandler) AdminLoginHandler(c *gin.Context) {
	if h.cfg.TOTPSecret == "" || h.cfg.Password == "" {
		c.JSON(http.StatusServiceUnavailable, AdminLoginResponse{
			Success: false,
			Message: "Admin login is not configured",
		})
		return
	}

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AdminLoginResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid request: %v", err),
		})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.Password)) == 1
	if !userOK || !passOK {
		h.logger.WithField("client_ip", c.ClientIP()).Warn("Admin login rejected")
		c.JSON(http.StatusUnauthorized, AdminLoginResponse{
			Success: false,
			Message: "Invalid credentials",
		})
		return
	}

	if !totp.Validate(req.TOTPCode, h.cfg.TOTPSecret) {
		c.JSON(http.StatusUnauthorized, AdminLoginResponse{
			Success: false,
			Message: "Invalid TOTP code",
		})
		return
	}

	token, err := h.generateAdminJWTToken(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AdminLoginResponse{
			Success: false,
			Message: "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, AdminLoginResponse{
		Success: true,
		Token:   token,
		Message: "Login successful",
	})
}

// GenerateTOTPSecretHandler GET /api/admin/totp/generate. Only served
// while no secret is configured.
func (h *AdminAuthHandler) GenerateTOTPSecretHandler(c *gin.Context) {
	if h.cfg.TOTPSecret != "" {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "TOTP secret already configured",
		})
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Universal NFT Bridge",
		AccountName: h.cfg.Username,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to generate TOTP secret",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"secret":  key.Secret(),
		"url":     key.URL(),
		"message": "Save this secret to ADMIN_TOTP_SECRET.",
	})
}

func (h *AdminAuthHandler) generateAdminJWTToken(username string) (string, error) {
	now := time.Now()
	claims := AdminJWTClaims{
		Username: username,
		Role:     adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(12 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    h.issuer,
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateAdminJWTToken parses an admin token and returns the username
func (h *AdminAuthHandler) ValidateAdminJWTToken(tokenString string) (string, error) {
	claims := &AdminJWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return h.secret, nil
	}, jwt.WithIssuer(h.issuer))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if claims.Role != adminRole {
		return "", fmt.Errorf("insufficient permissions")
	}
	return claims.Username, nil
}
