package handlers

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/config"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/dto"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

const (
	challengePrefix = "Universal NFT Bridge Authentication"
	challengeTTL    = 5 * time.Minute
)

// AuthHandler wallet login. A caller proves control of a host address by
// signing a one-time challenge with its ed25519 key.
type AuthHandler struct {
	secret []byte
	issuer string
	ttl    time.Duration
	logger *logrus.Logger

	mu     sync.Mutex
	nonces map[string]time.Time // issued challenge nonce -> expiry
	now    func() time.Time
}

func NewAuthHandler(cfg config.AuthConfig, logger *logrus.Logger) *AuthHandler {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthHandler{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		logger: logger,
		nonces: make(map[string]time.Time),
		now:    time.Now,
	}
}

// GenerateNonceHandler GET /api/auth/nonce
func (h *AuthHandler) GenerateNonceHandler(c *gin.Context) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		respondWithError(c, http.StatusInternalServerError, "INTERNAL", "nonce generation failed")
		return
	}
	nonceStr := hex.EncodeToString(nonce)
	now := h.now()

	h.mu.Lock()
	h.pruneLocked(now)
	h.nonces[nonceStr] = now.Add(challengeTTL)
	h.mu.Unlock()

	c.JSON(http.StatusOK, dto.NonceResponse{
		Success:   true,
		Nonce:     nonceStr,
		Message:   ChallengeMessage(nonceStr, now.Unix()),
		Timestamp: now.Unix(),
	})
}

// ChallengeMessage is the text a wallet signs to log in.
func ChallengeMessage(nonce string, timestamp int64) string {
	return fmt.Sprintf("%s\nNonce: %s\nTimestamp: %d", challengePrefix, nonce, timestamp)
}

// AuthenticateHandler POST /api/auth/login
func (h *AuthHandler) AuthenticateHandler(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.AuthResponse{Success: false, Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	address, err := ledger.ParseAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.AuthResponse{Success: false, Message: "address must be base58"})
		return
	}
	if err := h.verifyChallenge(address, req.Message, req.Signature); err != nil {
		h.logger.WithFields(logrus.Fields{
			"address": req.Address,
			"error":   err.Error(),
		}).Warn("Login rejected")
		c.JSON(http.StatusUnauthorized, dto.AuthResponse{Success: false, Message: err.Error()})
		return
	}

	token, err := GenerateJWTToken(h.secret, h.issuer, h.ttl, address)
	if err != nil {
		h.logger.WithError(err).Error("JWT signing failed")
		c.JSON(http.StatusInternalServerError, dto.AuthResponse{Success: false, Message: "token generation failed"})
		return
	}

	h.logger.WithField("address", address.String()).Info("Login succeeded")
	c.JSON(http.StatusOK, dto.AuthResponse{Success: true, Token: token, Message: "success"})
}

// verifyChallenge checks the signature and consumes the challenge nonce.
func (h *AuthHandler) verifyChallenge(address ledger.Address, message, signature string) error {
	nonce, err := parseChallenge(message)
	if err != nil {
		return err
	}
	sig, err := decodeSignature(signature)
	if err != nil {
		return err
	}
	if !ed25519.Verify(ed25519.PublicKey(address.Bytes()), []byte(message), sig) {
		return fmt.Errorf("signature does not match address")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	expiry, ok := h.nonces[nonce]
	if !ok {
		return fmt.Errorf("unknown or used challenge")
	}
	delete(h.nonces, nonce)
	if h.now().After(expiry) {
		return fmt.Errorf("challenge expired")
	}
	return nil
}

func (h *AuthHandler) pruneLocked(now time.Time) {
	for nonce, expiry := range h.nonces {
		if now.After(expiry) {
			delete(h.nonces, nonce)
		}
	}
}

func parseChallenge(message string) (string, error) {
	lines := strings.Split(message, "\n")
	if len(lines) != 3 || lines[0] != challengePrefix {
		return "", fmt.Errorf("malformed challenge")
	}
	nonce := strings.TrimPrefix(lines[1], "Nonce: ")
	if nonce == lines[1] || nonce == "" {
		return "", fmt.Errorf("malformed challenge")
	}
	if _, err := strconv.ParseInt(strings.TrimPrefix(lines[2], "Timestamp: "), 10, 64); err != nil {
		return "", fmt.Errorf("malformed challenge")
	}
	return nonce, nil
}

func decodeSignature(s string) ([]byte, error) {
	var sig []byte
	var err error
	if strings.HasPrefix(s, "0x") {
		sig, err = hexutil.Decode(s)
	} else {
		sig, err = base58.Decode(s)
	}
	if err != nil || len(sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("signature must be %d bytes", ed25519.SignatureSize)
	}
	return sig, nil
}

// GenerateJWTToken issues a caller token for address.
func GenerateJWTToken(secret []byte, issuer string, ttl time.Duration, address ledger.Address) (string, error) {
	now := time.Now()
	claims := dto.JWTClaims{
		Address: address.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   address.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWTToken parses a caller token and returns the signer it names.
func (h *AuthHandler) ValidateJWTToken(tokenString string) (ledger.Address, error) {
	claims := &dto.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return h.secret, nil
	}, jwt.WithIssuer(h.issuer))
	if err != nil {
		return ledger.Address{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return ledger.Address{}, fmt.Errorf("invalid token")
	}
	return ledger.ParseAddress(claims.Subject)
}
