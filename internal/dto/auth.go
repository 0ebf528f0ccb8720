package dto

import "github.com/golang-jwt/jwt/v5"

// ==================== Auth DTOs ====================

// NonceResponse login challenge. Message is what the wallet signs.
type NonceResponse struct {
	Success   bool   `json:"success"`
	Nonce     string `json:"nonce"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// AuthRequest Authentication request structure
type AuthRequest struct {
	Address   string `json:"address" binding:"required"`   // base58 ed25519 public key
	Message   string `json:"message" binding:"required"`   // challenge returned by /api/auth/nonce
	Signature string `json:"signature" binding:"required"` // base58 or 0x hex ed25519 signature
}

// AuthResponse Authentication response structure
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

// JWTClaims caller token. Subject is the base58 signer address.
type JWTClaims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}
