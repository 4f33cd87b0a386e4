package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// TokenBytes is the amount of entropy in a session token
const TokenBytes = 32

// ErrInvalidFormat is returned when the Authorization header is unusable
var ErrInvalidFormat = errors.New("invalid token format")

// GenerateToken returns a random hex-encoded session token
func GenerateToken() (string, error) {
	randomBytes := make([]byte, TokenBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(randomBytes), nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.Trim(strings.TrimSpace(authHeader), "\"'")
	if authHeader == "" || strings.EqualFold(authHeader, "Bearer") {
		return "", ErrInvalidFormat
	}

	// Bearer prefix is optional (Swagger UI sends the raw value)
	token := authHeader
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		token = strings.TrimSpace(authHeader[7:])
	}
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrInvalidFormat
	}
	return token, nil
}
