package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/signme/signme-backend/pkg/uuid"
)

const (
	RefreshToken = "refresh_token"
	AccessToken  = "access_token"
)

func IsValidTokenType(typ string) bool {
	return typ == RefreshToken || typ == AccessToken
}

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type CustomClaims struct {
	TokenID   uuid.UUID
	TokenType string
	Email     string
	jwt.RegisteredClaims
}

// RefreshTokenRecord is the persisted, hashed form of an issued refresh token.
type RefreshTokenRecord struct {
	ID        uuid.UUID
	Email     string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	LastUsed  *time.Time
}
