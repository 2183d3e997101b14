package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/pkg/enums"
)

// AccessTokenPayload is the data minted into an access token.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	JTI    string
}

// AccessTokenClaims is the JWT claim set carried by every access token.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"uid"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
