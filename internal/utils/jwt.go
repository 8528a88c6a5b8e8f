package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is what a parsed token carries: who the caller is and which
// role (and branch, for branch operators) they act as.
type TokenClaims struct {
	UserID   uuid.UUID
	Role     string
	BranchID *uuid.UUID
}

type jwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	BranchID string `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the provided actor.
func GenerateToken(secret string, userID uuid.UUID, role string, branchID *uuid.UUID, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if branchID != nil {
		claims.BranchID = branchID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the embedded actor claims.
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, jwt.ErrTokenInvalidClaims
	}

	parsed := &TokenClaims{UserID: userID, Role: claims.Role}
	if claims.BranchID != "" {
		if branchID, err := uuid.Parse(claims.BranchID); err == nil {
			parsed.BranchID = &branchID
		}
	}
	return parsed, nil
}
