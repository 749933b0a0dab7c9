package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shrush07/puff-n-sip-backend/internal/domain"
)

// Identity is a verified caller. Core operations receive it as an
// explicit parameter; nothing reads it from ambient request state.
type Identity struct {
	SubjectID string
	IsAdmin   bool
}

// Role is derived from IsAdmin, not stored.
func (id Identity) Role() string {
	if id.IsAdmin {
		return "admin"
	}
	return "user"
}

// Verifier checks HMAC-signed bearer tokens minted by the account
// service and extracts the subject identity.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(raw string) (Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithLeeway(30*time.Second)) // small clock skew

	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("claims parsing error: %w", domain.ErrUnauthorized)
	}

	sub, _ := claims["id"].(string)
	if sub == "" {
		return Identity{}, fmt.Errorf("user id not found in token: %w", domain.ErrUnauthorized)
	}

	isAdmin, _ := claims["isAdmin"].(bool)

	return Identity{SubjectID: sub, IsAdmin: isAdmin}, nil
}
