package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"resto-tracker/internal/models"
)

// TokenTTL is how long a session token stays valid.
const TokenTTL = 24 * time.Hour

// GenerateToken signs a session JWT for an authenticated account. The
// middleware later extracts the uid and role claims into the request
// context; services receive the acting account explicitly from there.
func GenerateToken(account *models.Account, jwtSecret string) (string, error) {
	if account == nil {
		return "", fmt.Errorf("cannot generate token without an account")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"uid":  fmt.Sprintf("%d", account.ID),
		"role": account.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
