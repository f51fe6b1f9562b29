package security

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenManager mints and verifies HMAC-signed bearer tokens. Tokens are
// stateless: validity is signature plus expiry, nothing is persisted.
type TokenManager struct {
	auth *jwtauth.JWTAuth
	exp  time.Duration
}

func NewTokenManager(key []byte, exp time.Duration) *TokenManager {
	return &TokenManager{
		auth: jwtauth.New("HS256", key, nil),
		exp:  exp,
	}
}

// JWTAuth exposes the verifier used by the router middleware.
func (m *TokenManager) JWTAuth() *jwtauth.JWTAuth {
	return m.auth
}

func (m *TokenManager) GenerateToken(userID int64, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"iat":     now.Unix(),
		"exp":     now.Add(m.exp).Unix(),
	}
	_, tokenString, err := m.auth.Encode(claims)
	return tokenString, err
}

// GetUserIDFromClaims extracts the numeric user id. Depending on the JSON
// decoder the claim arrives as float64, json.Number or int64.
func GetUserIDFromClaims(claims map[string]interface{}) (int64, error) {
	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return 0, errors.New("user_id claim is not a valid number")
		}
		return id, nil
	default:
		return 0, errors.New("user_id claim is missing or not a number")
	}
}

func GetEmailFromClaims(claims map[string]interface{}) (string, error) {
	email, ok := claims["email"].(string)
	if !ok {
		return "", errors.New("email claim is missing or not a string")
	}
	return email, nil
}
