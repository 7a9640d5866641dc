package utils

import (
	"errors"
	"time"

	"wayfarer/models"

	"github.com/golang-jwt/jwt"
)

// TokenIssuer signs and validates identity tokens with a shared HMAC secret.
// Tokens are issued by the external authentication service; Generate exists for
// tooling and tests.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// GenerateToken creates a signed JWT token for the caller. The token expires after duration.
func (t *TokenIssuer) GenerateToken(caller models.Caller, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   caller.UserID,
		"email": caller.Email,
		"role":  caller.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func (t *TokenIssuer) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
}

// ExtractCaller validates the token and returns the identity it carries.
func (t *TokenIssuer) ExtractCaller(tokenString string) (models.Caller, error) {
	token, err := t.ValidateToken(tokenString)
	if err != nil {
		return models.Caller{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Caller{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Caller{}, errors.New("token does not contain a valid 'sub' claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleUser
	}
	return models.Caller{UserID: sub, Email: email, Role: role}, nil
}
