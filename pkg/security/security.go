// Package security implements password hashing, the strong-password policy
// and the signed-token codec used for time-boxed flows.
package security

import (
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	apperrors "meetups.app/errors"
)

// SignedTokenTTL is the lifetime of activation tokens embedded in
// verification emails.
const SignedTokenTTL = 48 * time.Hour

// HashPassword hashes a plain-text password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ConfigurationError, "failed to hash password", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type strengthRule struct {
	message string
	pattern *regexp.Regexp
}

// All rules are evaluated independently so the returned message enumerates
// every violated rule, not just the first one.
var strengthRules = []strengthRule{
	{"password is too short", regexp.MustCompile(`.{8}`)},
	{"password needs at least one lower case character", regexp.MustCompile(`[a-z]`)},
	{"password needs at least one upper case character", regexp.MustCompile(`[A-Z]`)},
	{"password needs at least one special character", regexp.MustCompile(`[-_?!@#$%^&*]`)},
	{"password needs at least one number", regexp.MustCompile(`[0-9]`)},
}

// CheckStrength returns a comma-joined list of every violated password rule.
// An empty string means the password passes the policy.
func CheckStrength(password string) string {
	var violations []string
	for _, rule := range strengthRules {
		if !rule.pattern.MatchString(password) {
			violations = append(violations, rule.message)
		}
	}
	return strings.Join(violations, ", ")
}

type signedClaims struct {
	Data string `json:"data"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies self-contained signed tokens
type TokenCodec struct {
	secretKey []byte
}

// NewTokenCodec creates a codec signing with the server secret
func NewTokenCodec(secretKey string) *TokenCodec {
	return &TokenCodec{secretKey: []byte(secretKey)}
}

// Encode wraps the subject into an HS256-signed token with a fixed expiry
func (c *TokenCodec) Encode(subject string) (string, error) {
	claims := signedClaims{
		Data: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SignedTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", apperrors.Wrap(apperrors.TokenError, "failed to sign token", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the embedded subject
func (c *TokenCodec) Decode(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &signedClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.NewTokenError("unexpected signing method")
		}
		return c.secretKey, nil
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.TokenError, "invalid or expired token", err)
	}

	claims, ok := token.Claims.(*signedClaims)
	if !ok || !token.Valid {
		return "", apperrors.NewTokenError("invalid token claims")
	}

	return claims.Data, nil
}
