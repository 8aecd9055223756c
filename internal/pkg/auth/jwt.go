package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

// PurposePasswordReset marks tokens that allow setting a new password
const PurposePasswordReset = "password_reset"

// ResetTokenConfig defines reset token settings
type ResetTokenConfig struct {
	SecretKey   string
	TTL         time.Duration
	TokenIssuer string
}

// ResetTokenService issues and checks short-lived signed tokens proving that a
// user passed identity verification
type ResetTokenService struct {
	config ResetTokenConfig
	now    func() time.Time
}

// NewResetTokenService creates a new ResetTokenService
func NewResetTokenService(config ResetTokenConfig) *ResetTokenService {
	return &ResetTokenService{config: config, now: time.Now}
}

// ResetClaims defines reset token content
type ResetClaims struct {
	Purpose string `json:"purpose"`
	// Fingerprint binds the token to the password hash it was issued against
	Fingerprint string `json:"pfp"`
	jwt.RegisteredClaims
}

// fingerprint is a keyed digest of a password hash
func (s *ResetTokenService) fingerprint(passwordHash string) string {
	mac := hmac.New(sha256.New, []byte(s.config.SecretKey))
	mac.Write([]byte(passwordHash))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Issue creates a reset token for userID. The token stops being valid once
// the password stored as passwordHash changes.
func (s *ResetTokenService) Issue(userID, passwordHash string) (string, error) {
	now := s.now()
	claims := &ResetClaims{
		Purpose:     PurposePasswordReset,
		Fingerprint: s.fingerprint(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   userID,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature, expiry and purpose of a reset token
func (s *ResetTokenService) Validate(tokenString string) (*ResetClaims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrInvalidPasswordResetToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	},
		jwt.WithIssuer(s.config.TokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidPasswordResetToken, apperrors.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidPasswordResetToken, err)
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid || claims.Purpose != PurposePasswordReset || claims.Subject == "" || claims.Fingerprint == "" {
		return nil, apperrors.ErrInvalidPasswordResetToken
	}
	return claims, nil
}

// Matches reports whether claims were issued against passwordHash
func (s *ResetTokenService) Matches(claims *ResetClaims, passwordHash string) bool {
	return hmac.Equal([]byte(claims.Fingerprint), []byte(s.fingerprint(passwordHash)))
}
