package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrWrongTokenUse = errors.New("token used for wrong purpose")
)

// Claims carried by both access and refresh tokens. Use distinguishes the
// two so a refresh token cannot authenticate a request directly.
type Claims struct {
	UserID  uint64 `json:"user_id"`
	IsStaff bool   `json:"is_staff"`
	Use     string `json:"use"`
	jwt.RegisteredClaims
}

const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// TokenManager signs and verifies the short-lived tokens carried in cookies.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (m *TokenManager) generate(userID uint64, isStaff bool, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		IsStaff: isStaff,
		Use:     use,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// GenerateAccessToken mints a short-lived access token.
func (m *TokenManager) GenerateAccessToken(userID uint64, isStaff bool) (string, error) {
	return m.generate(userID, isStaff, UseAccess, m.accessTTL)
}

// GenerateRefreshToken mints a refresh token.
func (m *TokenManager) GenerateRefreshToken(userID uint64, isStaff bool) (string, error) {
	return m.generate(userID, isStaff, UseRefresh, m.refreshTTL)
}

// Parse verifies the signature and expiry and checks the token use.
func (m *TokenManager) Parse(tokenString, expectedUse string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.Use != expectedUse {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}

// AccessTTL exposes the access token lifetime for cookie max-age.
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL exposes the refresh token lifetime for cookie max-age.
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }
