package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roller
const (
	RoleAdmin  = "admin"
	RoleWalker = "walker"
	RoleClient = "client"
)

// DefaultTokenTTL token geçerlilik süresi
const DefaultTokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("geçersiz token")

// Claims JWT payload'ını temsil eder. Tokens are issued by the auth provider;
// this service only validates them (GenerateToken exists for the CLI and tests).
type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager HS256 token imzalar ve doğrular
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager secret ile manager oluşturur
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// GenerateToken kullanıcı için JWT token oluşturur
func (m *TokenManager) GenerateToken(userID int, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token oluşturulamadı: %w", err)
	}
	return tokenString, nil
}

// ValidateToken JWT token'ını doğrular ve claims'i döner
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Signing method kontrolü
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("beklenmeyen signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token süresi dolmuş", ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("%w: role claim eksik", ErrInvalidToken)
	}
	return claims, nil
}
