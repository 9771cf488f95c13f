package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/freshcart-app/account-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired is returned when a token's expiry has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims represents the session token contents. The role claim is the
// role at mint time; it is not re-checked against the profile store on
// later requests, so a role or approval change only takes effect once
// the bearer obtains a fresh token.
type Claims struct {
	UserID uuid.UUID       `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// JWTService defines session token operations.
type JWTService interface {
	GenerateAccessToken(userID uuid.UUID, email string, role models.UserRole) (string, error)
	GenerateRefreshToken(userID uuid.UUID, email string, role models.UserRole) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	AccessExpiry() time.Duration
}

type jwtService struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewJWTService creates a new JWTService instance. The signing secret
// is checked here, once: an absent secret means the process cannot
// issue or verify credentials and must not start.
func NewJWTService(secret string, accessExpiry, refreshExpiry time.Duration) (JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt signing secret must not be empty")
	}
	return &jwtService{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}, nil
}

func (s *jwtService) GenerateAccessToken(userID uuid.UUID, email string, role models.UserRole) (string, error) {
	return s.generateToken(userID, email, role, s.accessExpiry)
}

func (s *jwtService) GenerateRefreshToken(userID uuid.UUID, email string, role models.UserRole) (string, error) {
	return s.generateToken(userID, email, role, s.refreshExpiry)
}

func (s *jwtService) AccessExpiry() time.Duration {
	return s.accessExpiry
}

func (s *jwtService) generateToken(userID uuid.UUID, email string, role models.UserRole, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
