package services

import (
	"fmt"
	"time"

	"github.com/Dosada05/bracket-manager/utils"
	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleOrganizer = "organizer"
	tokenTTL      = 12 * time.Hour
)

type AuthService interface {
	// Login checks the operator password and issues a signed token.
	Login(password string) (token string, expiresAt time.Time, err error)
}

type authService struct {
	passwordHash string
	jwtSecret    []byte
	now          func() time.Time
}

// NewAuthService takes the bcrypt hash of the operator password. With an
// empty hash every login fails with ErrAuthNotConfigured.
func NewAuthService(passwordHash, jwtSecret string) AuthService {
	return &authService{
		passwordHash: passwordHash,
		jwtSecret:    []byte(jwtSecret),
		now:          time.Now,
	}
}

func (s *authService) Login(password string) (string, time.Time, error) {
	if len(s.passwordHash) == 0 {
		return "", time.Time{}, ErrAuthNotConfigured
	}
	if !utils.CheckPasswordHash(password, s.passwordHash) {
		return "", time.Time{}, ErrAuthInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(tokenTTL)
	claims := jwt.MapClaims{
		"role": RoleOrganizer,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}
