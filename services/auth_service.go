package services

import (
	"errors"
	"time"

	"dominion/models"

	"github.com/golang-jwt/jwt/v5"
)

const sessionDuration = 24 * time.Hour

type AuthService struct {
	players   *PlayerService
	jwtSecret string
}

func NewAuthService(players *PlayerService, jwtSecret string) *AuthService {
	return &AuthService{
		players:   players,
		jwtSecret: jwtSecret,
	}
}

// CreateSession issues a signed session token for a wallet address.
// The UI holds it for the duration of a play session; game routes stay
// open and only the profile endpoint requires it.
func (s *AuthService) CreateSession(address string) (string, error) {
	normalized := models.NormalizeAddress(address)
	if normalized == "" {
		return "", errors.New("address is required")
	}

	claims := jwt.MapClaims{
		"address": normalized,
		"exp":     time.Now().Add(sessionDuration).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetProfile returns the player record and score for a session's
// address.
func (s *AuthService) GetProfile(address string) (*models.Player, int, error) {
	player, err := s.players.GetPlayer(address)
	if err != nil {
		return nil, 0, err
	}
	return player, ComputeScore(player), nil
}
