package service

import (
	"context"
	"time"

	"bistro/internal/config"
	"bistro/internal/dto"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService signs identity claims into bearer tokens.
type AuthService interface {
	IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
}

type authService struct {
	cfg *config.Config
	now func() time.Time
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg, now: time.Now}
}

func (s *authService) IssueToken(_ context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"email": req.Email,
		"name":  req.Name,
		"exp":   now.Add(s.cfg.TokenTTL()).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.AccessTokenSecret))
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: signed}, nil
}
