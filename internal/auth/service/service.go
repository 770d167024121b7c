// Package service implements authentication: account creation, credential
// checks, and the access/refresh token pair with single-use rotation.
package service

import (
	"context"
	"time"

	"garage_crm_backend/internal/auth/password"
	"garage_crm_backend/internal/auth/repository"
	"garage_crm_backend/internal/auth/token"
	"garage_crm_backend/internal/auth/transport"
	"garage_crm_backend/platform/apperr"
	"garage_crm_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType   = "access"
	refreshTokenBytes = 48

	invalidCredentialsMsg = "invalid credentials"
)

// Service provides authentication business logic.
type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
}

// New creates a new auth service.
func New(repo *repository.Repository, cfg config.AuthServiceConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// SignUp creates a new staff account and signs it in.
func (s *Service) SignUp(ctx context.Context, name, email, plainPassword string) (*transport.AuthResponse, error) {
	taken, err := s.repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("an account with this email already exists")
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := repository.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{"admin"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, &user)
}

// SignIn checks credentials and issues a token pair.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (*transport.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Unauthorized(invalidCredentialsMsg)
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return nil, apperr.Unauthorized(invalidCredentialsMsg)
	}
	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked whether or
// not a new pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*transport.AuthResponse, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return nil, err
	}
	if time.Now().After(expiresAt) {
		return nil, apperr.Unauthorized("refresh token expired")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Unauthorized(invalidCredentialsMsg)
	}
	return s.issueTokens(ctx, user)
}

// SignOut revokes the presented refresh token.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

// GetMe returns the authenticated user's profile.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (*transport.ProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &transport.ProfileResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, nil
}

func (s *Service) issueTokens(ctx context.Context, user *repository.User) (*transport.AuthResponse, error) {
	accessToken, err := s.signJWT(user.ID, user.Roles)
	if err != nil {
		return nil, err
	}

	refreshToken, err := token.GenerateRandomToken(refreshTokenBytes)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, token.HashSHA256(refreshToken), expiresAt); err != nil {
		return nil, err
	}

	return &transport.AuthResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  accessTokenType,
		"roles": roles,
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
