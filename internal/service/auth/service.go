package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/auth"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/employee"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/jwt"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

const adminDisplayName = "Administrator"

type AuthServiceImpl struct {
	credentialRepository employee.CredentialRepository
	jwtService           jwt.Service
	adminPassword        string
}

func NewAuthService(
	credentialRepo employee.CredentialRepository,
	jwtService jwt.Service,
	adminPassword string,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		credentialRepository: credentialRepo,
		jwtService:           jwtService,
		adminPassword:        adminPassword,
	}
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	username := validator.NormalizeUsername(req.Username)
	cred, err := s.credentialRepository.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to look up credentials: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(cred.Username, cred.DisplayName, false)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		DisplayName: cred.DisplayName,
	}, nil
}

// AdminLogin implements auth.AuthService.
func (s *AuthServiceImpl) AdminLogin(ctx context.Context, req auth.AdminLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	if req.Password != s.adminPassword {
		return auth.TokenResponse{}, auth.ErrInvalidAdminPassword
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken("admin", adminDisplayName, true)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		DisplayName: adminDisplayName,
	}, nil
}

// Logout implements auth.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return auth.ErrInvalidToken
	}

	tokenID, ok := claims["jti"].(string)
	if !ok || tokenID == "" {
		return auth.ErrInvalidToken
	}

	var expiresAt int64
	switch exp := claims["exp"].(type) {
	case time.Time:
		expiresAt = exp.Unix()
	case float64:
		expiresAt = int64(exp)
	case int64:
		expiresAt = exp
	}

	s.jwtService.RevokeToken(tokenID, expiresAt)
	return nil
}
