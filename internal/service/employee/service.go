package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/auth"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/employee"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employee.CredentialRepository
}

func NewEmployeeService(credentialRepo employee.CredentialRepository) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{CredentialRepository: credentialRepo}
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	credentials, err := s.CredentialRepository.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	out := make([]employee.EmployeeResponse, 0, len(credentials))
	for _, cred := range credentials {
		out = append(out, employee.EmployeeResponse{
			Username:    cred.Username,
			DisplayName: cred.DisplayName,
		})
	}
	return out, nil
}

// Add implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Add(ctx context.Context, req employee.AddEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	username := validator.NormalizeUsername(req.Username)

	// Duplicate check happens before hashing so the store is never
	// touched for a rejected request.
	_, err := s.CredentialRepository.GetByUsername(ctx, username)
	if err == nil {
		return employee.EmployeeResponse{}, employee.ErrUsernameExists
	}
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	cred := employee.Credential{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
	}
	if err := s.CredentialRepository.Create(ctx, cred); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return employee.EmployeeResponse{
		Username:    cred.Username,
		DisplayName: cred.DisplayName,
	}, nil
}

// Remove implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Remove(ctx context.Context, username string) error {
	username = validator.NormalizeUsername(username)

	if _, err := s.CredentialRepository.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to look up employee: %w", err)
	}

	credentials, err := s.CredentialRepository.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}
	if len(credentials) <= 1 {
		return employee.ErrLastEmployee
	}

	if err := s.CredentialRepository.Delete(ctx, username); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

// ResetPassword implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ResetPassword(ctx context.Context, req employee.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	username := validator.NormalizeUsername(req.Username)
	if _, err := s.CredentialRepository.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to look up employee: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.CredentialRepository.UpdatePasswordHash(ctx, username, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ChangePassword implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ChangePassword(ctx context.Context, req employee.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to extract claims from context: %w", err)
	}
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return fmt.Errorf("username claim is missing or invalid")
	}

	cred, err := s.CredentialRepository.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to look up employee: %w", err)
	}

	// Self-service changes re-authenticate with the current password.
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return auth.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.CredentialRepository.UpdatePasswordHash(ctx, username, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
