package employee

import (
	"context"
)

// EmployeeService defines account management. Add, Remove and
// ResetPassword are admin operations; ChangePassword is self-service and
// re-authenticates with the current password.
type EmployeeService interface {
	List(ctx context.Context) ([]EmployeeResponse, error)
	Add(ctx context.Context, req AddEmployeeRequest) (EmployeeResponse, error)

	// Remove deletes an account. Removing the last remaining account is
	// rejected.
	Remove(ctx context.Context, username string) error

	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
}
