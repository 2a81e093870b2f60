package employee

import (
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/validator"
)

type AddEmployeeRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

func (r *AddEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	username := validator.NormalizeUsername(r.Username)
	if validator.IsEmpty(username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	} else if !validator.IsValidUsername(username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username must be 3-50 characters of a-z, 0-9, '.', '_' or '-'",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if validator.IsEmpty(r.DisplayName) {
		errs = append(errs, validator.ValidationError{
			Field:   "display_name",
			Message: "display name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ResetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}

	if validator.IsEmpty(r.NewPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_password",
			Message: "new password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CurrentPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "current_password",
			Message: "current password is required",
		})
	}

	if validator.IsEmpty(r.NewPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_password",
			Message: "new password is required",
		})
	}

	if r.NewPassword != r.ConfirmNewPassword {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_new_password",
			Message: "new passwords do not match",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}
