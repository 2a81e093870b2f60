package auth

import "errors"

var (
	// ErrInvalidCredentials deliberately covers both unknown usernames
	// and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrInvalidAdminPassword = errors.New("invalid admin password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrAdminOnly            = errors.New("admin privilege required")
)
