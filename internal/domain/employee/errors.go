package employee

import "errors"

// Employee domain errors
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrUsernameExists   = errors.New("username already exists")
	ErrLastEmployee     = errors.New("cannot remove the last employee")
)
