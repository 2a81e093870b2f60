package employee

import (
	"context"
)

// CredentialRepository is the credential store. Implementations retry
// transient backend failures internally and invalidate any read cache
// after every mutation. GetAll preserves the store's iteration order
// (creation order), which the payroll export depends on.
type CredentialRepository interface {
	GetAll(ctx context.Context) ([]Credential, error)
	GetByUsername(ctx context.Context, username string) (Credential, error)

	// Create appends a credential; the username must not exist yet.
	Create(ctx context.Context, cred Credential) error

	// Delete removes the credential for username.
	Delete(ctx context.Context, username string) error

	// UpdatePasswordHash replaces the stored hash for username.
	UpdatePasswordHash(ctx context.Context, username string, newHash string) error
}
