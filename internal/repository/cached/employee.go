package cached

import (
	"context"
	"time"

	"github.com/timewise-hq/timeclock-backend-go/internal/domain/employee"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/cache"
)

const credentialsKey = "credentials"

type employeeRepository struct {
	inner employee.CredentialRepository
	store *cache.Store[string, []employee.Credential]
}

func NewEmployeeRepository(inner employee.CredentialRepository, ttl time.Duration) employee.CredentialRepository {
	return &employeeRepository{
		inner: inner,
		store: cache.New[string, []employee.Credential](ttl),
	}
}

func (r *employeeRepository) getAll(ctx context.Context) ([]employee.Credential, error) {
	if credentials, ok := r.store.Get(credentialsKey); ok {
		return credentials, nil
	}

	credentials, err := r.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	r.store.Set(credentialsKey, credentials)
	return credentials, nil
}

// GetAll implements employee.CredentialRepository.
func (r *employeeRepository) GetAll(ctx context.Context) ([]employee.Credential, error) {
	credentials, err := r.getAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]employee.Credential, len(credentials))
	copy(out, credentials)
	return out, nil
}

// GetByUsername implements employee.CredentialRepository. Lookups go
// through the cached list so a login burst costs one query.
func (r *employeeRepository) GetByUsername(ctx context.Context, username string) (employee.Credential, error) {
	credentials, err := r.getAll(ctx)
	if err != nil {
		return employee.Credential{}, err
	}
	for _, cred := range credentials {
		if cred.Username == username {
			return cred, nil
		}
	}
	return employee.Credential{}, employee.ErrEmployeeNotFound
}

// Create implements employee.CredentialRepository.
func (r *employeeRepository) Create(ctx context.Context, cred employee.Credential) error {
	if err := r.inner.Create(ctx, cred); err != nil {
		return err
	}
	r.store.Invalidate(credentialsKey)
	return nil
}

// Delete implements employee.CredentialRepository.
func (r *employeeRepository) Delete(ctx context.Context, username string) error {
	if err := r.inner.Delete(ctx, username); err != nil {
		return err
	}
	r.store.Invalidate(credentialsKey)
	return nil
}

// UpdatePasswordHash implements employee.CredentialRepository.
func (r *employeeRepository) UpdatePasswordHash(ctx context.Context, username string, newHash string) error {
	if err := r.inner.UpdatePasswordHash(ctx, username, newHash); err != nil {
		return err
	}
	r.store.Invalidate(credentialsKey)
	return nil
}
