package employee

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/auth"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/employee"
	"golang.org/x/crypto/bcrypt"
)

type fakeCredentialRepo struct {
	credentials []employee.Credential
	mutations   int
}

func (f *fakeCredentialRepo) GetAll(ctx context.Context) ([]employee.Credential, error) {
	out := make([]employee.Credential, len(f.credentials))
	copy(out, f.credentials)
	return out, nil
}

func (f *fakeCredentialRepo) GetByUsername(ctx context.Context, username string) (employee.Credential, error) {
	for _, cred := range f.credentials {
		if cred.Username == username {
			return cred, nil
		}
	}
	return employee.Credential{}, employee.ErrEmployeeNotFound
}

func (f *fakeCredentialRepo) Create(ctx context.Context, cred employee.Credential) error {
	f.mutations++
	f.credentials = append(f.credentials, cred)
	return nil
}

func (f *fakeCredentialRepo) Delete(ctx context.Context, username string) error {
	f.mutations++
	for i, cred := range f.credentials {
		if cred.Username == username {
			f.credentials = append(f.credentials[:i], f.credentials[i+1:]...)
			return nil
		}
	}
	return employee.ErrEmployeeNotFound
}

func (f *fakeCredentialRepo) UpdatePasswordHash(ctx context.Context, username string, newHash string) error {
	f.mutations++
	for i, cred := range f.credentials {
		if cred.Username == username {
			f.credentials[i].PasswordHash = newHash
			return nil
		}
	}
	return employee.ErrEmployeeNotFound
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func seededRepo(t *testing.T) *fakeCredentialRepo {
	t.Helper()
	return &fakeCredentialRepo{credentials: []employee.Credential{
		{Username: "alice", PasswordHash: hashOf(t, "secret123"), DisplayName: "Alice Johnson"},
		{Username: "bob", PasswordHash: hashOf(t, "hunter2"), DisplayName: "Bob Smith"},
	}}
}

func selfServiceContext(t *testing.T, username string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"username":     username,
		"display_name": "Alice Johnson",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestList(t *testing.T) {
	svc := NewEmployeeService(seededRepo(t))

	list, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, employee.EmployeeResponse{Username: "alice", DisplayName: "Alice Johnson"}, list[0])
}

func TestAdd_NormalizesUsername(t *testing.T) {
	repo := seededRepo(t)
	svc := NewEmployeeService(repo)

	resp, err := svc.Add(context.Background(), employee.AddEmployeeRequest{
		Username:    "  Carol ",
		Password:    "pw12345",
		DisplayName: "Carol Danvers",
	})

	require.NoError(t, err)
	assert.Equal(t, "carol", resp.Username)
	stored, err := repo.GetByUsername(context.Background(), "carol")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw12345")))
}

func TestAdd_DuplicateUsernameLeavesStoreUntouched(t *testing.T) {
	repo := seededRepo(t)
	svc := NewEmployeeService(repo)

	_, err := svc.Add(context.Background(), employee.AddEmployeeRequest{
		Username:    "ALICE",
		Password:    "pw12345",
		DisplayName: "Alice Impostor",
	})

	require.ErrorIs(t, err, employee.ErrUsernameExists)
	assert.Zero(t, repo.mutations)
}

func TestAdd_InvalidUsernameRejected(t *testing.T) {
	repo := seededRepo(t)
	svc := NewEmployeeService(repo)

	_, err := svc.Add(context.Background(), employee.AddEmployeeRequest{
		Username:    "a!",
		Password:    "pw12345",
		DisplayName: "Short",
	})

	require.Error(t, err)
	assert.Zero(t, repo.mutations)
}

func TestRemove(t *testing.T) {
	repo := seededRepo(t)
	svc := NewEmployeeService(repo)

	require.NoError(t, svc.Remove(context.Background(), "bob"))

	_, err := repo.GetByUsername(context.Background(), "bob")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestRemove_LastEmployeeRejected(t *testing.T) {
	repo := &fakeCredentialRepo{credentials: []employee.Credential{
		{Username: "alice", PasswordHash: hashOf(t, "secret123"), DisplayName: "Alice Johnson"},
	}}
	svc := NewEmployeeService(repo)

	err := svc.Remove(context.Background(), "alice")

	require.ErrorIs(t, err, employee.ErrLastEmployee)
	assert.Len(t, repo.credentials, 1)
}

func TestRemove_UnknownUsername(t *testing.T) {
	svc := NewEmployeeService(seededRepo(t))

	err := svc.Remove(context.Background(), "mallory")

	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestResetPassword(t *testing.T) {
	repo := seededRepo(t)
	svc := NewEmployeeService(repo)

	err := svc.ResetPassword(context.Background(), employee.ResetPasswordRequest{
		Username:    "bob",
		NewPassword: "new-password",
	})

	require.NoError(t, err)
	stored, err := repo.GetByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")))
}

func TestResetPassword_UnknownUsername(t *testing.T) {
	svc := NewEmployeeService(seededRepo(t))

	err := svc.ResetPassword(context.Background(), employee.ResetPasswordRequest{
		Username:    "mallory",
		NewPassword: "new-password",
	})

	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestChangePassword(t *testing.T) {
	repo := seededRepo(t)
	svc := NewEmployeeService(repo)
	ctx := selfServiceContext(t, "alice")

	err := svc.ChangePassword(ctx, employee.ChangePasswordRequest{
		CurrentPassword:    "secret123",
		NewPassword:        "rotated456",
		ConfirmNewPassword: "rotated456",
	})

	require.NoError(t, err)
	stored, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("rotated456")))
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	repo := seededRepo(t)
	svc := NewEmployeeService(repo)
	ctx := selfServiceContext(t, "alice")

	err := svc.ChangePassword(ctx, employee.ChangePasswordRequest{
		CurrentPassword:    "wrong",
		NewPassword:        "rotated456",
		ConfirmNewPassword: "rotated456",
	})

	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Zero(t, repo.mutations)
}

func TestChangePassword_ConfirmationMismatch(t *testing.T) {
	svc := NewEmployeeService(seededRepo(t))
	ctx := selfServiceContext(t, "alice")

	err := svc.ChangePassword(ctx, employee.ChangePasswordRequest{
		CurrentPassword:    "secret123",
		NewPassword:        "rotated456",
		ConfirmNewPassword: "different",
	})

	require.Error(t, err)
}
