package auth

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/auth"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/employee"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type fakeCredentialRepo struct {
	credentials map[string]employee.Credential
}

func (f *fakeCredentialRepo) GetAll(ctx context.Context) ([]employee.Credential, error) {
	out := make([]employee.Credential, 0, len(f.credentials))
	for _, cred := range f.credentials {
		out = append(out, cred)
	}
	return out, nil
}

func (f *fakeCredentialRepo) GetByUsername(ctx context.Context, username string) (employee.Credential, error) {
	cred, ok := f.credentials[username]
	if !ok {
		return employee.Credential{}, employee.ErrEmployeeNotFound
	}
	return cred, nil
}

func (f *fakeCredentialRepo) Create(ctx context.Context, cred employee.Credential) error {
	f.credentials[cred.Username] = cred
	return nil
}

func (f *fakeCredentialRepo) Delete(ctx context.Context, username string) error {
	delete(f.credentials, username)
	return nil
}

func (f *fakeCredentialRepo) UpdatePasswordHash(ctx context.Context, username string, newHash string) error {
	cred := f.credentials[username]
	cred.PasswordHash = newHash
	f.credentials[username] = cred
	return nil
}

func jwtauthContext(t *testing.T, tokenString string, jwtService jwt.Service) context.Context {
	t.Helper()
	token, err := jwtService.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService(t *testing.T) (*AuthServiceImpl, jwt.Service) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeCredentialRepo{credentials: map[string]employee.Credential{
		"alice": {Username: "alice", PasswordHash: string(hash), DisplayName: "Alice Johnson"},
	}}
	jwtService := jwt.NewJWTService("test-secret", "12h")
	return NewAuthService(repo, jwtService, "admin-pass"), jwtService
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "alice",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Alice Johnson", resp.DisplayName)
	assert.Positive(t, resp.ExpiresAt)
}

func TestLogin_UsernameIsNormalized(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "  ALICE ",
		Password: "secret123",
	})

	require.NoError(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "alice",
		Password: "wrong",
	})

	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownUserGetsSameError(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "mallory",
		Password: "secret123",
	})

	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_MissingFieldsRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})

	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAdminLogin_Success(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.AdminLogin(context.Background(), auth.AdminLoginRequest{Password: "admin-pass"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Administrator", resp.DisplayName)
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AdminLogin(context.Background(), auth.AdminLoginRequest{Password: "nope"})

	require.ErrorIs(t, err, auth.ErrInvalidAdminPassword)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, jwtService := newTestService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "alice",
		Password: "secret123",
	})
	require.NoError(t, err)

	token, err := jwtService.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	tokenID := claims["jti"].(string)
	assert.False(t, jwtService.IsTokenRevoked(tokenID))

	ctx := jwtauthContext(t, resp.AccessToken, jwtService)
	require.NoError(t, svc.Logout(ctx))
	assert.True(t, jwtService.IsTokenRevoked(tokenID))
}

func TestLogout_WithoutTokenFails(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Logout(context.Background())

	require.ErrorIs(t, err, auth.ErrInvalidToken)
}
