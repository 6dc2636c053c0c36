package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/goodthings/server/internal/auth"
	"github.com/goodthings/server/internal/domain"
	"github.com/goodthings/server/internal/store"
)

var testSecret = []byte("test-secret")

func newUserService(t *testing.T, users store.Users) (*UserService, *auth.TokenVerifier) {
	t.Helper()
	issuer, err := auth.NewTokenIssuer(testSecret, auth.DefaultTokenTTL)
	require.NoError(t, err)
	verifier, err := auth.NewTokenVerifier(testSecret)
	require.NoError(t, err)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	return NewUserService(users, hasher, issuer), verifier
}

func TestUserService_Register(t *testing.T) {
	svc, verifier := newUserService(t, store.NewMemoryUsers())
	ctx := context.Background()

	token, u, err := svc.Register(ctx, RegisterParams{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, u.ID)

	// The minted token asserts the new account's identity.
	id, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)

	// The stored hash is not the plaintext.
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)
}

func TestUserService_RegisterValidation(t *testing.T) {
	svc, _ := newUserService(t, store.NewMemoryUsers())
	ctx := context.Background()

	tests := []struct {
		name   string
		params RegisterParams
	}{
		{"empty name", RegisterParams{Email: "ann@x.com", Password: "secret1"}},
		{"invalid email", RegisterParams{Name: "Ann", Email: "not-an-email", Password: "secret1"}},
		{"missing email", RegisterParams{Name: "Ann", Password: "secret1"}},
		{"short password", RegisterParams{Name: "Ann", Email: "ann@x.com", Password: "12345"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.params)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	users := store.NewMemoryUsers()
	svc, _ := newUserService(t, users)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterParams{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterParams{Name: "Imposter", Email: "ann@x.com", Password: "secret2"})
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	u, err := users.GetByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
}

func TestUserService_Login(t *testing.T) {
	svc, verifier := newUserService(t, store.NewMemoryUsers())
	ctx := context.Background()

	_, u, err := svc.Register(ctx, RegisterParams{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	token, err := svc.Login(ctx, LoginParams{Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	id, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)
}

func TestUserService_LoginFailuresAreIdentical(t *testing.T) {
	svc, _ := newUserService(t, store.NewMemoryUsers())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterParams{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, LoginParams{Email: "ann@x.com", Password: "wrong"})
	require.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)

	_, unknownEmail := svc.Login(ctx, LoginParams{Email: "ghost@x.com", Password: "secret1"})
	require.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)

	// No enumeration hint: both paths produce the exact same message.
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestUserService_LoginValidation(t *testing.T) {
	svc, _ := newUserService(t, store.NewMemoryUsers())
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginParams{Email: "not-an-email", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Login(ctx, LoginParams{Email: "ann@x.com"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_WhoAmI(t *testing.T) {
	svc, _ := newUserService(t, store.NewMemoryUsers())
	ctx := context.Background()

	_, u, err := svc.Register(ctx, RegisterParams{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := svc.WhoAmI(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", got.Email)

	// Stale identity: the token may outlive the account.
	_, err = svc.WhoAmI(ctx, "gone-user-id")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _ := newUserService(t, store.NewMemoryUsers())
	ctx := context.Background()

	_, u, err := svc.Register(ctx, RegisterParams{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	name := "Ann B"
	password := "newsecret"
	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateParams{Name: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.Name)

	// Old password stops working, new one logs in.
	_, err = svc.Login(ctx, LoginParams{Email: "ann@x.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginParams{Email: "ann@x.com", Password: "newsecret"})
	require.NoError(t, err)

	short := "12345"
	_, err = svc.UpdateProfile(ctx, u.ID, UpdateParams{Password: &short})
	require.ErrorIs(t, err, domain.ErrValidation)
}

// failingUsers simulates an unavailable store.
type failingUsers struct {
	err error
}

func (f failingUsers) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, f.err
}
func (f failingUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, f.err
}
func (f failingUsers) GetByID(context.Context, string) (*domain.User, error) {
	return nil, f.err
}
func (f failingUsers) Update(context.Context, *domain.User) error { return f.err }

func TestUserService_StoreFailureIsNotCredentialError(t *testing.T) {
	storeErr := errors.New("store unavailable")
	svc, _ := newUserService(t, failingUsers{err: storeErr})
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginParams{Email: "ann@x.com", Password: "secret1"})
	require.ErrorIs(t, err, storeErr)
	require.NotErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Register(ctx, RegisterParams{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.ErrorIs(t, err, storeErr)
}
