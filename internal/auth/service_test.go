package auth

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/harvestbites/storefront/internal/models"
	"github.com/harvestbites/storefront/internal/statestore"
	"github.com/harvestbites/storefront/pkg/tokens"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	return &Service{
		Repo:          &GormRepo{DB: db},
		Store:         statestore.NewMemoryStore(),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestRegisterIssuesUsableTokens(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Asha@Example.com", "secret1", "Asha")
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", res.Email)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", claims.Email)
	require.Equal(t, "Asha", claims.Name)
	require.Equal(t, res.UserID.String(), claims.Subject)

	// Tokens are not interchangeable across secrets.
	_, err = tokens.AccessClaimsFromToken(res.AccessToken, svc.RefreshSecret)
	require.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "no-at-sign", "secret1", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "a@b.com", "short", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "asha@example.com", "secret1", "Asha")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ASHA@example.com", "secret2", "Other")
	require.ErrorIs(t, err, ErrConflict)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "asha@example.com", "secret1", "Asha")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)

	_, err = svc.Login(ctx, "asha@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "asha@example.com", "secret1", "Asha")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, reg.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, reg.RefreshToken, rotated.RefreshToken)

	// The old token is revoked by rotation.
	_, err = svc.Refresh(ctx, reg.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The rotated token still works.
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "asha@example.com", "secret1", "Asha")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.RefreshToken))

	_, err = svc.Refresh(ctx, reg.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestOTPFlow(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SendOTP(ctx, "asha@example.com"))

	var code string
	found, err := svc.Store.Get(ctx, statestore.OTPKey("asha@example.com"), &code)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, code, 6)

	require.ErrorIs(t, svc.VerifyOTP(ctx, "asha@example.com", "000000"), ErrOTPMismatch)

	require.NoError(t, svc.VerifyOTP(ctx, "asha@example.com", code))

	// The code is consumed on success.
	require.ErrorIs(t, svc.VerifyOTP(ctx, "asha@example.com", code), ErrOTPMismatch)
}

func TestSendOTPValidation(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	require.ErrorIs(t, svc.SendOTP(context.Background(), "no-at-sign"), ErrValidation)
}
