package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/crypt"
)

func newAuthService(t *testing.T) (*AuthService, *fixtures) {
	f := newFixtures(t)
	return NewAuthService(f.users, newTestQueue(t)), f
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.Password, "password must be hashed")

	logged, token, err := svc.Login(ctx, "ada", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "ada", "wrong")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	in := RegisterInput{Username: "ada", Email: "ada@example.com", Password: "secret123"}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrUserExists)

	// Same email under a different username is still a conflict.
	_, err = svc.Register(ctx, RegisterInput{
		Username: "ada2", Email: "ada@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, apperr.ErrUserExists)
}

func TestRegisterAdminRole(t *testing.T) {
	svc, _ := newAuthService(t)

	admin, err := svc.RegisterAdmin(context.Background(), RegisterInput{
		Username: "boss", Email: "boss@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestOTPFlow(t *testing.T) {
	svc, f := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Username: "ada", Email: "ada@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendOTP(ctx, "ada@example.com"))

	// The code is stored encrypted with an expiry.
	user, err := f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, user.OTPCode)
	require.NotNil(t, user.OTPExpiresAt)
	code, err := crypt.Decrypt(user.OTPCode)
	require.NoError(t, err)
	require.Len(t, code, 6)

	// Wrong code is rejected, right code verifies.
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	assert.ErrorIs(t, svc.VerifyOTP(ctx, "ada@example.com", wrong), apperr.ErrInvalidOtp)

	require.NoError(t, svc.VerifyOTP(ctx, "ada@example.com", code))
	user, err = f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, user.Verified)
	assert.Empty(t, user.OTPCode, "code is cleared after verification")

	// The code is single-use.
	assert.ErrorIs(t, svc.VerifyOTP(ctx, "ada@example.com", code), apperr.ErrInvalidOtp)
}

func TestOTPExpired(t *testing.T) {
	svc, f := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Username: "ada", Email: "ada@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	require.NoError(t, svc.SendOTP(ctx, "ada@example.com"))

	user, err := f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	code, err := crypt.Decrypt(user.OTPCode)
	require.NoError(t, err)

	// A code presented at (or after) the expiry instant is rejected; the
	// window is half-open.
	now := time.Now()
	require.NoError(t, f.users.SetOTP(ctx, user.ID, user.OTPCode, &now))
	assert.ErrorIs(t, svc.VerifyOTP(ctx, "ada@example.com", code), apperr.ErrOtpExpired)

	// Backdate the expiry.
	past := time.Now().Add(-time.Minute)
	require.NoError(t, f.users.SetOTP(ctx, user.ID, user.OTPCode, &past))

	assert.ErrorIs(t, svc.VerifyOTP(ctx, "ada@example.com", code), apperr.ErrOtpExpired)

	// The purge sweeps the stale code away.
	require.NoError(t, svc.PurgeExpiredOTPs(ctx))
	user, err = f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Empty(t, user.OTPCode)
	assert.Nil(t, user.OTPExpiresAt)
}

func TestSendOTPUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	err := svc.SendOTP(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
