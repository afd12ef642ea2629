// service/auth_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/fayhaa-municipality/complaints-api/config"
	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	"github.com/fayhaa-municipality/complaints-api/model"
)

// stubVerifier answers every OTP check with canned results.
type stubVerifier struct {
	sendErr error
	ok      bool
}

func (s stubVerifier) SendOTP(ctx context.Context, phoneNumber string) error { return s.sendErr }
func (s stubVerifier) VerifyOTP(ctx context.Context, phoneNumber, code string) (bool, error) {
	return s.ok, nil
}

func newTestAuthService(store *fakeUserStore, verifier stubVerifier) *AuthService {
	return NewAuthService(store, newTestUserService(store), verifier)
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, config.InitConfig())

	t.Run("Success", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newTestAuthService(store, stubVerifier{})

		created, err := svc.SignUp(ctx, model.User{
			PhoneNumber: "70499810",
			Email:       "new@fayhaa.test",
			FullName:    "New User",
		}, "s3cret-pass")
		assert.NoError(t, err)
		assert.Equal(t, model.RoleCitizen, created.Role)
		assert.False(t, created.EmailVerified)
		assert.NotEmpty(t, created.PasswordHash)
		assert.NotEqual(t, "s3cret-pass", created.PasswordHash)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newTestAuthService(store, stubVerifier{})

		_, err := svc.SignUp(ctx, model.User{
			PhoneNumber: "70499810",
			Email:       "new@fayhaa.test",
			FullName:    "New User",
		}, "short")
		assert.ErrorIs(t, err, fayhaa_errors.ErrInvalidUserData)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, config.InitConfig())

	verified := &model.User{
		ID:            "u1",
		Email:         "rami@fayhaa.test",
		Role:          model.RoleCitizen,
		EmailVerified: true,
		PasswordHash:  hashFor(t, "s3cret-pass"),
	}

	t.Run("SuccessIssuesParsableToken", func(t *testing.T) {
		store := newFakeUserStore(verified)
		svc := newTestAuthService(store, stubVerifier{})

		token, user, err := svc.Login(ctx, "rami@fayhaa.test", "s3cret-pass")
		assert.NoError(t, err)
		assert.Equal(t, "u1", user.ID)

		claims, err := svc.ParseToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, model.RoleCitizen, claims.Role)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		store := newFakeUserStore(verified)
		svc := newTestAuthService(store, stubVerifier{})

		_, _, err := svc.Login(ctx, "rami@fayhaa.test", "not-the-password")
		assert.ErrorIs(t, err, fayhaa_errors.ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newTestAuthService(store, stubVerifier{})

		_, _, err := svc.Login(ctx, "nobody@fayhaa.test", "s3cret-pass")
		assert.ErrorIs(t, err, fayhaa_errors.ErrInvalidCredentials)
	})

	t.Run("UnverifiedEmail", func(t *testing.T) {
		unverified := &model.User{
			ID:           "u2",
			Email:        "pending@fayhaa.test",
			PasswordHash: hashFor(t, "s3cret-pass"),
		}
		store := newFakeUserStore(unverified)
		svc := newTestAuthService(store, stubVerifier{})

		_, _, err := svc.Login(ctx, "pending@fayhaa.test", "s3cret-pass")
		assert.ErrorIs(t, err, fayhaa_errors.ErrEmailNotVerified)
	})

	t.Run("TamperedToken", func(t *testing.T) {
		store := newFakeUserStore(verified)
		svc := newTestAuthService(store, stubVerifier{})

		token, _, err := svc.Login(ctx, "rami@fayhaa.test", "s3cret-pass")
		assert.NoError(t, err)

		_, err = svc.ParseToken(token + "x")
		assert.ErrorIs(t, err, fayhaa_errors.ErrTokenInvalid)
	})
}

func TestPhoneLogin(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, config.InitConfig())

	user := &model.User{ID: "u1", PhoneNumber: "+961 70 499 810", Role: model.RoleCitizen}

	t.Run("SendOTPUnknownPhone", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newTestAuthService(store, stubVerifier{})

		err := svc.SendOTP(ctx, "70499810")
		assert.ErrorIs(t, err, fayhaa_errors.ErrUserNotFound)
	})

	t.Run("VerifySuccess", func(t *testing.T) {
		store := newFakeUserStore(user)
		svc := newTestAuthService(store, stubVerifier{ok: true})

		token, got, err := svc.LoginWithOTP(ctx, "70499810", "123456")
		assert.NoError(t, err)
		assert.Equal(t, "u1", got.ID)

		claims, err := svc.ParseToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
	})

	t.Run("VerifyRejectedCode", func(t *testing.T) {
		store := newFakeUserStore(user)
		svc := newTestAuthService(store, stubVerifier{ok: false})

		_, _, err := svc.LoginWithOTP(ctx, "70499810", "000000")
		assert.ErrorIs(t, err, fayhaa_errors.ErrOTPInvalid)
	})
}
