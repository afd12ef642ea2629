// service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fayhaa-municipality/complaints-api/audit"
	"github.com/fayhaa-municipality/complaints-api/config"
	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
	"github.com/fayhaa-municipality/complaints-api/otp"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	SignUp(ctx context.Context, user model.User, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	SendOTP(ctx context.Context, phoneNumber string) error
	LoginWithOTP(ctx context.Context, phoneNumber, code string) (string, *model.User, error)
	MarkEmailVerified(ctx context.Context, userID string) error
	ParseToken(tokenString string) (*Claims, error)
}

// Claims is the token payload the middleware trusts.
type Claims struct {
	UserID string     `json:"sub"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles sign-up, password login gated on email verification,
// and the OTP phone login flow.
type AuthService struct {
	userDAO  userStore
	userSvc  IUserService
	verifier otp.Verifier
}

var _ IAuthService = &AuthService{}

func NewAuthService(userDAO userStore, userSvc IUserService, verifier otp.Verifier) *AuthService {
	return &AuthService{
		userDAO:  userDAO,
		userSvc:  userSvc,
		verifier: verifier,
	}
}

// SignUp registers a citizen account with a bcrypt password hash. The account
// cannot log in by password until the email is verified.
func (s *AuthService) SignUp(ctx context.Context, user model.User, password string) (*model.User, error) {
	if len(password) < 8 {
		return nil, fayhaa_errors.ErrInvalidUserData
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.EmailVerified = false

	return s.userSvc.RegisterUser(ctx, user)
}

// Login authenticates by email and password. Unverified emails are refused
// with a distinct error so clients can offer the resend flow.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userDAO.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, fayhaa_errors.ErrUserNotFound) {
			return "", nil, fayhaa_errors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Password login failed", zap.String("userID", user.ID))
		return "", nil, fayhaa_errors.ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return "", nil, fayhaa_errors.ErrEmailNotVerified
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	logger.Info("User logged in", zap.String("userID", user.ID))
	return token, user, nil
}

// SendOTP starts a phone login: the number must belong to a registered user.
func (s *AuthService) SendOTP(ctx context.Context, phoneNumber string) error {
	formatted, err := otp.FormatLebanesePhone(phoneNumber)
	if err != nil {
		return err
	}

	if _, err := s.userDAO.GetUserByPhone(ctx, formatted); err != nil {
		return err
	}

	return s.verifier.SendOTP(ctx, phoneNumber)
}

// LoginWithOTP finishes a phone login by checking the code the user received.
func (s *AuthService) LoginWithOTP(ctx context.Context, phoneNumber, code string) (string, *model.User, error) {
	ok, err := s.verifier.VerifyOTP(ctx, phoneNumber, code)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, fayhaa_errors.ErrOTPInvalid
	}

	formatted, err := otp.FormatLebanesePhone(phoneNumber)
	if err != nil {
		return "", nil, err
	}
	user, err := s.userDAO.GetUserByPhone(ctx, formatted)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	logger.Info("User logged in via OTP", zap.String("userID", user.ID))
	return token, user, nil
}

// MarkEmailVerified records that the user proved ownership of their email.
func (s *AuthService) MarkEmailVerified(ctx context.Context, userID string) error {
	_, err := s.userDAO.UpdateUserFields(ctx, userID, audit.ActionUpdateUser, map[string]interface{}{
		"email_verified": true,
	})
	return err
}

func (s *AuthService) issueToken(user *model.User) (string, error) {
	ttl := config.GetDuration("auth.tokenTTL")
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.GetString("auth.jwtSecret")))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.GetString("auth.jwtSecret")), nil
	})
	if err != nil || !token.Valid {
		return nil, fayhaa_errors.ErrTokenInvalid
	}
	return claims, nil
}
