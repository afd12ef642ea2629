// errors/auth_errors.go
package errors

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email address not verified")
	ErrInvalidPhone       = errors.New("invalid Lebanese phone number")
	ErrOTPSendFailed      = errors.New("failed to send verification code")
	ErrOTPInvalid         = errors.New("verification code is invalid or expired")
	ErrTokenInvalid       = errors.New("invalid or expired token")
)
