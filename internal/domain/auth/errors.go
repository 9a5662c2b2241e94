package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrEmailAlreadyExists  = errors.New("email already registered")

	ErrGoogleLoginDisabled        = errors.New("google login is not configured")
	ErrGoogleEmailNotVerified     = errors.New("google email is not verified")
	ErrGoogleAccountNotRegistered = errors.New("no account is registered for this google email")
	ErrGoogleAccountMismatch      = errors.New("account is linked to a different google account")
)
