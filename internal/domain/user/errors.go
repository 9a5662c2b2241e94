package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserEmailExists       = errors.New("email already registered")
	ErrInvalidPasswordLength = errors.New("password must be at least 8 characters")
	ErrOwnerRoleNotAllowed   = errors.New("owner accounts are created at registration only")
	ErrGoogleAccountLinked   = errors.New("google account already linked to another user")
)
