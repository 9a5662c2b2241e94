package company

import "errors"

var (
	ErrCompanyNotFound       = errors.New("company not found")
	ErrCompanyUsernameExists = errors.New("company username already exists")
	ErrInvalidCompanyName    = errors.New("company name cannot be empty")
	ErrNoFieldsToUpdate      = errors.New("no updatable fields provided")
)
