package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeCodeExists  = errors.New("employee code already exists")
	ErrInvalidEmployeeCode = errors.New("invalid employee code format")
	ErrEmployeeInactive    = errors.New("employee is not active")
)
