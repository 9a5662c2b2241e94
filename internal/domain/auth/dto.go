package auth

import (
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// RegisterRequest creates a company together with its owner account.
type RegisterRequest struct {
	CompanyName     string `json:"company_name"`
	CompanyUsername string `json:"company_username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	// Company
	if validator.IsEmpty(r.CompanyName) {
		errs.Add("company_name", "company_name is required")
	} else if len(r.CompanyName) > 255 {
		errs.Add("company_name", "company_name must not exceed 255 characters")
	}
	switch {
	case validator.IsEmpty(r.CompanyUsername):
		errs.Add("company_username", "company_username is required")
	case len(r.CompanyUsername) < 3 || len(r.CompanyUsername) > 50:
		errs.Add("company_username", "company_username must be between 3 and 50 characters long")
	case !validator.IsValidCompanyUsername(r.CompanyUsername):
		errs.Add("company_username", "company_username may only contain letters, numbers, dots, underscores, and hyphens")
	}

	validateCredentials(&errs, &r.Email, r.Password)

	if validator.IsEmpty(r.ConfirmPassword) {
		errs.Add("confirm_password", "confirm_password is required")
	} else if r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "password and confirm_password do not match")
	}

	return errs.Err()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors
	validateCredentials(&errs, &r.Email, r.Password)
	return errs.Err()
}

func validateCredentials(errs *validator.ValidationErrors, email *string, password string) {
	*email = strings.ToLower(strings.TrimSpace(*email))

	// Email
	switch {
	case validator.IsEmpty(*email):
		errs.Add("email", "email is required")
	case len(*email) > 254:
		errs.Add("email", "email must not exceed 254 characters")
	case !validator.IsValidEmail(*email):
		errs.Add("email", "email must be a valid email address, e.g. user@example.com")
	}

	// Password
	switch {
	case validator.IsEmpty(password):
		errs.Add("password", "password is required")
	case len(password) < 8:
		errs.Add("password", "password must be at least 8 characters long")
	case len(password) > 72:
		errs.Add("password", "password must not exceed 72 characters")
	}
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	}

	return errs.Err()
}

// GoogleLoginRequest carries the profile returned by Google after the code exchange.
type GoogleLoginRequest struct {
	GoogleID      string
	Email         string
	VerifiedEmail bool
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
