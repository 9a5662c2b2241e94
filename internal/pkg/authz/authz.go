// Package authz checks role permissions with a casbin enforcer whose model and
// policy ship inside the binary.
package authz

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
)

//go:embed model.conf
var modelText string

//go:embed policy.csv
var policyText string

type Mode string

const (
	ModeEnforce  Mode = "enforce"
	ModeShadow   Mode = "shadow"
	ModeDisabled Mode = "disabled"
)

// Resources and actions referenced by routes.
const (
	ResourceEmployee     = "employee"
	ResourceCompensation = "compensation"
	ResourceAttendance   = "attendance"
	ResourcePayroll      = "payroll"
	ResourceAssignment   = "assignment"
	ResourceEquipment    = "equipment"
	ResourceCompany      = "company"
	ResourceUser         = "user"

	ActionRead     = "read"
	ActionWrite    = "write"
	ActionFinalize = "finalize"
)

var ErrDisabledNotAllowed = errors.New("authz: AUTHZ_MODE=disabled requires AUTHZ_UNSAFE_ALLOW_DISABLED=1")

// ParseMode reads an AUTHZ_MODE value. Disabled mode opens every protected
// route, so it is refused unless allowUnsafeDisabled is set.
func ParseMode(raw string, allowUnsafeDisabled bool) (Mode, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ModeEnforce, nil
	}
	switch Mode(raw) {
	case ModeEnforce, ModeShadow:
		return Mode(raw), nil
	case ModeDisabled:
		if !allowUnsafeDisabled {
			return "", ErrDisabledNotAllowed
		}
		return ModeDisabled, nil
	default:
		return "", errors.New("authz: invalid mode (expected enforce|shadow|disabled)")
	}
}

type Authorizer struct {
	enforcer *casbin.Enforcer
	mode     Mode
}

// NewAuthorizer builds an enforcer from the embedded model and policy.
func NewAuthorizer(mode Mode) (*Authorizer, error) {
	return NewAuthorizerWithPolicy(mode, policyText)
}

// NewAuthorizerWithPolicy builds an enforcer from the embedded model and a policy in casbin CSV form.
func NewAuthorizerWithPolicy(mode Mode, policy string) (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: load model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(policy))
	if err != nil {
		return nil, fmt.Errorf("authz: create enforcer: %w", err)
	}
	return &Authorizer{enforcer: enforcer, mode: mode}, nil
}

func SubjectFromRole(role string) string {
	role = strings.TrimSpace(strings.ToLower(role))
	if role == "" {
		role = "anonymous"
	}
	return "role:" + role
}

func (a *Authorizer) Mode() Mode {
	return a.mode
}

// Authorize reports whether role may perform action on object and whether the decision is enforced.
func (a *Authorizer) Authorize(role string, object string, action string) (allowed bool, enforced bool, err error) {
	switch a.mode {
	case ModeDisabled:
		return true, false, nil
	case ModeShadow:
		ok, err := a.enforcer.Enforce(SubjectFromRole(role), object, action)
		if err != nil {
			return false, false, err
		}
		return ok, false, nil
	case ModeEnforce:
		ok, err := a.enforcer.Enforce(SubjectFromRole(role), object, action)
		if err != nil {
			return false, true, err
		}
		return ok, true, nil
	default:
		return false, false, errors.New("authz: unknown mode")
	}
}
