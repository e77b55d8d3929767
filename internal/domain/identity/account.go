package identity

import (
	"regexp"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the authorization role of a staff account
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// BcryptCost is the work factor used for new password hashes
var BcryptCost = bcrypt.DefaultCost

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._\-@]+$`)

// Account is a staff login. The password hash never leaves the domain.
type Account struct {
	shared.BaseEntity
	Username     string
	PasswordHash string
	Role         Role
	Email        string
	Phone        string
}

// AccountDetails carries the editable fields of an account
type AccountDetails struct {
	Username string
	Role     Role
	Email    string
	Phone    string
}

// NewAccount creates an account with a freshly hashed password
func NewAccount(d AccountDetails, password string) (*Account, error) {
	a := &Account{BaseEntity: shared.NewBaseEntity()}
	if err := a.apply(d); err != nil {
		return nil, err
	}
	if err := a.SetPassword(password); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the editable fields. The password is untouched.
func (a *Account) Update(d AccountDetails) error {
	if err := a.apply(d); err != nil {
		return err
	}
	a.Touch()
	return nil
}

// SetPassword replaces the stored hash
func (a *Account) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// VerifyPassword verifies if the provided password matches
func (a *Account) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether the account has the admin role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a *Account) apply(d AccountDetails) error {
	username := strings.TrimSpace(d.Username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers and . _ - @")
	}
	if !d.Role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be 'admin' or 'employee'")
	}

	a.Username = username
	a.Role = d.Role
	a.Email = strings.TrimSpace(d.Email)
	a.Phone = strings.TrimSpace(d.Phone)
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	// bcrypt only looks at the first 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}
	return nil
}
