package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+\.]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Customer is the aggregate root of the partner context
type Customer struct {
	shared.BaseAggregateRoot
	Code        string
	Name        string
	Phone       string
	Address     string
	Email       *string // stored case-folded
	Tier        Tier
	CreatedDate time.Time
}

// CustomerDetails carries the client-editable fields of a customer
type CustomerDetails struct {
	Name        string
	Phone       string
	Address     string
	Email       string
	CreatedDate time.Time // zero means today
}

// NewCustomer creates a new customer. Every customer starts in TierNew;
// the code is assigned when the customer is persisted.
func NewCustomer(d CustomerDetails) (*Customer, error) {
	c := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Tier:              TierNew,
	}
	if err := c.apply(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields. Code and tier are left untouched.
func (c *Customer) Update(d CustomerDetails) error {
	if err := c.apply(d); err != nil {
		return err
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}

// AssignCode sets the business code issued by the numbering sequence
func (c *Customer) AssignCode(code string) {
	c.Code = code
}

// ApplySpend recomputes the tier from a lifetime order total and
// reports whether it changed
func (c *Customer) ApplySpend(total decimal.Decimal) bool {
	tier := TierFor(total)
	if tier == c.Tier {
		return false
	}
	c.Tier = tier
	return true
}

// IsVIP reports whether the customer is in the VIP tier
func (c *Customer) IsVIP() bool {
	return c.Tier == TierVIP
}

// EmailOrEmpty returns the stored email or ""
func (c *Customer) EmailOrEmpty() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}

// DisplayLabel is the dropdown label, e.g. "KH0001-Nguyen Van A"
func (c *Customer) DisplayLabel() string {
	return c.Code + "-" + c.Name
}

func (c *Customer) apply(d CustomerDetails) error {
	name := strings.TrimSpace(d.Name)
	phone := strings.TrimSpace(d.Phone)

	if err := validateCustomerName(name); err != nil {
		return err
	}
	if err := validatePhone(phone); err != nil {
		return err
	}
	email, err := NormalizeEmail(d.Email)
	if err != nil {
		return err
	}
	if len(d.Address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	c.Name = name
	c.Phone = phone
	c.Address = strings.TrimSpace(d.Address)
	c.Email = email
	if d.CreatedDate.IsZero() {
		c.CreatedDate = shared.Today()
	} else {
		c.CreatedDate = shared.DateOf(d.CreatedDate)
	}
	return nil
}

// NormalizeEmail validates an optional email and returns its case-folded form.
// An empty input yields nil.
func NormalizeEmail(email string) (*string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	if len(email) > 200 {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	// Casers are stateful, so each call gets its own
	folded := cases.Fold().String(email)
	return &folded, nil
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 20 characters")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}
