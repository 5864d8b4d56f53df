package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyCode       = errors.New("account code cannot be empty")
	ErrEmptyName       = errors.New("account name cannot be empty")
	ErrInvalidCategory = errors.New("invalid account category")
)

// Category classifies a ledger account in the chart of accounts
type Category string

const (
	CategoryAsset     Category = "ASSET"
	CategoryLiability Category = "LIABILITY"
	CategoryEquity    Category = "EQUITY"
	CategoryIncome    Category = "INCOME"
	CategoryExpense   Category = "EXPENSE"
)

// ParseCategory normalizes and validates an account category string
func ParseCategory(raw string) (Category, error) {
	cat := Category(strings.ToUpper(strings.TrimSpace(raw)))
	switch cat {
	case CategoryAsset, CategoryLiability, CategoryEquity, CategoryIncome, CategoryExpense:
		return cat, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidCategory, raw)
	}
}

// Account is one entry in the chart of accounts. The code is the stable,
// globally unique key journal lines reference. Accounts are never deleted,
// only deactivated, so historical entries always resolve.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeCode canonicalizes an account code (trim, uppercase) so lookups
// and uniqueness checks are insensitive to caller formatting.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewAccount creates an active account with a normalized code
func NewAccount(code, name string, category Category) (*Account, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrEmptyCode
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Account{
		ID:        uuid.New(),
		Code:      code,
		Name:      strings.TrimSpace(name),
		Category:  category,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
