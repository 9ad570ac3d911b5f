package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// DebtPaymentCategory is the expense category whose transactions pay down a debt.
const DebtPaymentCategory = "debt payment"

// DefaultCategories are seeded for every new user.
var DefaultCategories = map[CategoryType][]string{
	CategoryTypeExpense: {"food", "transport", DebtPaymentCategory, "entertainment"},
	CategoryTypeIncome:  {"salary", "side income"},
}

// Category represents a transaction category. Categories are unique per
// (user, name, type) and are never renamed or removed.
type Category struct {
	Base
	UserID string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string       `gorm:"not null" json:"name"`
	Type   CategoryType `gorm:"not null" json:"type"`
}

// IsValid reports whether t is a known category type.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}
