package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a financial transaction in the system.
// Transactions are created and deleted, never edited.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `gorm:"not null" json:"description"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Category    string          `gorm:"not null" json:"category"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`

	// Set only on debt payment transactions
	DebtID *string `gorm:"type:uuid;index" json:"debt_id,omitempty"`

	// Relationships
	Debt *Debt `gorm:"foreignKey:DebtID" json:"debt,omitempty"`
}

// AfterFind puts Date back in UTC. Dates are stored as UTC midnights but
// postgres returns them in the session zone.
func (t *Transaction) AfterFind(tx *gorm.DB) error {
	t.Date = t.Date.UTC()
	return nil
}
