package models

import "github.com/shopspring/decimal"

// RateType represents how a debt's interest rate is quoted
type RateType string

const (
	RateTypeYearly  RateType = "yearly"
	RateTypeMonthly RateType = "monthly"
)

// IsValid reports whether r is a known rate type.
func (r RateType) IsValid() bool {
	return r == RateTypeYearly || r == RateTypeMonthly
}

// Debt represents money owed by a user.
//
// CurrentBalance is derived from payment history but stored: every debt
// payment transaction subtracts its amount and deleting one adds it back.
// Editing CurrentBalance directly rebases that derivation.
type Debt struct {
	Base
	UserID         string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string          `gorm:"not null" json:"name"`
	InitialBalance decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"initial_balance"`
	CurrentBalance decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"current_balance"`
	RatePercent    decimal.Decimal `gorm:"type:numeric(9,4);not null;default:0" json:"rate_percent"`
	RateType       RateType        `gorm:"not null;default:'yearly'" json:"rate_type"`
	MinPayment     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"min_payment"`
	DueDay         int             `gorm:"not null" json:"due_day"`
}
