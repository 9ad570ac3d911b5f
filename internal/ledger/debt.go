package ledger

import (
	"github.com/shopspring/decimal"

	"debtwise/internal/models"
)

// IsDebtPayment reports whether tx pays down a debt: it must be an expense
// in the debt payment category that references a debt.
func IsDebtPayment(tx *models.Transaction) bool {
	return tx.Type == models.TransactionTypeExpense &&
		tx.Category == models.DebtPaymentCategory &&
		tx.DebtID != nil && *tx.DebtID != ""
}

// ApplyPayment lowers the debt's current balance by amount. The balance is
// not clamped and may go negative.
func ApplyPayment(debt *models.Debt, amount decimal.Decimal) {
	debt.CurrentBalance = debt.CurrentBalance.Sub(amount)
}

// ReversePayment undoes ApplyPayment for the same amount.
func ReversePayment(debt *models.Debt, amount decimal.Decimal) {
	debt.CurrentBalance = debt.CurrentBalance.Add(amount)
}

// Rebase overwrites the current balance. Later payments and reversals are
// applied relative to the new value.
func Rebase(debt *models.Debt, balance decimal.Decimal) {
	debt.CurrentBalance = balance
}

// TotalPaid sums the amounts of the debt payment transactions that
// reference debtID.
func TotalPaid(debtID string, transactions []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for i := range transactions {
		tx := &transactions[i]
		if IsDebtPayment(tx) && *tx.DebtID == debtID {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// DerivedBalance is the balance implied by payment history alone:
// the initial balance minus every payment made against the debt. It equals
// CurrentBalance unless the balance was rebased.
func DerivedBalance(debt *models.Debt, transactions []models.Transaction) decimal.Decimal {
	return debt.InitialBalance.Sub(TotalPaid(debt.ID, transactions))
}
