package ledger

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"debtwise/internal/models"
)

// CategoryTotal is the summed expense amount of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// PeriodSummary aggregates one month of transactions. It is derived on
// every query and never stored.
type PeriodSummary struct {
	Period            Period
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	NetBalance        decimal.Decimal
	ExpenseByCategory []CategoryTotal
}

// ChartData is the expense breakdown as parallel label/value sequences.
type ChartData struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}

// Chart returns the expense breakdown in chart form.
func (s PeriodSummary) Chart() ChartData {
	chart := ChartData{
		Labels: make([]string, 0, len(s.ExpenseByCategory)),
		Data:   make([]decimal.Decimal, 0, len(s.ExpenseByCategory)),
	}
	for _, ct := range s.ExpenseByCategory {
		chart.Labels = append(chart.Labels, ct.Category)
		chart.Data = append(chart.Data, ct.Amount)
	}
	return chart
}

// MarshalJSON renders the summary with the expense breakdown in chart form.
func (s PeriodSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year              int             `json:"year"`
		Month             int             `json:"month"`
		TotalIncome       decimal.Decimal `json:"total_income"`
		TotalExpense      decimal.Decimal `json:"total_expense"`
		NetBalance        decimal.Decimal `json:"net_balance"`
		ExpenseByCategory ChartData       `json:"expense_by_category"`
	}{
		Year:              s.Period.Year,
		Month:             int(s.Period.Month),
		TotalIncome:       s.TotalIncome,
		TotalExpense:      s.TotalExpense,
		NetBalance:        s.NetBalance,
		ExpenseByCategory: s.Chart(),
	})
}

// Summarize totals the transactions dated within period. Transactions
// outside the period are ignored. Categories in the expense breakdown are
// ordered by name so that identical inputs give identical output.
func Summarize(transactions []models.Transaction, period Period) PeriodSummary {
	summary := PeriodSummary{
		Period:            period,
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		ExpenseByCategory: []CategoryTotal{},
	}

	byCategory := make(map[string]decimal.Decimal)
	for i := range transactions {
		tx := &transactions[i]
		if !period.Contains(tx.Date) {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
		case models.TransactionTypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)
			byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount)
		}
	}
	summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpense)

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		summary.ExpenseByCategory = append(summary.ExpenseByCategory, CategoryTotal{
			Category: name,
			Amount:   byCategory[name],
		})
	}

	return summary
}
