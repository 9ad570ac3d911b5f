package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	apperrors "debtwise/internal/errors"
	"debtwise/internal/ledger"
)

const (
	transactionsSheet = "Transactions"
	summarySheet      = "Summary"
)

// exportService renders a month of transactions as an xlsx workbook.
type exportService struct {
	transactionService TransactionServicer
	debtService        DebtServicer
}

// NewExportService creates a new ExportServicer.
func NewExportService(transactionService TransactionServicer, debtService DebtServicer) ExportServicer {
	return &exportService{
		transactionService: transactionService,
		debtService:        debtService,
	}
}

// ExportTransactions builds a workbook with a Transactions sheet listing
// the period's transactions and a Summary sheet with its totals.
func (s *exportService) ExportTransactions(userID string, period ledger.Period) ([]byte, string, error) {
	transactions, err := s.transactionService.GetPeriodTransactions(userID, period)
	if err != nil {
		return nil, "", err
	}
	debtNames, err := s.debtService.GetDebtNames(userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	headers := []interface{}{"Date", "Description", "Type", "Category", "Amount", "Debt"}
	if err := f.SetSheetRow(transactionsSheet, "A1", &headers); err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i, t := range transactions {
		debt := ""
		if t.DebtID != nil {
			debt = debtNames[*t.DebtID]
			if debt == "" {
				debt = *t.DebtID
			}
		}
		row := []interface{}{
			ledger.StoredDate(t.Date).Format("2006-01-02"),
			t.Description,
			string(t.Type),
			t.Category,
			t.Amount.InexactFloat64(),
			debt,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := f.SetSheetRow(transactionsSheet, cell, &row); err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	_ = f.SetColWidth(transactionsSheet, "A", "A", 12)
	_ = f.SetColWidth(transactionsSheet, "B", "B", 32)
	_ = f.SetColWidth(transactionsSheet, "C", "D", 14)
	_ = f.SetColWidth(transactionsSheet, "E", "E", 12)
	_ = f.SetColWidth(transactionsSheet, "F", "F", 20)

	if err := writeSummarySheet(f, ledger.Summarize(transactions, period)); err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	filename := fmt.Sprintf("transactions-%04d-%02d.xlsx", period.Year, int(period.Month))
	return buf.Bytes(), filename, nil
}

func writeSummarySheet(f *excelize.File, summary ledger.PeriodSummary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Period", fmt.Sprintf("%04d-%02d", summary.Period.Year, int(summary.Period.Month))},
		{"Total income", summary.TotalIncome.InexactFloat64()},
		{"Total expense", summary.TotalExpense.InexactFloat64()},
		{"Net balance", summary.NetBalance.InexactFloat64()},
		{},
		{"Category", "Expense"},
	}
	for _, ct := range summary.ExpenseByCategory {
		rows = append(rows, []interface{}{ct.Category, ct.Amount.InexactFloat64()})
	}

	for i := range rows {
		if len(rows[i]) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 18)
}
