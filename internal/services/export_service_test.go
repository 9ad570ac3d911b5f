package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"debtwise/internal/ledger"
	"debtwise/internal/models"
	"debtwise/internal/testutil"
)

func TestExportTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	testutil.SeedDefaultCategories(t, db, user.ID)
	debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("100"))

	debts := NewDebtService(db)
	txSvc := NewTransactionService(db, NewCategoryService(db), debts)
	svc := NewExportService(txSvc, debts)

	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "salary", testutil.Dec("2000"), time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "food", testutil.Dec("12.5"), time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "food", testutil.Dec("8"), time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC))
	_, err := txSvc.CreateTransaction(user.ID, NewTransactionInput{
		Type:        models.TransactionTypeExpense,
		Category:    models.DebtPaymentCategory,
		Amount:      testutil.Dec("100"),
		Description: "card payment",
		Date:        time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC),
		DebtID:      &debt.ID,
	})
	testutil.AssertNoError(t, err)

	period, err := ledger.NewPeriod(2024, 5)
	testutil.AssertNoError(t, err)

	data, filename, err := svc.ExportTransactions(user.ID, period)
	testutil.AssertNoError(t, err)

	if filename != "transactions-2024-05.xlsx" {
		t.Errorf("unexpected filename %s", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	t.Run("transactions_sheet", func(t *testing.T) {
		rows, err := f.GetRows(transactionsSheet)
		testutil.AssertNoError(t, err)

		if len(rows) != 4 {
			t.Fatalf("expected header plus 3 rows, got %d", len(rows))
		}
		if rows[0][0] != "Date" || rows[0][5] != "Debt" {
			t.Errorf("unexpected header %v", rows[0])
		}
		if rows[1][0] != "2024-05-02" {
			t.Errorf("expected oldest transaction first, got %v", rows[1])
		}
		if len(rows[3]) < 6 || rows[3][5] != debt.Name {
			t.Errorf("expected debt name in payment row, got %v", rows[3])
		}
	})

	t.Run("summary_sheet", func(t *testing.T) {
		rows, err := f.GetRows(summarySheet)
		testutil.AssertNoError(t, err)

		if rows[0][1] != "2024-05" {
			t.Errorf("unexpected period %v", rows[0])
		}
		if rows[1][1] != "2000" {
			t.Errorf("unexpected income %v", rows[1])
		}
		if rows[2][1] != "112.5" {
			t.Errorf("unexpected expense %v", rows[2])
		}
	})
}

func TestExportTransactionsDeletedDebt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	testutil.SeedDefaultCategories(t, db, user.ID)
	debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("500"), testutil.Dec("0"), testutil.Dec("50"))

	debts := NewDebtService(db)
	txSvc := NewTransactionService(db, NewCategoryService(db), debts)
	svc := NewExportService(txSvc, debts)

	_, err := txSvc.CreateTransaction(user.ID, NewTransactionInput{
		Type:        models.TransactionTypeExpense,
		Category:    models.DebtPaymentCategory,
		Amount:      testutil.Dec("50"),
		Description: "last payment",
		Date:        time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		DebtID:      &debt.ID,
	})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, debts.DeleteDebt(user.ID, debt.ID))

	data, _, err := svc.ExportTransactions(user.ID, ledger.Period{Year: 2024, Month: time.June})
	testutil.AssertNoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(transactionsSheet)
	testutil.AssertNoError(t, err)
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(rows))
	}
	if len(rows[1]) < 6 || rows[1][5] != debt.Name {
		t.Errorf("expected deleted debt's name %q, got %v", debt.Name, rows[1])
	}
}
