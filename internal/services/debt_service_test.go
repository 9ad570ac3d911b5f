package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"debtwise/internal/ledger"
	"debtwise/internal/models"
	"debtwise/internal/testutil"
)

const missingID = "0190a4c2-7f6e-7c3a-9c1e-2b9f4d7e8a10"

func validDebtInput(name string) NewDebtInput {
	return NewDebtInput{
		Name:           name,
		InitialBalance: testutil.Dec("1000"),
		RatePercent:    testutil.Dec("12"),
		RateType:       models.RateTypeYearly,
		MinPayment:     testutil.Dec("100"),
		DueDay:         5,
	}
}

func TestCreateDebt(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		debt, err := svc.CreateDebt(user.ID, validDebtInput("Car loan"))
		testutil.AssertNoError(t, err)

		if debt.ID == "" {
			t.Fatal("expected debt ID")
		}
		testutil.AssertDecimal(t, debt.CurrentBalance, "1000", "current balance")
		testutil.AssertDecimal(t, debt.InitialBalance, "1000", "initial balance")
	})

	t.Run("defaults_rate_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		input := validDebtInput("Card")
		input.RateType = ""
		debt, err := svc.CreateDebt(user.ID, input)
		testutil.AssertNoError(t, err)
		if debt.RateType != models.RateTypeYearly {
			t.Errorf("expected yearly, got %s", debt.RateType)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateDebt(user.ID, validDebtInput("Car loan"))
		testutil.AssertNoError(t, err)
		_, err = svc.CreateDebt(user.ID, validDebtInput("Car loan"))
		testutil.AssertAppError(t, err, "DUPLICATE_DEBT_NAME")
	})

	t.Run("name_reusable_after_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		debt, err := svc.CreateDebt(user.ID, validDebtInput("Car loan"))
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteDebt(user.ID, debt.ID))

		_, err = svc.CreateDebt(user.ID, validDebtInput("Car loan"))
		testutil.AssertNoError(t, err)
	})

	validation := []struct {
		name   string
		mutate func(*NewDebtInput)
	}{
		{"empty_name", func(in *NewDebtInput) { in.Name = " " }},
		{"negative_balance", func(in *NewDebtInput) { in.InitialBalance = testutil.Dec("-1") }},
		{"negative_rate", func(in *NewDebtInput) { in.RatePercent = testutil.Dec("-0.5") }},
		{"negative_min_payment", func(in *NewDebtInput) { in.MinPayment = testutil.Dec("-10") }},
		{"bad_rate_type", func(in *NewDebtInput) { in.RateType = "weekly" }},
		{"due_day_zero", func(in *NewDebtInput) { in.DueDay = 0 }},
		{"due_day_32", func(in *NewDebtInput) { in.DueDay = 32 }},
		{"sub_cent_balance", func(in *NewDebtInput) { in.InitialBalance = testutil.Dec("1000.005") }},
		{"sub_cent_min_payment", func(in *NewDebtInput) { in.MinPayment = testutil.Dec("25.125") }},
		{"rate_beyond_four_places", func(in *NewDebtInput) { in.RatePercent = testutil.Dec("12.00001") }},
	}
	for _, tt := range validation {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			svc := NewDebtService(db)
			user := testutil.CreateTestUser(t, db)

			input := validDebtInput("Loan")
			tt.mutate(&input)
			_, err := svc.CreateDebt(user.ID, input)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		})
	}
}

func TestGetDebt(t *testing.T) {
	t.Run("other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, owner.ID, testutil.Dec("500"), testutil.Dec("5"), testutil.Dec("50"))

		_, err := svc.GetDebtByID(other.ID, debt.ID)
		testutil.AssertAppError(t, err, "DEBT_NOT_FOUND")
	})

	t.Run("malformed_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetDebtByID(user.ID, "42")
		testutil.AssertAppError(t, err, "DEBT_NOT_FOUND")
	})

	t.Run("list_sorted_by_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		_, err := svc.CreateDebt(user.ID, validDebtInput("Zeta"))
		testutil.AssertNoError(t, err)
		_, err = svc.CreateDebt(user.ID, validDebtInput("Alpha"))
		testutil.AssertNoError(t, err)

		debts, err := svc.GetUserDebts(user.ID)
		testutil.AssertNoError(t, err)
		if len(debts) != 2 || debts[0].Name != "Alpha" {
			t.Errorf("unexpected order %v", debts)
		}
	})
}

func TestUpdateDebt(t *testing.T) {
	t.Run("rebase_current_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("100"))

		balance := testutil.Dec("640.25")
		updated, err := svc.UpdateDebt(user.ID, debt.ID, DebtUpdate{CurrentBalance: &balance})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, updated.CurrentBalance, "640.25", "current balance")
		testutil.AssertDecimal(t, updated.InitialBalance, "1000", "initial balance")

		reloaded, err := svc.GetDebtByID(user.ID, debt.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, reloaded.CurrentBalance, "640.25", "persisted balance")
	})

	t.Run("partial_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("100"))

		name := "Mortgage"
		rateType := models.RateTypeMonthly
		dueDay := 28
		updated, err := svc.UpdateDebt(user.ID, debt.ID, DebtUpdate{Name: &name, RateType: &rateType, DueDay: &dueDay})
		testutil.AssertNoError(t, err)

		if updated.Name != "Mortgage" || updated.RateType != models.RateTypeMonthly || updated.DueDay != 28 {
			t.Errorf("unexpected update result %+v", updated)
		}
		testutil.AssertDecimal(t, updated.MinPayment, "100", "min payment")
	})

	t.Run("rename_to_existing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		a, err := svc.CreateDebt(user.ID, validDebtInput("A"))
		testutil.AssertNoError(t, err)
		_, err = svc.CreateDebt(user.ID, validDebtInput("B"))
		testutil.AssertNoError(t, err)

		name := "B"
		_, err = svc.UpdateDebt(user.ID, a.ID, DebtUpdate{Name: &name})
		testutil.AssertAppError(t, err, "DUPLICATE_DEBT_NAME")
	})

	t.Run("keep_own_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		a, err := svc.CreateDebt(user.ID, validDebtInput("A"))
		testutil.AssertNoError(t, err)

		name := "A"
		_, err = svc.UpdateDebt(user.ID, a.ID, DebtUpdate{Name: &name})
		testutil.AssertNoError(t, err)
	})

	t.Run("invalid_due_day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("100"))

		dueDay := 40
		_, err := svc.UpdateDebt(user.ID, debt.ID, DebtUpdate{DueDay: &dueDay})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("sub_cent_rebase_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("100"))

		balance := testutil.Dec("640.255")
		_, err := svc.UpdateDebt(user.ID, debt.ID, DebtUpdate{CurrentBalance: &balance})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		reloaded, err := svc.GetDebtByID(user.ID, debt.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, reloaded.CurrentBalance, "1000", "persisted balance")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateDebt(user.ID, missingID, DebtUpdate{})
		testutil.AssertAppError(t, err, "DEBT_NOT_FOUND")
	})
}

func TestDeleteDebt(t *testing.T) {
	t.Run("soft_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("100"))

		testutil.AssertNoError(t, svc.DeleteDebt(user.ID, debt.ID))

		_, err := svc.GetDebtByID(user.ID, debt.ID)
		testutil.AssertAppError(t, err, "DEBT_NOT_FOUND")

		var count int64
		db.Unscoped().Model(&models.Debt{}).Where("id = ?", debt.ID).Count(&count)
		if count != 1 {
			t.Error("expected debt row to be kept for history")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertAppError(t, svc.DeleteDebt(user.ID, missingID), "DEBT_NOT_FOUND")
	})
}

func TestDebtPaymentHooks(t *testing.T) {
	t.Run("apply_then_reverse", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("100"))

		err := db.Transaction(func(tx *gorm.DB) error {
			applied, err := svc.ApplyPayment(tx, user.ID, debt.ID, testutil.Dec("100"))
			if !applied {
				t.Error("expected payment to apply")
			}
			return err
		})
		testutil.AssertNoError(t, err)

		reloaded, err := svc.GetDebtByID(user.ID, debt.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, reloaded.CurrentBalance, "900", "balance after payment")

		err = db.Transaction(func(tx *gorm.DB) error {
			_, err := svc.ReversePayment(tx, user.ID, debt.ID, testutil.Dec("100"))
			return err
		})
		testutil.AssertNoError(t, err)

		reloaded, err = svc.GetDebtByID(user.ID, debt.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, reloaded.CurrentBalance, "1000", "balance after reversal")
	})

	t.Run("unresolved_debt", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestDebt(t, db, other.ID, testutil.Dec("1000"), testutil.Dec("0"), testutil.Dec("100"))

		for _, id := range []string{missingID, "not-a-uuid", foreign.ID} {
			applied, err := svc.ApplyPayment(db, user.ID, id, testutil.Dec("50"))
			testutil.AssertNoError(t, err)
			if applied {
				t.Errorf("expected %q not to resolve", id)
			}
		}

		reloaded, err := svc.GetDebtByID(other.ID, foreign.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, reloaded.CurrentBalance, "1000", "foreign balance")
	})

	t.Run("rolled_back_with_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("100"))

		_ = db.Transaction(func(tx *gorm.DB) error {
			if _, err := svc.ApplyPayment(tx, user.ID, debt.ID, testutil.Dec("100")); err != nil {
				return err
			}
			return gorm.ErrInvalidData
		})

		reloaded, err := svc.GetDebtByID(user.ID, debt.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, reloaded.CurrentBalance, "1000", "balance after rollback")
	})
}

func TestGetDebtPayments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDebtService(db)
	user := testutil.CreateTestUser(t, db)
	debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("100"))

	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, amount := range []string{"100", "150.50"} {
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, models.DebtPaymentCategory, testutil.Dec(amount), day.AddDate(0, 0, i))
		db.Model(tx).Update("debt_id", debt.ID)
	}
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "food", testutil.Dec("30"), day)

	result, err := svc.GetDebtPayments(user.ID, debt.ID)
	testutil.AssertNoError(t, err)

	if len(result.Payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(result.Payments))
	}
	if !result.Payments[0].Date.After(result.Payments[1].Date) {
		t.Error("expected newest payment first")
	}
	testutil.AssertDecimal(t, result.TotalPaid, "250.50", "total paid")
	testutil.AssertDecimal(t, result.DerivedBalance, "749.50", "derived balance")
}

func TestProjectPayoff(t *testing.T) {
	fixedNow := func() time.Time { return time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC) }

	t.Run("finite", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := &debtService{db: db, now: fixedNow}
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1200"), testutil.Dec("0"), testutil.Dec("100"))

		p, err := svc.ProjectPayoff(user.ID, debt.ID, decimal.Zero)
		testutil.AssertNoError(t, err)
		if p.Status != ledger.StatusOK || p.Duration != "12.0 months" {
			t.Errorf("unexpected projection %+v", p)
		}
		if p.PayoffDate.Format(ledger.PayoffDateLayout) != "14-01-2025" {
			t.Errorf("unexpected payoff date %v", p.PayoffDate)
		}
	})

	t.Run("extra_payment_shortens", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := &debtService{db: db, now: fixedNow}
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("100"))

		base, err := svc.ProjectPayoff(user.ID, debt.ID, decimal.Zero)
		testutil.AssertNoError(t, err)
		faster, err := svc.ProjectPayoff(user.ID, debt.ID, testutil.Dec("100"))
		testutil.AssertNoError(t, err)
		if faster.Months > base.Months {
			t.Errorf("expected extra payment to shorten payoff: %v > %v", faster.Months, base.Months)
		}
	})

	t.Run("never", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := &debtService{db: db, now: fixedNow}
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("5"))

		p, err := svc.ProjectPayoff(user.ID, debt.ID, decimal.Zero)
		testutil.AssertNoError(t, err)
		if p.Status != ledger.StatusNeverPaidOff || p.PayoffDate != nil {
			t.Errorf("unexpected projection %+v", p)
		}
	})

	t.Run("negative_extra", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, testutil.Dec("1000"), testutil.Dec("12"), testutil.Dec("100"))

		_, err := svc.ProjectPayoff(user.ID, debt.ID, testutil.Dec("-1"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ProjectPayoff(user.ID, missingID, decimal.Zero)
		testutil.AssertAppError(t, err, "DEBT_NOT_FOUND")
	})
}
