package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "debtwise/internal/errors"
	"debtwise/internal/ledger"
	"debtwise/internal/logger"
	"debtwise/internal/models"
	"debtwise/internal/uuid"
)

// debtService handles debt-related business logic.
type debtService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDebtService creates a new DebtServicer.
func NewDebtService(db *gorm.DB) DebtServicer {
	return &debtService{db: db, now: time.Now}
}

// CreateDebt records a new debt whose current balance starts at its
// initial balance.
func (s *debtService) CreateDebt(userID string, input NewDebtInput) (*models.Debt, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.RateType == "" {
		input.RateType = models.RateTypeYearly
	}

	debt := &models.Debt{
		UserID:         userID,
		Name:           input.Name,
		InitialBalance: input.InitialBalance,
		CurrentBalance: input.InitialBalance,
		RatePercent:    input.RatePercent,
		RateType:       input.RateType,
		MinPayment:     input.MinPayment,
		DueDay:         input.DueDay,
	}
	if err := validateDebt(debt); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(userID, debt.Name, ""); err != nil {
		return nil, err
	}

	if err := s.db.Create(debt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debt, nil
}

func validateDebt(debt *models.Debt) error {
	switch {
	case debt.Name == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "debt name is required")
	case debt.InitialBalance.IsNegative():
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance cannot be negative")
	case debt.RatePercent.IsNegative():
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "interest rate cannot be negative")
	case debt.MinPayment.IsNegative():
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "minimum payment cannot be negative")
	case !ledger.FitsPlaces(debt.InitialBalance, ledger.MoneyPlaces),
		!ledger.FitsPlaces(debt.CurrentBalance, ledger.MoneyPlaces),
		!ledger.FitsPlaces(debt.MinPayment, ledger.MoneyPlaces):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "balances and minimum payment cannot have more than 2 decimal places")
	case !ledger.FitsPlaces(debt.RatePercent, ledger.RatePlaces):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "interest rate cannot have more than 4 decimal places")
	case !debt.RateType.IsValid():
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "rate type must be yearly or monthly")
	case debt.DueDay < 1 || debt.DueDay > 31:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "due day must be between 1 and 31")
	}
	return nil
}

// ensureUniqueName fails when another live debt of the user has name.
func (s *debtService) ensureUniqueName(userID, name, exceptID string) error {
	q := s.db.Model(&models.Debt{}).Where("user_id = ? AND name = ?", userID, name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateDebtName
	}
	return nil
}

// GetUserDebts lists the user's debts ordered by name.
func (s *debtService) GetUserDebts(userID string) ([]models.Debt, error) {
	var debts []models.Debt
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debts, nil
}

// GetDebtNames maps the id of every debt the user ever had, deleted ones
// included, to its name. Payments keep pointing at deleted debts.
func (s *debtService) GetDebtNames(userID string) (map[string]string, error) {
	var debts []models.Debt
	if err := s.db.Unscoped().Select("id", "name").Where("user_id = ?", userID).Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	names := make(map[string]string, len(debts))
	for _, d := range debts {
		names[d.ID] = d.Name
	}
	return names, nil
}

// GetDebtByID retrieves a debt owned by the user.
func (s *debtService) GetDebtByID(userID, debtID string) (*models.Debt, error) {
	debt, err := findDebt(s.db, userID, debtID, false)
	if err != nil {
		return nil, err
	}
	if debt == nil {
		return nil, apperrors.ErrDebtNotFound
	}
	return debt, nil
}

// findDebt loads a live debt, returning nil without error when it does not
// exist. With lock set, postgres holds the row until the transaction ends.
func findDebt(db *gorm.DB, userID, debtID string, lock bool) (*models.Debt, error) {
	if !uuid.IsValid(debtID) {
		return nil, nil
	}

	q := db.Where("id = ? AND user_id = ?", debtID, userID)
	if lock && db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var debt models.Debt
	if err := q.First(&debt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &debt, nil
}

// UpdateDebt edits a debt. A new current balance replaces the one derived
// from payments; later payments and reversals apply relative to it.
func (s *debtService) UpdateDebt(userID, debtID string, update DebtUpdate) (*models.Debt, error) {
	debt, err := s.GetDebtByID(userID, debtID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		debt.Name = strings.TrimSpace(*update.Name)
	}
	if update.InitialBalance != nil {
		debt.InitialBalance = *update.InitialBalance
	}
	if update.RatePercent != nil {
		debt.RatePercent = *update.RatePercent
	}
	if update.RateType != nil {
		debt.RateType = *update.RateType
	}
	if update.MinPayment != nil {
		debt.MinPayment = *update.MinPayment
	}
	if update.DueDay != nil {
		debt.DueDay = *update.DueDay
	}
	previous := debt.CurrentBalance
	if update.CurrentBalance != nil {
		ledger.Rebase(debt, *update.CurrentBalance)
	}

	if err := validateDebt(debt); err != nil {
		return nil, err
	}
	if update.Name != nil {
		if err := s.ensureUniqueName(userID, debt.Name, debt.ID); err != nil {
			return nil, err
		}
	}

	if err := s.db.Save(debt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if update.CurrentBalance != nil {
		logger.Get().Infow("debt balance rebased",
			"debt_id", debt.ID,
			"from", previous.String(),
			"to", debt.CurrentBalance.String(),
		)
	}
	return debt, nil
}

// DeleteDebt soft-deletes a debt. Payment transactions keep their
// reference for history; deleting one later restores nothing.
func (s *debtService) DeleteDebt(userID, debtID string) error {
	debt, err := s.GetDebtByID(userID, debtID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(debt).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetDebtPayments returns the debt with its payment history, newest first.
func (s *debtService) GetDebtPayments(userID, debtID string) (*DebtPayments, error) {
	debt, err := s.GetDebtByID(userID, debtID)
	if err != nil {
		return nil, err
	}

	var payments []models.Transaction
	if err := s.db.Where("user_id = ? AND debt_id = ? AND category = ?", userID, debt.ID, models.DebtPaymentCategory).
		Order("date DESC, created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if payments == nil {
		payments = []models.Transaction{}
	}

	return &DebtPayments{
		Debt:           debt,
		Payments:       payments,
		TotalPaid:      ledger.TotalPaid(debt.ID, payments),
		DerivedBalance: ledger.DerivedBalance(debt, payments),
	}, nil
}

// ProjectPayoff estimates when the debt is paid off with the minimum
// payment plus extraPayment each month, counting from today.
func (s *debtService) ProjectPayoff(userID, debtID string, extraPayment decimal.Decimal) (*ledger.Projection, error) {
	if extraPayment.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "extra payment cannot be negative")
	}

	debt, err := s.GetDebtByID(userID, debtID)
	if err != nil {
		return nil, err
	}

	projection := ledger.Project(*debt, extraPayment, s.now())
	return &projection, nil
}

// ApplyPayment subtracts amount from the debt's balance within tx.
func (s *debtService) ApplyPayment(tx *gorm.DB, userID, debtID string, amount decimal.Decimal) (bool, error) {
	return s.mutateBalance(tx, userID, debtID, func(debt *models.Debt) {
		ledger.ApplyPayment(debt, amount)
	})
}

// ReversePayment adds amount back to the debt's balance within tx.
func (s *debtService) ReversePayment(tx *gorm.DB, userID, debtID string, amount decimal.Decimal) (bool, error) {
	return s.mutateBalance(tx, userID, debtID, func(debt *models.Debt) {
		ledger.ReversePayment(debt, amount)
	})
}

func (s *debtService) mutateBalance(tx *gorm.DB, userID, debtID string, mutate func(*models.Debt)) (bool, error) {
	debt, err := findDebt(tx, userID, debtID, true)
	if err != nil || debt == nil {
		return false, err
	}

	mutate(debt)
	if err := tx.Model(debt).Update("current_balance", debt.CurrentBalance).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}
