package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "debtwise/internal/errors"
	"debtwise/internal/ledger"
	"debtwise/internal/logger"
	"debtwise/internal/models"
	"debtwise/internal/pagination"
	"debtwise/internal/uuid"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	categoryService CategoryServicer
	debtService     DebtServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categoryService CategoryServicer, debtService DebtServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		categoryService: categoryService,
		debtService:     debtService,
	}
}

// CreateTransaction records a transaction. A debt payment lowers the
// referenced debt's balance in the same database transaction; when the
// debt cannot be found the transaction is still recorded, without the
// reference and without touching any balance.
func (s *transactionService) CreateTransaction(userID string, input NewTransactionInput) (*models.Transaction, error) {
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	if input.DebtID != nil && strings.TrimSpace(*input.DebtID) == "" {
		input.DebtID = nil
	}

	if !input.Type.IsValid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if input.Amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}
	if !ledger.FitsPlaces(input.Amount, ledger.MoneyPlaces) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot have more than 2 decimal places")
	}
	if input.Description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if input.Category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if input.DebtID != nil && (input.Type != models.TransactionTypeExpense || input.Category != models.DebtPaymentCategory) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "only debt payment expenses may reference a debt")
	}

	exists, err := s.categoryService.CategoryExists(userID, input.Category, models.CategoryType(input.Type))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrInvalidCategory
	}

	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Date:        ledger.DateOf(input.Date),
		Description: input.Description,
		Type:        input.Type,
		Category:    input.Category,
		Amount:      input.Amount,
		DebtID:      input.DebtID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if ledger.IsDebtPayment(transaction) {
			applied, err := s.debtService.ApplyPayment(tx, userID, *transaction.DebtID, transaction.Amount)
			if err != nil {
				return err
			}
			if !applied {
				logger.Get().Warnw("debt payment references unknown debt; recording without balance change",
					"user_id", userID,
					"debt_id", *transaction.DebtID,
				)
				transaction.DebtID = nil
			}
		}

		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if filter.DebtID != nil && !uuid.IsValid(*filter.DebtID) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid debt_id")
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", ledger.DateOf(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", ledger.DateOf(*f.ToDate))
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.DebtID != nil {
		q = q.Where("debt_id = ?", *f.DebtID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetRecentTransactions returns at most limit of the user's newest transactions.
func (s *transactionService) GetRecentTransactions(userID string, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// GetPeriodTransactions returns the user's transactions dated within period.
func (s *transactionService) GetPeriodTransactions(userID string, period ledger.Period) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, period.First(), period.Last().AddDate(0, 0, 1)).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if !uuid.IsValid(transactionID) {
		return nil, apperrors.ErrTransactionNotFound
	}

	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction deletes a transaction. Deleting a debt payment adds
// its stored amount back to the debt in the same database transaction,
// unless the debt no longer exists.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if !ledger.IsDebtPayment(transaction) {
			return nil
		}
		restored, err := s.debtService.ReversePayment(tx, userID, *transaction.DebtID, transaction.Amount)
		if err != nil {
			return err
		}
		if !restored {
			logger.Get().Infow("debt for deleted payment no longer exists; nothing to restore",
				"transaction_id", transaction.ID,
				"debt_id", *transaction.DebtID,
			)
		}
		return nil
	})
}
