package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"debtwise/internal/ledger"
	"debtwise/internal/models"
	"debtwise/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	RecordLogin(userID string) error
	DeleteUser(id string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType) (category *models.Category, created bool, err error)
	GetUserCategories(userID string) ([]models.Category, error)
	GetCategoriesByType(userID string) (map[models.CategoryType][]string, error)
	CategoryExists(userID, name string, categoryType models.CategoryType) (bool, error)
}

// DebtUpdate carries the debt fields to change; nil fields are left alone.
// Setting CurrentBalance rebases the balance.
type DebtUpdate struct {
	Name           *string
	InitialBalance *decimal.Decimal
	CurrentBalance *decimal.Decimal
	RatePercent    *decimal.Decimal
	RateType       *models.RateType
	MinPayment     *decimal.Decimal
	DueDay         *int
}

// DebtPayments is a debt together with the payment transactions made against it.
type DebtPayments struct {
	Debt           *models.Debt         `json:"debt"`
	Payments       []models.Transaction `json:"payments"`
	TotalPaid      decimal.Decimal      `json:"total_paid"`
	DerivedBalance decimal.Decimal      `json:"derived_balance"`
}

// NewDebtInput holds the fields for creating a debt.
type NewDebtInput struct {
	Name           string
	InitialBalance decimal.Decimal
	RatePercent    decimal.Decimal
	RateType       models.RateType
	MinPayment     decimal.Decimal
	DueDay         int
}

// DebtServicer defines the contract for debt-related business logic.
type DebtServicer interface {
	CreateDebt(userID string, input NewDebtInput) (*models.Debt, error)
	GetUserDebts(userID string) ([]models.Debt, error)
	GetDebtByID(userID, debtID string) (*models.Debt, error)
	GetDebtNames(userID string) (map[string]string, error)
	UpdateDebt(userID, debtID string, update DebtUpdate) (*models.Debt, error)
	DeleteDebt(userID, debtID string) error
	GetDebtPayments(userID, debtID string) (*DebtPayments, error)
	ProjectPayoff(userID, debtID string, extraPayment decimal.Decimal) (*ledger.Projection, error)

	// ApplyPayment and ReversePayment run inside the caller's database
	// transaction. They report false when the debt does not resolve.
	ApplyPayment(tx *gorm.DB, userID, debtID string, amount decimal.Decimal) (bool, error)
	ReversePayment(tx *gorm.DB, userID, debtID string, amount decimal.Decimal) (bool, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Type      *models.TransactionType
	Category  *string
	DebtID    *string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// NewTransactionInput holds the fields for recording a transaction.
type NewTransactionInput struct {
	Type        models.TransactionType
	Category    string
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	DebtID      *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, input NewTransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetRecentTransactions(userID string, limit int) ([]models.Transaction, error)
	GetPeriodTransactions(userID string, period ledger.Period) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// Dashboard is everything the overview screen shows for one month.
type Dashboard struct {
	Summary            ledger.PeriodSummary             `json:"summary"`
	RecentTransactions []models.Transaction             `json:"recent_transactions"`
	Debts              []models.Debt                    `json:"debts"`
	Categories         map[models.CategoryType][]string `json:"categories"`
	Years              []int                            `json:"years"`
}

// SummaryServicer defines the contract for period reporting.
type SummaryServicer interface {
	GetMonthlySummary(userID string, period ledger.Period) (*ledger.PeriodSummary, error)
	GetDashboard(userID string, period ledger.Period) (*Dashboard, error)
}

// ExportServicer defines the contract for spreadsheet exports.
type ExportServicer interface {
	ExportTransactions(userID string, period ledger.Period) (data []byte, filename string, err error)
}
