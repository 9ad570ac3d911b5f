package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"debtwise/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
// Unlike registration it does not seed default categories.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with the given name and type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// SeedDefaultCategories creates the default category set for a user.
func SeedDefaultCategories(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()

	for categoryType, names := range models.DefaultCategories {
		for _, name := range names {
			CreateTestCategory(t, db, userID, name, categoryType)
		}
	}
}

// CreateTestDebt creates a yearly-rate debt whose current balance equals
// its initial balance.
func CreateTestDebt(t *testing.T, db *gorm.DB, userID string, balance, ratePercent, minPayment decimal.Decimal) *models.Debt {
	t.Helper()

	debt := &models.Debt{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Debt %d", nextID()),
		InitialBalance: balance,
		CurrentBalance: balance,
		RatePercent:    ratePercent,
		RateType:       models.RateTypeYearly,
		MinPayment:     minPayment,
		DueDay:         15,
	}
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("failed to create test debt: %v", err)
	}
	return debt
}

// CreateTestTransaction inserts a transaction row directly, without any
// debt balance side effects.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, category string, amount decimal.Decimal, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Date:        date,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Type:        txType,
		Category:    category,
		Amount:      amount,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
