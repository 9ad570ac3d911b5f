package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "debtwise/internal/errors"
	"debtwise/internal/logger"
	"debtwise/internal/models"
	"debtwise/internal/uuid"
)

// userService owns accounts: sign-up, credentials and cascade deletion.
type userService struct {
	db *gorm.DB
}

// NewUserService returns the gorm-backed UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user and seeds the default categories in the
// same database transaction.
func (s *userService) CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var taken int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if taken > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(defaultCategories(user.ID)).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Named("users").Infow("user registered", "user_id", user.ID)
	return user, nil
}

func defaultCategories(userID string) []models.Category {
	var categories []models.Category
	for _, categoryType := range []models.CategoryType{models.CategoryTypeIncome, models.CategoryTypeExpense} {
		for _, name := range models.DefaultCategories[categoryType] {
			categories = append(categories, models.Category{
				UserID: userID,
				Name:   name,
				Type:   categoryType,
			})
		}
	}
	return categories
}

// GetUserByEmail looks up an active account by its normalized email.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.findUser(s.db.Where("email = ? AND is_active = ?", normalizeEmail(email), true))
}

// GetUserByID looks up an account by id. Malformed ids are not found.
func (s *userService) GetUserByID(id string) (*models.User, error) {
	if !uuid.IsValid(id) {
		return nil, apperrors.ErrUserNotFound
	}
	return s.findUser(s.db.Where("id = ?", id))
}

func (s *userService) findUser(query *gorm.DB) (*models.User, error) {
	var user models.User
	err := query.First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.ErrUserNotFound
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// RecordLogin stamps the user's last login time.
func (s *userService) RecordLogin(userID string) error {
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Update("last_login_at", time.Now()).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteUser permanently removes a user together with all their
// transactions, debts and categories.
func (s *userService) DeleteUser(id string) error {
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Transaction{}, &models.Debt{}, &models.Category{}} {
			if err := tx.Unscoped().Where("user_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Where("id = ?", id).Delete(&models.User{}).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Named("users").Infow("user deleted with all owned rows", "user_id", id)
	return nil
}
