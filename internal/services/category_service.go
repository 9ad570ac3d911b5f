package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "debtwise/internal/errors"
	"debtwise/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory adds a category for the user. Adding a category that
// already exists with the same name and type is a no-op: the existing row
// is returned with created set to false.
func (s *categoryService) CreateCategory(userID, name string, categoryType models.CategoryType) (*models.Category, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !categoryType.IsValid() {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}

	var existing models.Category
	err := s.db.Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, true, nil
}

// GetUserCategories lists the user's categories ordered by type then name.
func (s *categoryService) GetUserCategories(userID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Order("type ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoriesByType groups the user's category names by type. Both
// types are always present in the result, possibly empty.
func (s *categoryService) GetCategoriesByType(userID string) (map[models.CategoryType][]string, error) {
	categories, err := s.GetUserCategories(userID)
	if err != nil {
		return nil, err
	}

	grouped := map[models.CategoryType][]string{
		models.CategoryTypeIncome:  {},
		models.CategoryTypeExpense: {},
	}
	for _, c := range categories {
		grouped[c.Type] = append(grouped[c.Type], c.Name)
	}
	return grouped, nil
}

// CategoryExists reports whether the user has a category with this name and type.
func (s *categoryService) CategoryExists(userID, name string, categoryType models.CategoryType) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).
		Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}
