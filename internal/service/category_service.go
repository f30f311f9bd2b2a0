package service

import (
	"context"

	"courseforge/internal/models"
	"courseforge/pkg/validator"
)

type CategoryService struct {
	backend CategoryBackend
}

func NewCategoryService(categoryBackend CategoryBackend) *CategoryService {
	return &CategoryService{backend: categoryBackend}
}

// List returns public categories; admin listings carry associated course
// counts.
func (s *CategoryService) List(ctx context.Context, admin bool) ([]models.Category, error) {
	return s.backend.Categories(ctx, admin)
}

func (s *CategoryService) Create(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	name := validator.SanitizeString(req.Name)
	if name == "" {
		return nil, newValidationError("category name is required")
	}
	return s.backend.CreateCategory(ctx, name, validator.SanitizeString(req.Description))
}

func (s *CategoryService) Update(ctx context.Context, id uint, req models.UpdateCategoryRequest) (*models.Category, error) {
	name := validator.SanitizeString(req.Name)
	if name == "" {
		return nil, newValidationError("category name is required")
	}
	return s.backend.UpdateCategory(ctx, id, name, validator.SanitizeString(req.Description))
}

// Delete removes a category. A category that still has courses can only be
// deleted with a target category to inherit them; the guard runs before any
// delete call is attempted. The backend performs reassignment and delete as
// one operation.
func (s *CategoryService) Delete(ctx context.Context, id uint, targetCategoryID *uint) error {
	categories, err := s.backend.Categories(ctx, true)
	if err != nil {
		return err
	}

	var category *models.Category
	for i := range categories {
		if categories[i].ID == id {
			category = &categories[i]
			break
		}
	}
	if category == nil {
		return newValidationError("category %d does not exist", id)
	}

	if category.CourseCount() > 0 {
		if targetCategoryID == nil {
			return newValidationError("category has %d associated courses; a target category is required", category.CourseCount())
		}
		if *targetCategoryID == id {
			return newValidationError("target category must differ from the deleted category")
		}
	}

	return s.backend.DeleteCategory(ctx, id, targetCategoryID)
}
