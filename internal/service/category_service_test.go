package service

import (
	"context"
	"testing"

	"courseforge/internal/models"
)

func newCategoryFixture() (*CategoryService, *mockCategoryBackend) {
	categoryBackend := &mockCategoryBackend{
		categories: []models.Category{
			{ID: 1, Name: "Programming", Count: &models.CategoryCount{Courses: 3}},
			{ID: 2, Name: "Design", Count: &models.CategoryCount{Courses: 0}},
			{ID: 3, Name: "Business"},
		},
	}
	return NewCategoryService(categoryBackend), categoryBackend
}

func TestDeleteCategoryWithCoursesRequiresTarget(t *testing.T) {
	svc, categoryBackend := newCategoryFixture()

	err := svc.Delete(context.Background(), 1, nil)
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(categoryBackend.deletedIDs) != 0 {
		t.Error("guard must run before any delete call")
	}
}

func TestDeleteCategoryWithCoursesAndTarget(t *testing.T) {
	svc, categoryBackend := newCategoryFixture()

	target := uint(2)
	if err := svc.Delete(context.Background(), 1, &target); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(categoryBackend.deletedIDs) != 1 || categoryBackend.deletedIDs[0] != 1 {
		t.Fatalf("expected delete of category 1, got %v", categoryBackend.deletedIDs)
	}
	if got := categoryBackend.deleteCalls[0]; got == nil || *got != 2 {
		t.Errorf("expected target category 2 forwarded, got %v", got)
	}
}

func TestDeleteCategoryRejectsSelfTarget(t *testing.T) {
	svc, categoryBackend := newCategoryFixture()

	target := uint(1)
	if err := svc.Delete(context.Background(), 1, &target); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(categoryBackend.deletedIDs) != 0 {
		t.Error("self-target must be rejected before the delete call")
	}
}

func TestDeleteEmptyCategoryNeedsNoTarget(t *testing.T) {
	svc, categoryBackend := newCategoryFixture()

	// Both a zero count and a missing count object mean no courses.
	for _, id := range []uint{2, 3} {
		if err := svc.Delete(context.Background(), id, nil); err != nil {
			t.Fatalf("category %d: expected success, got %v", id, err)
		}
	}
	if len(categoryBackend.deletedIDs) != 2 {
		t.Fatalf("expected 2 deletes, got %v", categoryBackend.deletedIDs)
	}
}

func TestDeleteUnknownCategory(t *testing.T) {
	svc, _ := newCategoryFixture()

	if err := svc.Delete(context.Background(), 999, nil); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateCategorySanitizesName(t *testing.T) {
	svc, _ := newCategoryFixture()

	category, err := svc.Create(context.Background(), models.CreateCategoryRequest{
		Name: "  <script>alert(1)</script>DevOps  ",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if category.Name != "DevOps" {
		t.Errorf("expected sanitized name DevOps, got %q", category.Name)
	}

	if _, err := svc.Create(context.Background(), models.CreateCategoryRequest{Name: "<b></b>"}); !IsValidationError(err) {
		t.Errorf("markup-only name must fail validation, got %v", err)
	}
}
