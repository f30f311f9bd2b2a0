package service

import (
	"context"

	"courseforge/internal/models"
	"courseforge/internal/store"
	"courseforge/pkg/validator"
)

type SectionService struct {
	backend SectionBackend
	store   *store.CourseStore
}

func NewSectionService(sectionBackend SectionBackend, courseStore *store.CourseStore) *SectionService {
	return &SectionService{
		backend: sectionBackend,
		store:   courseStore,
	}
}

// Create appends a new empty section to the loaded course.
func (s *SectionService) Create(ctx context.Context, req models.CreateSectionRequest) (*models.Section, error) {
	title := validator.SanitizeString(req.Title)
	if title == "" {
		return nil, newValidationError("section title is required")
	}
	if req.CourseID == 0 {
		return nil, newValidationError("course is required")
	}

	section, err := s.backend.CreateSection(ctx, title, req.CourseID)
	if err != nil {
		return nil, err
	}

	s.store.Mutate(func(c *models.Course) {
		created := *section
		if created.Lessons == nil {
			created.Lessons = []models.Lesson{}
		}
		c.Sections = append(c.Sections, created)
	})
	s.store.InvalidateListings()
	return section, nil
}

func (s *SectionService) Update(ctx context.Context, sectionID uint, title string) (*models.Section, error) {
	title = validator.SanitizeString(title)
	if title == "" {
		return nil, newValidationError("section title is required")
	}

	section, err := s.backend.UpdateSection(ctx, sectionID, title)
	if err != nil {
		return nil, err
	}

	s.store.Mutate(func(c *models.Course) {
		if target := c.FindSection(sectionID); target != nil {
			target.Title = section.Title
		}
	})
	s.store.InvalidateListings()
	return section, nil
}

// Delete removes a section; its lessons are cascade-deleted server-side.
func (s *SectionService) Delete(ctx context.Context, sectionID uint) error {
	if err := s.backend.DeleteSection(ctx, sectionID); err != nil {
		return err
	}

	s.store.Mutate(func(c *models.Course) {
		for i := range c.Sections {
			if c.Sections[i].ID == sectionID {
				c.Sections = append(c.Sections[:i], c.Sections[i+1:]...)
				return
			}
		}
	})
	s.store.InvalidateListings()
	return nil
}
