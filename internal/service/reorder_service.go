package service

import (
	"context"
	"strconv"
	"strings"

	"courseforge/internal/models"
	"courseforge/internal/store"
	"courseforge/pkg/logger"
)

const (
	dragKindSection = "section"
	dragKindLesson  = "lesson"
)

// ReorderService maintains the ordering of sections within a course and
// lessons within a section. Reorders apply to
// the local snapshot first and roll back if persistence fails.
type ReorderService struct {
	backend ReorderBackend
	store   *store.CourseStore
}

func NewReorderService(reorderBackend ReorderBackend, courseStore *store.CourseStore) *ReorderService {
	return &ReorderService{
		backend: reorderBackend,
		store:   courseStore,
	}
}

// HandleDrag processes one completed drag gesture. Identifiers carry a type
// prefix ("section-12", "lesson-7"); gestures across different kinds or
// across sections are ignored.
func (s *ReorderService) HandleDrag(ctx context.Context, activeID, overID string) error {
	activeKind, activeNum, ok := parseDragID(activeID)
	if !ok {
		return newValidationError("unrecognized drag identifier %q", activeID)
	}
	overKind, overNum, ok := parseDragID(overID)
	if !ok {
		return newValidationError("unrecognized drag identifier %q", overID)
	}

	// Mixed-kind drops and self-drops are no-ops, not errors.
	if activeKind != overKind || activeNum == overNum {
		return nil
	}

	switch activeKind {
	case dragKindSection:
		return s.dragSection(ctx, activeNum, overNum)
	case dragKindLesson:
		return s.dragLesson(ctx, activeNum, overNum)
	}
	return nil
}

func sectionIndex(sections []models.Section, id uint) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}

func lessonIndex(lessons []models.Lesson, id uint) int {
	for i := range lessons {
		if lessons[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ReorderService) dragSection(ctx context.Context, activeID, overID uint) error {
	snapshot := s.store.Snapshot()
	if snapshot == nil {
		return ErrNoCourseLoaded
	}

	oldIndex := sectionIndex(snapshot.Sections, activeID)
	newIndex := sectionIndex(snapshot.Sections, overID)
	if oldIndex < 0 || newIndex < 0 {
		return nil
	}

	reordered := arrayMove(snapshot.Sections, oldIndex, newIndex)
	for i := range reordered {
		reordered[i].Order = i + 1
	}

	return s.persistSections(ctx, snapshot, reordered)
}

// ReorderSections applies an explicit section order, optimistically updating
// the snapshot and restoring it when persistence fails.
func (s *ReorderService) ReorderSections(ctx context.Context, courseID uint, orderedIDs []uint) error {
	snapshot := s.store.Snapshot()
	if snapshot == nil || snapshot.ID != courseID {
		return ErrNoCourseLoaded
	}

	reordered, err := applyOrder(snapshot.Sections, orderedIDs, func(sec *models.Section) uint { return sec.ID })
	if err != nil {
		return err
	}
	for i := range reordered {
		reordered[i].Order = i + 1
	}

	return s.persistSections(ctx, snapshot, reordered)
}

func (s *ReorderService) persistSections(ctx context.Context, before *models.Course, reordered []models.Section) error {
	s.store.Mutate(func(c *models.Course) {
		c.Sections = reordered
	})

	order := make([]models.OrderItem, len(reordered))
	for i, section := range reordered {
		order[i] = models.OrderItem{ID: section.ID, Order: section.Order}
	}

	if _, err := s.backend.ReorderSections(ctx, before.ID, order); err != nil {
		logger.Error(err, "Section reorder failed, restoring previous order", map[string]interface{}{
			"course_id": before.ID,
		})
		s.store.Replace(before)
		return err
	}

	s.store.InvalidateListings()
	return nil
}

func (s *ReorderService) dragLesson(ctx context.Context, activeID, overID uint) error {
	snapshot := s.store.Snapshot()
	if snapshot == nil {
		return ErrNoCourseLoaded
	}

	section, _ := snapshot.FindLesson(activeID)
	if section == nil {
		return nil
	}

	oldIndex := lessonIndex(section.Lessons, activeID)
	newIndex := lessonIndex(section.Lessons, overID)
	// The drop target must live in the same section.
	if oldIndex < 0 || newIndex < 0 {
		return nil
	}

	reordered := arrayMove(section.Lessons, oldIndex, newIndex)
	for i := range reordered {
		reordered[i].Order = i + 1
	}

	return s.persistLessons(ctx, snapshot, section.ID, reordered)
}

// ReorderLessons applies an explicit lesson order within one section.
func (s *ReorderService) ReorderLessons(ctx context.Context, sectionID uint, orderedIDs []uint) error {
	snapshot := s.store.Snapshot()
	if snapshot == nil {
		return ErrNoCourseLoaded
	}
	section := snapshot.FindSection(sectionID)
	if section == nil {
		return newValidationError("section %d is not part of the loaded course", sectionID)
	}

	reordered, err := applyOrder(section.Lessons, orderedIDs, func(l *models.Lesson) uint { return l.ID })
	if err != nil {
		return err
	}
	for i := range reordered {
		reordered[i].Order = i + 1
	}

	return s.persistLessons(ctx, snapshot, sectionID, reordered)
}

func (s *ReorderService) persistLessons(ctx context.Context, before *models.Course, sectionID uint, reordered []models.Lesson) error {
	s.store.Mutate(func(c *models.Course) {
		if target := c.FindSection(sectionID); target != nil {
			target.Lessons = reordered
		}
	})

	order := make([]models.OrderItem, len(reordered))
	for i, lesson := range reordered {
		order[i] = models.OrderItem{ID: lesson.ID, Order: lesson.Order}
	}

	if _, err := s.backend.ReorderLessons(ctx, sectionID, order); err != nil {
		logger.Error(err, "Lesson reorder failed, restoring previous order", map[string]interface{}{
			"section_id": sectionID,
		})
		s.store.Replace(before)
		return err
	}

	s.store.InvalidateListings()
	return nil
}

// parseDragID splits a "kind-id" drag identifier.
func parseDragID(id string) (kind string, num uint, ok bool) {
	kind, rest, found := strings.Cut(id, "-")
	if !found {
		return "", 0, false
	}
	if kind != dragKindSection && kind != dragKindLesson {
		return "", 0, false
	}
	parsed, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return "", 0, false
	}
	return kind, uint(parsed), true
}

// arrayMove returns a copy of items with the element at from moved to to.
func arrayMove[T any](items []T, from, to int) []T {
	moved := make([]T, 0, len(items))
	moved = append(moved, items...)
	item := moved[from]
	moved = append(moved[:from], moved[from+1:]...)

	tail := make([]T, 0, len(items))
	tail = append(tail, moved[to:]...)
	moved = append(moved[:to], item)
	return append(moved, tail...)
}

// applyOrder rearranges items to match orderedIDs, which must be a
// permutation of the item ids.
func applyOrder[T any](items []T, orderedIDs []uint, idOf func(*T) uint) ([]T, error) {
	if len(orderedIDs) != len(items) {
		return nil, newValidationError("order list must contain every item exactly once")
	}

	byID := make(map[uint]T, len(items))
	for i := range items {
		byID[idOf(&items[i])] = items[i]
	}

	result := make([]T, 0, len(items))
	seen := make(map[uint]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			return nil, newValidationError("duplicate id %d in order list", id)
		}
		seen[id] = struct{}{}

		item, found := byID[id]
		if !found {
			return nil, newValidationError("id %d is not part of the container", id)
		}
		result = append(result, item)
	}
	return result, nil
}
