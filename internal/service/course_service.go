package service

import (
	"context"
	"fmt"
	"time"

	"courseforge/internal/client/backend"
	"courseforge/internal/models"
	"courseforge/internal/store"
	"courseforge/pkg/cache"
	"courseforge/pkg/logger"
	"courseforge/pkg/validator"
)

const (
	listingTTL      = 5 * time.Minute
	maxThumbnailMB  = 10
	defaultPageSize = 10
)

type CourseService struct {
	backend CourseBackend
	store   *store.CourseStore
	cache   *cache.Cache

	maxImageSize int64
}

func NewCourseService(courseBackend CourseBackend, courseStore *store.CourseStore, c *cache.Cache, maxImageSize int64) *CourseService {
	if maxImageSize <= 0 {
		maxImageSize = maxThumbnailMB * 1024 * 1024
	}
	return &CourseService{
		backend:      courseBackend,
		store:        courseStore,
		cache:        c,
		maxImageSize: maxImageSize,
	}
}

func (s *CourseService) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	fields, err := courseFields(req.Title, req.Description, req.Price, req.Thumbnail, req.CategoryID, req.Language)
	if err != nil {
		return nil, err
	}

	course, err := s.backend.CreateCourse(ctx, fields)
	if err != nil {
		return nil, err
	}

	snapshot := s.store.Replace(course)
	s.store.InvalidateListings()
	return snapshot, nil
}

func (s *CourseService) Update(ctx context.Context, courseID uint, req models.UpdateCourseRequest) (*models.Course, error) {
	fields, err := courseFields(req.Title, req.Description, req.Price, req.Thumbnail, req.CategoryID, req.Language)
	if err != nil {
		return nil, err
	}

	course, err := s.backend.UpdateCourse(ctx, courseID, fields)
	if err != nil {
		return nil, err
	}

	snapshot := s.store.Replace(course)
	s.store.InvalidateListings()
	return snapshot, nil
}

func courseFields(title, description string, price float64, thumbnail string, categoryID uint, language string) (backend.CourseFields, error) {
	title = validator.SanitizeString(title)
	if title == "" {
		return backend.CourseFields{}, newValidationError("course title is required")
	}
	description = validator.SanitizeString(description)
	if description == "" {
		return backend.CourseFields{}, newValidationError("course description is required")
	}
	if categoryID == 0 {
		return backend.CourseFields{}, newValidationError("course category is required")
	}
	if price < 0 {
		return backend.CourseFields{}, newValidationError("course price cannot be negative")
	}

	return backend.CourseFields{
		Title:       title,
		Description: description,
		Price:       price,
		Thumbnail:   thumbnail,
		CategoryID:  categoryID,
		Language:    validator.SanitizeString(language),
	}, nil
}

// UploadThumbnail stores a course thumbnail image and returns its URL.
func (s *CourseService) UploadThumbnail(ctx context.Context, file *models.FileUpload, courseName string, isEditing bool) (string, error) {
	if !file.Provided() {
		return "", newValidationError("thumbnail file is required")
	}
	if !validator.ValidateImageContentType(file.ContentType) {
		return "", newValidationError("thumbnail must be an image")
	}
	if !validator.ValidateFileSize(file.Size, s.maxImageSize) {
		return "", newValidationError("thumbnail exceeds the maximum allowed size")
	}

	return s.backend.UploadThumbnail(ctx, file, courseName, isEditing)
}

// AdminCourses lists all courses with a short cache-aside window.
func (s *CourseService) AdminCourses(ctx context.Context, page, limit int) (*models.PaginatedCourses, error) {
	return s.listCourses(ctx, true, page, limit)
}

// StudentCourses lists published courses.
func (s *CourseService) StudentCourses(ctx context.Context, page, limit int) (*models.PaginatedCourses, error) {
	return s.listCourses(ctx, false, page, limit)
}

func (s *CourseService) listCourses(ctx context.Context, admin bool, page, limit int) (*models.PaginatedCourses, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	audience := "student"
	if admin {
		audience = "admin"
	}
	key := fmt.Sprintf("courses:list:%s:%d:%d", audience, page, limit)

	if s.cache.Enabled() {
		var cached models.PaginatedCourses
		if err := s.cache.Get(key, &cached); err == nil {
			return &cached, nil
		}
	}

	var (
		result *models.PaginatedCourses
		err    error
	)
	if admin {
		result, err = s.backend.AdminCourses(ctx, page, limit)
	} else {
		result, err = s.backend.StudentCourses(ctx, page, limit)
	}
	if err != nil {
		return nil, err
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(key, result, listingTTL); err != nil {
			logger.Warn("Failed to cache course listing", map[string]interface{}{"error": err.Error()})
		}
	}
	return result, nil
}

// SetStatus toggles a course between DRAFT and PUBLISHED. Requesting the
// status the loaded course already has is a no-op that makes no network call.
func (s *CourseService) SetStatus(ctx context.Context, courseID uint, status string) (*models.Course, error) {
	if status != models.CourseStatusPublished && status != models.CourseStatusDraft {
		return nil, newValidationError("status must be %s or %s", models.CourseStatusPublished, models.CourseStatusDraft)
	}

	if snapshot := s.store.Snapshot(); snapshot != nil && snapshot.ID == courseID && snapshot.Status == status {
		return snapshot, nil
	}

	course, err := s.backend.UpdateCourseStatus(ctx, courseID, status)
	if err != nil {
		return nil, err
	}

	snapshot := s.store.Replace(course)
	s.store.InvalidateListings()
	return snapshot, nil
}

// Archive soft-deletes a course; the loaded snapshot is dropped when it is
// the archived course.
func (s *CourseService) Archive(ctx context.Context, courseID uint) (*models.Course, error) {
	course, err := s.backend.ArchiveCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if snapshot := s.store.Snapshot(); snapshot != nil && snapshot.ID == courseID {
		s.store.Reset()
	}
	s.store.InvalidateListings()
	return course, nil
}
