package service

import (
	"context"

	"courseforge/internal/client/backend"
	"courseforge/internal/client/videohost"
	"courseforge/internal/models"
)

// VideoHost is the remote video hosting provider.
type VideoHost interface {
	CreateSlot(ctx context.Context, title string) (*videohost.Slot, error)
	Upload(ctx context.Context, slot *videohost.Slot, file *models.FileUpload) error
	DeleteSlot(ctx context.Context, videoID string) error
	EmbedURL(ctx context.Context, videoID string) (string, error)
}

// ResourceStore is the backend's resource file storage.
type ResourceStore interface {
	UploadResource(ctx context.Context, file *models.FileUpload) (string, error)
	DeleteResourceFile(ctx context.Context, resourceURL string) error
}

// LessonBackend covers lesson persistence.
type LessonBackend interface {
	CreateLesson(ctx context.Context, fields backend.CreateLessonFields) (*models.Course, error)
	UpdateLesson(ctx context.Context, lessonID uint, fields backend.UpdateLessonFields) (*models.Course, error)
	DeleteLesson(ctx context.Context, lessonID uint) error
	DeleteResourceRecord(ctx context.Context, resourceID uint) (*models.Course, error)
}

// SectionBackend covers section persistence.
type SectionBackend interface {
	CreateSection(ctx context.Context, title string, courseID uint) (*models.Section, error)
	UpdateSection(ctx context.Context, sectionID uint, title string) (*models.Section, error)
	DeleteSection(ctx context.Context, sectionID uint) error
}

// ReorderBackend persists new order indices for one container.
type ReorderBackend interface {
	ReorderSections(ctx context.Context, courseID uint, order []models.OrderItem) ([]models.Section, error)
	ReorderLessons(ctx context.Context, sectionID uint, order []models.OrderItem) ([]models.Lesson, error)
}

// CourseBackend covers course persistence and listings.
type CourseBackend interface {
	CreateCourse(ctx context.Context, fields backend.CourseFields) (*models.Course, error)
	UpdateCourse(ctx context.Context, courseID uint, fields backend.CourseFields) (*models.Course, error)
	AdminCourses(ctx context.Context, page, limit int) (*models.PaginatedCourses, error)
	StudentCourses(ctx context.Context, page, limit int) (*models.PaginatedCourses, error)
	UpdateCourseStatus(ctx context.Context, courseID uint, status string) (*models.Course, error)
	ArchiveCourse(ctx context.Context, courseID uint) (*models.Course, error)
	UploadThumbnail(ctx context.Context, file *models.FileUpload, courseName string, isEditing bool) (string, error)
}

// CategoryBackend covers category persistence.
type CategoryBackend interface {
	Categories(ctx context.Context, admin bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, name, description string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint, targetCategoryID *uint) error
}

// QuizBackend covers quiz persistence.
type QuizBackend interface {
	QuizBySection(ctx context.Context, sectionID uint) (*models.Quiz, error)
	UpsertQuiz(ctx context.Context, req models.UpsertQuizRequest) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, quizID uint) error
}

// AuthBackend covers the backend auth surface.
type AuthBackend interface {
	Login(ctx context.Context, req models.LoginRequest) (*backend.LoginResult, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	Profile(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
}
