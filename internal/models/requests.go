package models

import "io"

// FileUpload is an in-flight file passing through the gateway. Content is
// consumed exactly once by the receiving client.
type FileUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// Provided reports whether a file was actually attached to the request.
func (f *FileUpload) Provided() bool {
	return f != nil && f.Size > 0 && f.Content != nil
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail" binding:"required"`
	CategoryID  uint    `json:"categoryId" binding:"required"`
	Language    string  `json:"language" binding:"required"`
}

// UpdateCourseRequest represents a request to update course information
type UpdateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail" binding:"required"`
	CategoryID  uint    `json:"categoryId" binding:"required"`
	Language    string  `json:"language" binding:"required"`
}

// UpdateCourseStatusRequest toggles a course between DRAFT and PUBLISHED
type UpdateCourseStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateSectionRequest represents a request to create a section
type CreateSectionRequest struct {
	Title    string `json:"title" binding:"required"`
	CourseID uint   `json:"courseId" binding:"required"`
}

// UpdateSectionRequest represents a request to rename a section
type UpdateSectionRequest struct {
	Title string `json:"title" binding:"required"`
}

// ReorderRequest carries the desired id order for one container. Dense
// 1-based order values are derived from the list position.
type ReorderRequest struct {
	OrderedIDs []uint `json:"orderedIds" binding:"required"`
}

// DragRequest is one completed drag gesture between two prefixed item
// identifiers of the same kind, e.g. "section-12" dropped on "section-7".
type DragRequest struct {
	ActiveID string `json:"activeId" binding:"required"`
	OverID   string `json:"overId" binding:"required"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// DeleteCategoryRequest names the category that inherits the deleted
// category's courses. Required when the category still has courses.
type DeleteCategoryRequest struct {
	TargetCategoryID *uint `json:"targetCategoryId"`
}

// UpsertQuizRequest replaces the quiz of a section wholesale
type UpsertQuizRequest struct {
	SectionID uint       `json:"sectionId" binding:"required"`
	Title     string     `json:"title" binding:"required"`
	Questions []Question `json:"questions"`
}

// Auth requests mirror the backend auth surface.

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Token           string `json:"token" binding:"required"`
}
