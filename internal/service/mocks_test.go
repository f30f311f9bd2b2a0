package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"courseforge/internal/client/backend"
	"courseforge/internal/client/videohost"
	"courseforge/internal/models"
	"courseforge/internal/store"
	"courseforge/pkg/cache"
	"courseforge/pkg/validator"
)

func TestMain(m *testing.M) {
	validator.Init()
	os.Exit(m.Run())
}

func newTestCache() *cache.Cache {
	c, _ := cache.NewCache("", false)
	return c
}

func newTestStore() *store.CourseStore {
	return store.NewCourseStore(newTestCache())
}

func builderCourse() *models.Course {
	return &models.Course{
		ID:     1,
		Title:  "Backend Engineering",
		Status: models.CourseStatusDraft,
		Sections: []models.Section{
			{ID: 10, Title: "Foundations", CourseID: 1, Order: 1, Lessons: []models.Lesson{
				{ID: 100, Title: "HTTP basics", SectionID: 10, Order: 1, Duration: 5},
				{ID: 101, Title: "Routing", SectionID: 10, Order: 2, Duration: 8},
				{ID: 102, Title: "Middleware", SectionID: 10, Order: 3, Duration: 6},
			}},
			{ID: 11, Title: "Persistence", CourseID: 1, Order: 2, Lessons: []models.Lesson{
				{ID: 110, Title: "SQL", SectionID: 11, Order: 1, Duration: 12, BunnyVideoID: "vid-sql"},
			}},
			{ID: 12, Title: "Deployment", CourseID: 1, Order: 3, Lessons: []models.Lesson{}},
			{ID: 13, Title: "Observability", CourseID: 1, Order: 4, Lessons: []models.Lesson{}},
		},
	}
}

type mockVideoHost struct {
	nextID     int
	slots      map[string]bool
	deleted    []string
	uploads    []string
	failCreate bool
	failUpload bool
	failDelete bool
}

func newMockVideoHost() *mockVideoHost {
	return &mockVideoHost{slots: map[string]bool{}}
}

func (m *mockVideoHost) CreateSlot(ctx context.Context, title string) (*videohost.Slot, error) {
	if m.failCreate {
		return nil, errors.New("video host unavailable")
	}
	m.nextID++
	id := fmt.Sprintf("vid-%d", m.nextID)
	m.slots[id] = true
	return &videohost.Slot{
		VideoID:   id,
		UploadURL: "https://upload.example/" + id,
		AccessKey: "key-" + id,
	}, nil
}

func (m *mockVideoHost) Upload(ctx context.Context, slot *videohost.Slot, file *models.FileUpload) error {
	if m.failUpload {
		return errors.New("byte upload rejected")
	}
	m.uploads = append(m.uploads, slot.VideoID)
	return nil
}

func (m *mockVideoHost) DeleteSlot(ctx context.Context, videoID string) error {
	m.deleted = append(m.deleted, videoID)
	if m.failDelete {
		return errors.New("delete rejected")
	}
	// Deleting an unknown slot is not an error.
	delete(m.slots, videoID)
	return nil
}

func (m *mockVideoHost) EmbedURL(ctx context.Context, videoID string) (string, error) {
	return "https://iframe.example/" + videoID, nil
}

func (m *mockVideoHost) liveSlots() int {
	return len(m.slots)
}

type mockResourceStore struct {
	uploads    []string
	deleted    []string
	failUpload bool
	failDelete bool
}

func (m *mockResourceStore) UploadResource(ctx context.Context, file *models.FileUpload) (string, error) {
	if m.failUpload {
		return "", errors.New("resource storage unavailable")
	}
	url := "https://files.example/" + file.Filename
	m.uploads = append(m.uploads, url)
	return url, nil
}

func (m *mockResourceStore) DeleteResourceFile(ctx context.Context, resourceURL string) error {
	m.deleted = append(m.deleted, resourceURL)
	if m.failDelete {
		return errors.New("resource delete rejected")
	}
	return nil
}

type mockLessonBackend struct {
	course      *models.Course
	createCalls []backend.CreateLessonFields
	updateCalls []backend.UpdateLessonFields
	deleted     []uint
	failCreate  bool
	failUpdate  bool
}

func (m *mockLessonBackend) CreateLesson(ctx context.Context, fields backend.CreateLessonFields) (*models.Course, error) {
	m.createCalls = append(m.createCalls, fields)
	if m.failCreate {
		return nil, errors.New("persistence rejected")
	}

	course := m.course.Clone()
	if section := course.FindSection(fields.SectionID); section != nil {
		section.Lessons = append(section.Lessons, models.Lesson{
			ID:           900,
			Title:        fields.Title,
			SectionID:    fields.SectionID,
			Order:        len(section.Lessons) + 1,
			BunnyVideoID: fields.BunnyVideoID,
			Duration:     fields.Duration,
		})
	}
	return course, nil
}

func (m *mockLessonBackend) UpdateLesson(ctx context.Context, lessonID uint, fields backend.UpdateLessonFields) (*models.Course, error) {
	m.updateCalls = append(m.updateCalls, fields)
	if m.failUpdate {
		return nil, errors.New("persistence rejected")
	}

	course := m.course.Clone()
	if _, lesson := course.FindLesson(lessonID); lesson != nil {
		if fields.Title != nil {
			lesson.Title = *fields.Title
		}
		if fields.Duration != nil {
			lesson.Duration = *fields.Duration
		}
		if fields.BunnyVideoID != nil {
			lesson.BunnyVideoID = *fields.BunnyVideoID
		}
	}
	return course, nil
}

func (m *mockLessonBackend) DeleteLesson(ctx context.Context, lessonID uint) error {
	m.deleted = append(m.deleted, lessonID)
	return nil
}

func (m *mockLessonBackend) DeleteResourceRecord(ctx context.Context, resourceID uint) (*models.Course, error) {
	return m.course.Clone(), nil
}

type mockReorderBackend struct {
	sectionCalls [][]models.OrderItem
	lessonCalls  [][]models.OrderItem
	failSections bool
	failLessons  bool
}

func (m *mockReorderBackend) ReorderSections(ctx context.Context, courseID uint, order []models.OrderItem) ([]models.Section, error) {
	m.sectionCalls = append(m.sectionCalls, order)
	if m.failSections {
		return nil, errors.New("reorder rejected")
	}
	return nil, nil
}

func (m *mockReorderBackend) ReorderLessons(ctx context.Context, sectionID uint, order []models.OrderItem) ([]models.Lesson, error) {
	m.lessonCalls = append(m.lessonCalls, order)
	if m.failLessons {
		return nil, errors.New("reorder rejected")
	}
	return nil, nil
}

type mockCourseBackend struct {
	statusCalls  int
	archiveCalls int
	course       *models.Course
	listCalls    int
}

func (m *mockCourseBackend) CreateCourse(ctx context.Context, fields backend.CourseFields) (*models.Course, error) {
	course := &models.Course{ID: 1, Title: fields.Title, Status: models.CourseStatusDraft, CategoryID: fields.CategoryID}
	return course, nil
}

func (m *mockCourseBackend) UpdateCourse(ctx context.Context, courseID uint, fields backend.CourseFields) (*models.Course, error) {
	course := m.course.Clone()
	course.Title = fields.Title
	return course, nil
}

func (m *mockCourseBackend) AdminCourses(ctx context.Context, page, limit int) (*models.PaginatedCourses, error) {
	m.listCalls++
	return &models.PaginatedCourses{Pagination: models.Pagination{CurrentPage: page, Limit: limit}}, nil
}

func (m *mockCourseBackend) StudentCourses(ctx context.Context, page, limit int) (*models.PaginatedCourses, error) {
	m.listCalls++
	return &models.PaginatedCourses{Pagination: models.Pagination{CurrentPage: page, Limit: limit}}, nil
}

func (m *mockCourseBackend) UpdateCourseStatus(ctx context.Context, courseID uint, status string) (*models.Course, error) {
	m.statusCalls++
	course := m.course.Clone()
	course.Status = status
	return course, nil
}

func (m *mockCourseBackend) ArchiveCourse(ctx context.Context, courseID uint) (*models.Course, error) {
	m.archiveCalls++
	course := m.course.Clone()
	course.Status = models.CourseStatusArchived
	return course, nil
}

func (m *mockCourseBackend) UploadThumbnail(ctx context.Context, file *models.FileUpload, courseName string, isEditing bool) (string, error) {
	return "/uploads/" + file.Filename, nil
}

type mockCategoryBackend struct {
	categories  []models.Category
	deleteCalls []*uint
	deletedIDs  []uint
}

func (m *mockCategoryBackend) Categories(ctx context.Context, admin bool) ([]models.Category, error) {
	return m.categories, nil
}

func (m *mockCategoryBackend) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	return &models.Category{ID: 99, Name: name, Description: description}, nil
}

func (m *mockCategoryBackend) UpdateCategory(ctx context.Context, id uint, name, description string) (*models.Category, error) {
	return &models.Category{ID: id, Name: name, Description: description}, nil
}

func (m *mockCategoryBackend) DeleteCategory(ctx context.Context, id uint, targetCategoryID *uint) error {
	m.deletedIDs = append(m.deletedIDs, id)
	m.deleteCalls = append(m.deleteCalls, targetCategoryID)
	return nil
}

type mockQuizBackend struct {
	upserts []models.UpsertQuizRequest
	deleted []uint
	quiz    *models.Quiz
}

func (m *mockQuizBackend) QuizBySection(ctx context.Context, sectionID uint) (*models.Quiz, error) {
	return m.quiz, nil
}

func (m *mockQuizBackend) UpsertQuiz(ctx context.Context, req models.UpsertQuizRequest) (*models.Quiz, error) {
	m.upserts = append(m.upserts, req)
	return &models.Quiz{ID: 7, Title: req.Title, SectionID: req.SectionID, Questions: req.Questions}, nil
}

func (m *mockQuizBackend) DeleteQuiz(ctx context.Context, quizID uint) error {
	m.deleted = append(m.deleted, quizID)
	return nil
}
