package service

import (
	"context"
	"strings"
	"testing"

	"courseforge/internal/models"
)

func newCourseFixture() (*CourseService, *mockCourseBackend) {
	courseBackend := &mockCourseBackend{course: builderCourse()}
	courseStore := newTestStore()
	courseStore.Replace(builderCourse())
	return NewCourseService(courseBackend, courseStore, newTestCache(), 0), courseBackend
}

func TestSetStatusPublishes(t *testing.T) {
	svc, courseBackend := newCourseFixture()

	course, err := svc.SetStatus(context.Background(), 1, models.CourseStatusPublished)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if course.Status != models.CourseStatusPublished {
		t.Errorf("expected PUBLISHED, got %q", course.Status)
	}
	if courseBackend.statusCalls != 1 {
		t.Errorf("expected 1 status call, got %d", courseBackend.statusCalls)
	}
}

func TestSetStatusNoopSkipsNetwork(t *testing.T) {
	svc, courseBackend := newCourseFixture()

	// The seeded course is already DRAFT.
	course, err := svc.SetStatus(context.Background(), 1, models.CourseStatusDraft)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if course == nil || course.Status != models.CourseStatusDraft {
		t.Fatalf("expected current snapshot back, got %+v", course)
	}
	if courseBackend.statusCalls != 0 {
		t.Errorf("matching status must not call the backend, got %d calls", courseBackend.statusCalls)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newCourseFixture()

	for _, status := range []string{"", "ARCHIVED", "published"} {
		if _, err := svc.SetStatus(context.Background(), 1, status); !IsValidationError(err) {
			t.Errorf("status %q: expected validation error, got %v", status, err)
		}
	}
}

func TestSetStatusDifferentCourseAlwaysPersists(t *testing.T) {
	svc, courseBackend := newCourseFixture()

	if _, err := svc.SetStatus(context.Background(), 42, models.CourseStatusDraft); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if courseBackend.statusCalls != 1 {
		t.Errorf("status for an unloaded course must hit the backend, got %d calls", courseBackend.statusCalls)
	}
}

func TestArchiveDropsLoadedSnapshot(t *testing.T) {
	svc, courseBackend := newCourseFixture()

	if _, err := svc.Archive(context.Background(), 1); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if courseBackend.archiveCalls != 1 {
		t.Fatalf("expected 1 archive call, got %d", courseBackend.archiveCalls)
	}
	if svc.store.Snapshot() != nil {
		t.Error("archiving the loaded course must reset the snapshot")
	}
}

func TestCreateCourseValidation(t *testing.T) {
	svc, _ := newCourseFixture()

	cases := []struct {
		name string
		req  models.CreateCourseRequest
	}{
		{"missing title", models.CreateCourseRequest{Description: "D", CategoryID: 1}},
		{"missing description", models.CreateCourseRequest{Title: "T", CategoryID: 1}},
		{"missing category", models.CreateCourseRequest{Title: "T", Description: "D"}},
		{"negative price", models.CreateCourseRequest{Title: "T", Description: "D", CategoryID: 1, Price: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.req); !IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUploadThumbnailValidation(t *testing.T) {
	svc, _ := newCourseFixture()

	image := &models.FileUpload{
		Filename:    "cover.png",
		Size:        2048,
		ContentType: "image/png",
		Content:     strings.NewReader("png-bytes"),
	}
	url, err := svc.UploadThumbnail(context.Background(), image, "Backend Engineering", false)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if url != "/uploads/cover.png" {
		t.Errorf("unexpected thumbnail URL %q", url)
	}

	pdf := &models.FileUpload{
		Filename:    "cover.pdf",
		Size:        2048,
		ContentType: "application/pdf",
		Content:     strings.NewReader("pdf-bytes"),
	}
	if _, err := svc.UploadThumbnail(context.Background(), pdf, "Backend Engineering", false); !IsValidationError(err) {
		t.Errorf("non-image thumbnail must be rejected, got %v", err)
	}

	if _, err := svc.UploadThumbnail(context.Background(), nil, "Backend Engineering", false); !IsValidationError(err) {
		t.Errorf("missing thumbnail must be rejected, got %v", err)
	}
}

func TestListCoursesClampsPaging(t *testing.T) {
	svc, courseBackend := newCourseFixture()

	result, err := svc.AdminCourses(context.Background(), 0, -1)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result.Pagination.CurrentPage != 1 {
		t.Errorf("expected page clamped to 1, got %d", result.Pagination.CurrentPage)
	}
	if courseBackend.listCalls != 1 {
		t.Errorf("expected 1 backend list call, got %d", courseBackend.listCalls)
	}
}
