package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"courseforge/internal/models"
)

func testVideo() *models.FileUpload {
	return &models.FileUpload{
		Filename:    "intro.mp4",
		Size:        1024,
		ContentType: "video/mp4",
		Content:     strings.NewReader("video-bytes"),
	}
}

func testResource(contentType string) *models.FileUpload {
	return &models.FileUpload{
		Filename:    "notes.pdf",
		Size:        512,
		ContentType: contentType,
		Content:     strings.NewReader("resource-bytes"),
	}
}

func newLessonFixture() (*LessonService, *mockVideoHost, *mockResourceStore, *mockLessonBackend) {
	host := newMockVideoHost()
	storage := &mockResourceStore{}
	lessonBackend := &mockLessonBackend{course: builderCourse()}
	courseStore := newTestStore()
	courseStore.Replace(builderCourse())
	return NewLessonService(host, storage, lessonBackend, courseStore, 64<<20, 8<<20), host, storage, lessonBackend
}

func TestCreateLessonSuccess(t *testing.T) {
	svc, host, _, lessonBackend := newLessonFixture()

	course, err := svc.CreateLesson(context.Background(), CreateLessonInput{
		Title:     "Testing",
		SectionID: 10,
		Duration:  7,
		Video:     testVideo(),
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if len(lessonBackend.createCalls) != 1 {
		t.Fatalf("expected 1 persist call, got %d", len(lessonBackend.createCalls))
	}
	fields := lessonBackend.createCalls[0]
	if fields.BunnyVideoID != "vid-1" {
		t.Errorf("expected persisted video id vid-1, got %q", fields.BunnyVideoID)
	}
	if fields.Resource != "" {
		t.Errorf("expected no resource URL, got %q", fields.Resource)
	}
	if len(host.uploads) != 1 || host.uploads[0] != "vid-1" {
		t.Errorf("expected one upload to vid-1, got %v", host.uploads)
	}
	if len(host.deleted) != 0 {
		t.Errorf("expected no slot deletions on success, got %v", host.deleted)
	}

	section := course.FindSection(10)
	if section == nil {
		t.Fatal("section 10 missing from returned course")
	}
	if got := len(section.Lessons); got != 4 {
		t.Fatalf("expected 4 lessons after create, got %d", got)
	}
	if section.Lessons[3].Title != "Testing" {
		t.Errorf("expected new lesson last, got %q", section.Lessons[3].Title)
	}
}

func TestCreateLessonWithResource(t *testing.T) {
	svc, _, storage, lessonBackend := newLessonFixture()

	_, err := svc.CreateLesson(context.Background(), CreateLessonInput{
		Title:     "Testing",
		SectionID: 10,
		Duration:  7,
		Video:     testVideo(),
		Resource:  testResource("application/pdf"),
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if len(storage.uploads) != 1 {
		t.Fatalf("expected one resource upload, got %d", len(storage.uploads))
	}
	if lessonBackend.createCalls[0].Resource != storage.uploads[0] {
		t.Errorf("persisted resource %q does not match uploaded %q",
			lessonBackend.createCalls[0].Resource, storage.uploads[0])
	}
}

func TestCreateLessonSkipsUnsupportedResource(t *testing.T) {
	svc, _, storage, lessonBackend := newLessonFixture()

	_, err := svc.CreateLesson(context.Background(), CreateLessonInput{
		Title:     "Testing",
		SectionID: 10,
		Duration:  7,
		Video:     testVideo(),
		Resource:  testResource("image/png"),
	})
	if err != nil {
		t.Fatalf("unsupported resource type must be skipped, not rejected: %v", err)
	}

	if len(storage.uploads) != 0 {
		t.Errorf("expected no resource upload, got %v", storage.uploads)
	}
	if lessonBackend.createCalls[0].Resource != "" {
		t.Errorf("expected empty resource URL, got %q", lessonBackend.createCalls[0].Resource)
	}
}

func TestCreateLessonPersistFailureCompensates(t *testing.T) {
	svc, host, storage, lessonBackend := newLessonFixture()
	lessonBackend.failCreate = true

	_, err := svc.CreateLesson(context.Background(), CreateLessonInput{
		Title:     "Testing",
		SectionID: 10,
		Duration:  7,
		Video:     testVideo(),
		Resource:  testResource("application/pdf"),
	})
	if err != ErrLessonCreateFailed {
		t.Fatalf("expected ErrLessonCreateFailed, got %v", err)
	}

	if len(host.deleted) != 1 || host.deleted[0] != "vid-1" {
		t.Errorf("expected slot vid-1 deleted, got %v", host.deleted)
	}
	if host.liveSlots() != 0 {
		t.Errorf("expected no live slots after rollback, got %d", host.liveSlots())
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "https://files.example/notes.pdf" {
		t.Errorf("expected uploaded resource deleted, got %v", storage.deleted)
	}
}

func TestCreateLessonCompensationsRunIndependently(t *testing.T) {
	svc, host, storage, lessonBackend := newLessonFixture()
	lessonBackend.failCreate = true
	storage.failDelete = true

	_, err := svc.CreateLesson(context.Background(), CreateLessonInput{
		Title:     "Testing",
		SectionID: 10,
		Duration:  7,
		Video:     testVideo(),
		Resource:  testResource("application/pdf"),
	})
	if err != ErrLessonCreateFailed {
		t.Fatalf("expected ErrLessonCreateFailed, got %v", err)
	}

	// The resource delete failing must not stop the slot delete.
	if len(host.deleted) != 1 {
		t.Errorf("expected slot deletion despite resource delete failure, got %v", host.deleted)
	}
}

func TestCreateLessonValidation(t *testing.T) {
	svc, host, _, lessonBackend := newLessonFixture()

	cases := []struct {
		name  string
		input CreateLessonInput
	}{
		{"missing title", CreateLessonInput{SectionID: 10, Duration: 5, Video: testVideo()}},
		{"missing section", CreateLessonInput{Title: "T", Duration: 5, Video: testVideo()}},
		{"missing video", CreateLessonInput{Title: "T", SectionID: 10, Duration: 5}},
		{"zero duration", CreateLessonInput{Title: "T", SectionID: 10, Video: testVideo()}},
		{"non-video upload", CreateLessonInput{Title: "T", SectionID: 10, Duration: 5, Video: &models.FileUpload{
			Filename: "talk.pdf", Size: 1024, ContentType: "application/pdf", Content: strings.NewReader("x"),
		}}},
		{"oversized video", CreateLessonInput{Title: "T", SectionID: 10, Duration: 5, Video: &models.FileUpload{
			Filename: "big.mp4", Size: 65 << 20, ContentType: "video/mp4", Content: strings.NewReader("x"),
		}}},
		{"oversized resource", CreateLessonInput{Title: "T", SectionID: 10, Duration: 5, Video: testVideo(), Resource: &models.FileUpload{
			Filename: "big.pdf", Size: 9 << 20, ContentType: "application/pdf", Content: strings.NewReader("x"),
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateLesson(context.Background(), tc.input)
			if !IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if host.nextID != 0 {
		t.Errorf("validation failures must not create slots, got %d", host.nextID)
	}
	if len(lessonBackend.createCalls) != 0 {
		t.Errorf("validation failures must not hit the backend, got %d calls", len(lessonBackend.createCalls))
	}
}

// mp4WithDuration builds a minimal MP4 container whose mvhd atom reports the
// given duration in seconds.
func mp4WithDuration(seconds uint32) []byte {
	mvhd := make([]byte, 4+16)
	binary.BigEndian.PutUint32(mvhd[12:16], 1000)
	binary.BigEndian.PutUint32(mvhd[16:20], seconds*1000)

	box := func(boxType string, payload []byte) []byte {
		buf := make([]byte, 8, 8+len(payload))
		binary.BigEndian.PutUint32(buf[:4], uint32(len(payload)+8))
		copy(buf[4:8], boxType)
		return append(buf, payload...)
	}
	return append(box("ftyp", []byte("isom")), box("moov", box("mvhd", mvhd))...)
}

func TestCreateLessonProbesDurationFromVideo(t *testing.T) {
	svc, _, _, lessonBackend := newLessonFixture()

	data := mp4WithDuration(150) // 2m30s rounds up to 3 minutes
	_, err := svc.CreateLesson(context.Background(), CreateLessonInput{
		Title:     "Testing",
		SectionID: 10,
		Video: &models.FileUpload{
			Filename:    "intro.mp4",
			Size:        int64(len(data)),
			ContentType: "video/mp4",
			Content:     bytes.NewReader(data),
		},
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if got := lessonBackend.createCalls[0].Duration; got != 3 {
		t.Errorf("expected probed duration 3, got %d", got)
	}
}

func TestUpdateLessonNoChangesShortCircuits(t *testing.T) {
	svc, host, _, lessonBackend := newLessonFixture()

	// Same title and duration as lesson 100 in the seeded snapshot.
	course, err := svc.UpdateLesson(context.Background(), 100, UpdateLessonInput{
		Title:    "HTTP basics",
		Duration: 5,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if course == nil {
		t.Fatal("expected current snapshot back")
	}

	if len(lessonBackend.updateCalls) != 0 {
		t.Errorf("no-op update must not call the backend, got %d calls", len(lessonBackend.updateCalls))
	}
	if host.nextID != 0 {
		t.Errorf("no-op update must not create slots, got %d", host.nextID)
	}
}

func TestUpdateLessonOmittedDurationShortCircuits(t *testing.T) {
	svc, host, _, lessonBackend := newLessonFixture()

	// Unchanged title, no new files and no duration supplied for a lesson that
	// already has a video: nothing to persist.
	course, err := svc.UpdateLesson(context.Background(), 110, UpdateLessonInput{
		Title: "SQL",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if course == nil {
		t.Fatal("expected current snapshot back")
	}

	if len(lessonBackend.updateCalls) != 0 {
		t.Errorf("empty update payload must not call the backend, got %d calls", len(lessonBackend.updateCalls))
	}
	if host.nextID != 0 {
		t.Errorf("no-op update must not create slots, got %d", host.nextID)
	}
}

func TestUpdateLessonReplacesVideoReference(t *testing.T) {
	svc, host, _, lessonBackend := newLessonFixture()

	_, err := svc.UpdateLesson(context.Background(), 100, UpdateLessonInput{
		Title:    "HTTP basics",
		Duration: 5,
		Video:    testVideo(),
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if len(lessonBackend.updateCalls) != 1 {
		t.Fatalf("expected 1 update call, got %d", len(lessonBackend.updateCalls))
	}
	fields := lessonBackend.updateCalls[0]
	if fields.BunnyVideoID == nil || *fields.BunnyVideoID != "vid-1" {
		t.Errorf("expected new video id in payload, got %v", fields.BunnyVideoID)
	}
	if fields.Title != nil {
		t.Errorf("unchanged title must not be sent, got %v", fields.Title)
	}

	// The lesson's previous video stays on the host.
	if len(host.deleted) != 0 {
		t.Errorf("replacing a video must not delete anything, got %v", host.deleted)
	}
}

func TestUpdateLessonFailureCompensatesOnlyNewAssets(t *testing.T) {
	svc, host, storage, lessonBackend := newLessonFixture()
	lessonBackend.failUpdate = true

	_, err := svc.UpdateLesson(context.Background(), 100, UpdateLessonInput{
		Title:    "HTTP basics",
		Duration: 5,
		Video:    testVideo(),
		Resource: testResource("application/pdf"),
	})
	if err != ErrLessonUpdateFailed {
		t.Fatalf("expected ErrLessonUpdateFailed, got %v", err)
	}

	if len(host.deleted) != 1 || host.deleted[0] != "vid-1" {
		t.Errorf("expected only the new slot deleted, got %v", host.deleted)
	}
	if len(storage.deleted) != 1 {
		t.Errorf("expected the new resource deleted, got %v", storage.deleted)
	}
}

func TestDeleteLessonRemovesFromSnapshot(t *testing.T) {
	svc, _, _, lessonBackend := newLessonFixture()

	if err := svc.DeleteLesson(context.Background(), 101); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(lessonBackend.deleted) != 1 || lessonBackend.deleted[0] != 101 {
		t.Fatalf("expected backend delete of 101, got %v", lessonBackend.deleted)
	}

	snapshot := svc.store.Snapshot()
	if _, lesson := snapshot.FindLesson(101); lesson != nil {
		t.Error("lesson 101 still present in snapshot after delete")
	}
	if section := snapshot.FindSection(10); len(section.Lessons) != 2 {
		t.Errorf("expected 2 lessons left in section 10, got %d", len(section.Lessons))
	}
}
