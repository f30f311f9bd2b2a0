package service

import (
	"context"
	"io"
	"math"
	"strings"

	"courseforge/internal/client/backend"
	"courseforge/internal/client/videohost"
	"courseforge/internal/models"
	"courseforge/internal/saga"
	"courseforge/internal/store"
	"courseforge/pkg/logger"
	"courseforge/pkg/media"
	"courseforge/pkg/validator"
)

const (
	defaultMaxVideoMB    = 1024
	defaultMaxResourceMB = 25
)

// LessonService orchestrates the multi-service lesson pipeline: video host
// slot, byte upload, resource storage and the backend database, with
// compensation on partial failure.
type LessonService struct {
	host    VideoHost
	storage ResourceStore
	backend LessonBackend
	store   *store.CourseStore

	maxVideoSize    int64
	maxResourceSize int64
}

func NewLessonService(host VideoHost, storage ResourceStore, lessonBackend LessonBackend, courseStore *store.CourseStore, maxVideoSize, maxResourceSize int64) *LessonService {
	if maxVideoSize <= 0 {
		maxVideoSize = defaultMaxVideoMB * 1024 * 1024
	}
	if maxResourceSize <= 0 {
		maxResourceSize = defaultMaxResourceMB * 1024 * 1024
	}
	return &LessonService{
		host:            host,
		storage:         storage,
		backend:         lessonBackend,
		store:           courseStore,
		maxVideoSize:    maxVideoSize,
		maxResourceSize: maxResourceSize,
	}
}

type CreateLessonInput struct {
	Title     string
	SectionID uint
	Duration  int
	Video     *models.FileUpload
	Resource  *models.FileUpload
}

type UpdateLessonInput struct {
	Title    string
	Duration int
	Video    *models.FileUpload
	Resource *models.FileUpload
}

// CreateLesson runs the create saga. On success the server-returned course
// tree replaces the local snapshot; on failure every remote asset created by
// this call is deleted and a single generic error surfaces.
func (s *LessonService) CreateLesson(ctx context.Context, input CreateLessonInput) (*models.Course, error) {
	title := validator.SanitizeString(input.Title)
	if title == "" {
		return nil, newValidationError("lesson title is required")
	}
	if input.SectionID == 0 {
		return nil, newValidationError("section is required")
	}
	if !input.Video.Provided() {
		return nil, newValidationError("lesson video is required")
	}
	if err := s.validateVideoFile(input.Video); err != nil {
		return nil, err
	}
	if err := s.validateResourceFile(input.Resource); err != nil {
		return nil, err
	}
	if input.Duration < 1 {
		input.Duration = probeDurationMinutes(input.Video)
	}
	if input.Duration < 1 {
		return nil, newValidationError("lesson duration must be at least 1 minute")
	}

	var (
		slot        *videohost.Slot
		resourceURL string
		course      *models.Course
	)

	steps := []saga.Step{
		{
			Name: "create-video-slot",
			Run: func(ctx context.Context) error {
				created, err := s.host.CreateSlot(ctx, title)
				if err != nil {
					return err
				}
				slot = created
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.host.DeleteSlot(ctx, slot.VideoID)
			},
		},
		{
			Name: "upload-video",
			Run: func(ctx context.Context) error {
				return s.host.Upload(ctx, slot, input.Video)
			},
		},
	}

	if shouldUploadResource(input.Resource) {
		steps = append(steps, saga.Step{
			Name: "upload-resource",
			Run: func(ctx context.Context) error {
				url, err := s.storage.UploadResource(ctx, input.Resource)
				if err != nil {
					return err
				}
				resourceURL = url
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.storage.DeleteResourceFile(ctx, resourceURL)
			},
		})
	}

	steps = append(steps, saga.Step{
		Name: "persist-lesson",
		Run: func(ctx context.Context) error {
			persisted, err := s.backend.CreateLesson(ctx, backend.CreateLessonFields{
				Title:        title,
				SectionID:    input.SectionID,
				BunnyVideoID: slot.VideoID,
				Duration:     input.Duration,
				Resource:     resourceURL,
			})
			if err != nil {
				return err
			}
			course = persisted
			return nil
		},
	})

	if err := saga.New("lesson-create", steps...).Execute(ctx); err != nil {
		logger.Error(err, "Lesson creation failed", map[string]interface{}{
			"section_id": input.SectionID,
		})
		return nil, ErrLessonCreateFailed
	}

	snapshot := s.store.Replace(course)
	s.store.InvalidateListings()
	return snapshot, nil
}

// UpdateLesson runs the update saga. Only assets created by this call are
// compensated on failure; the lesson's pre-existing remote video and resource
// are never touched. Replacing a video leaves the old one on the host; only
// the database reference is swapped.
func (s *LessonService) UpdateLesson(ctx context.Context, lessonID uint, input UpdateLessonInput) (*models.Course, error) {
	title := validator.SanitizeString(input.Title)
	if title == "" {
		return nil, newValidationError("lesson title is required")
	}

	current := s.currentLesson(lessonID)
	videoChanged := input.Video.Provided()
	resourceChanged := input.Resource.Provided()

	if videoChanged {
		if err := s.validateVideoFile(input.Video); err != nil {
			return nil, err
		}
	}
	if err := s.validateResourceFile(input.Resource); err != nil {
		return nil, err
	}

	if videoChanged && input.Duration < 1 {
		input.Duration = probeDurationMinutes(input.Video)
	}

	// Nothing changed: success without a network call. A zero duration is an
	// omitted field, not a change.
	if current != nil && !videoChanged && !resourceChanged &&
		s.changedFields(current, title, input.Duration, nil, "").Empty() {
		return s.store.Snapshot(), nil
	}

	if !videoChanged && input.Duration < 1 && (current == nil || current.BunnyVideoID == "") {
		return nil, newValidationError("lesson duration must be at least 1 minute")
	}

	var (
		slot        *videohost.Slot
		resourceURL string
		course      *models.Course
	)

	var steps []saga.Step

	if videoChanged {
		steps = append(steps,
			saga.Step{
				Name: "create-video-slot",
				Run: func(ctx context.Context) error {
					created, err := s.host.CreateSlot(ctx, title)
					if err != nil {
						return err
					}
					slot = created
					return nil
				},
				Compensate: func(ctx context.Context) error {
					return s.host.DeleteSlot(ctx, slot.VideoID)
				},
			},
			saga.Step{
				Name: "upload-video",
				Run: func(ctx context.Context) error {
					return s.host.Upload(ctx, slot, input.Video)
				},
			},
		)
	}

	if shouldUploadResource(input.Resource) {
		steps = append(steps, saga.Step{
			Name: "upload-resource",
			Run: func(ctx context.Context) error {
				url, err := s.storage.UploadResource(ctx, input.Resource)
				if err != nil {
					return err
				}
				resourceURL = url
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.storage.DeleteResourceFile(ctx, resourceURL)
			},
		})
	}

	steps = append(steps, saga.Step{
		Name: "persist-lesson",
		Run: func(ctx context.Context) error {
			fields := s.changedFields(current, title, input.Duration, slot, resourceURL)
			persisted, err := s.backend.UpdateLesson(ctx, lessonID, fields)
			if err != nil {
				return err
			}
			course = persisted
			return nil
		},
	})

	if err := saga.New("lesson-update", steps...).Execute(ctx); err != nil {
		logger.Error(err, "Lesson update failed", map[string]interface{}{
			"lesson_id": lessonID,
		})
		return nil, ErrLessonUpdateFailed
	}

	snapshot := s.store.Replace(course)
	s.store.InvalidateListings()
	return snapshot, nil
}

// changedFields builds the persistence payload from whatever differs from the
// cached lesson. Without a cached lesson to diff against, title and duration
// are always sent.
func (s *LessonService) changedFields(current *models.Lesson, title string, duration int, slot *videohost.Slot, resourceURL string) backend.UpdateLessonFields {
	var fields backend.UpdateLessonFields

	if current == nil || title != current.Title {
		fields.Title = &title
	}
	if duration >= 1 && (current == nil || duration != current.Duration) {
		d := duration
		fields.Duration = &d
	}
	if slot != nil {
		videoID := slot.VideoID
		fields.BunnyVideoID = &videoID
	}
	if resourceURL != "" {
		url := resourceURL
		fields.Resource = &url
	}
	return fields
}

func (s *LessonService) currentLesson(lessonID uint) *models.Lesson {
	_, lesson := s.store.Snapshot().FindLesson(lessonID)
	return lesson
}

// DeleteLesson removes the lesson record and drops it from the snapshot. The
// remote video is left to the backend's cleanup.
func (s *LessonService) DeleteLesson(ctx context.Context, lessonID uint) error {
	if err := s.backend.DeleteLesson(ctx, lessonID); err != nil {
		return err
	}

	s.store.Mutate(func(c *models.Course) {
		for i := range c.Sections {
			lessons := c.Sections[i].Lessons
			for j := range lessons {
				if lessons[j].ID == lessonID {
					c.Sections[i].Lessons = append(lessons[:j], lessons[j+1:]...)
					return
				}
			}
		}
	})
	s.store.InvalidateListings()
	return nil
}

// DeleteResource removes a lesson's resource record and installs the
// server-returned course tree.
func (s *LessonService) DeleteResource(ctx context.Context, resourceID uint) (*models.Course, error) {
	course, err := s.backend.DeleteResourceRecord(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	snapshot := s.store.Replace(course)
	s.store.InvalidateListings()
	return snapshot, nil
}

func (s *LessonService) validateVideoFile(file *models.FileUpload) error {
	if !validator.ValidateVideoContentType(file.ContentType) {
		return newValidationError("unsupported video type %q", file.ContentType)
	}
	if !validator.ValidateFileSize(file.Size, s.maxVideoSize) {
		return newValidationError("video exceeds the maximum allowed size")
	}
	return nil
}

// validateResourceFile gates the size of resource files that will actually be
// uploaded. Unsupported types are skipped elsewhere, not rejected here.
func (s *LessonService) validateResourceFile(file *models.FileUpload) error {
	if !shouldUploadResource(file) {
		return nil
	}
	if !validator.ValidateFileSize(file.Size, s.maxResourceSize) {
		return newValidationError("resource exceeds the maximum allowed size")
	}
	return nil
}

// probeDurationMinutes derives whole minutes from the video container
// metadata when the admin did not supply a duration. Non-seekable streams and
// non-MP4 containers yield zero.
func probeDurationMinutes(file *models.FileUpload) int {
	seeker, ok := file.Content.(io.ReadSeeker)
	if !ok {
		return 0
	}

	d, err := media.Duration(seeker)
	if err != nil {
		logger.Debug("Could not probe video duration", map[string]interface{}{
			"file":  file.Filename,
			"error": err.Error(),
		})
		return 0
	}
	return int(math.Ceil(d.Minutes()))
}

// shouldUploadResource reports whether the optional resource file takes part
// in the pipeline. Files of unsupported MIME types are skipped, not rejected.
func shouldUploadResource(file *models.FileUpload) bool {
	if !file.Provided() {
		return false
	}
	contentType := strings.TrimSpace(file.ContentType)
	return validator.ValidateResourceContentType(contentType)
}
