package background

import (
	"context"
	"time"

	"courseforge/internal/models"
	"courseforge/internal/store"
	"courseforge/pkg/logger"
)

const refreshPageSize = 100

// courseLister is the uncached listing surface of the backend client. The
// refresher calls it directly so reconciliation never reads a cached page.
type courseLister interface {
	AdminCourses(ctx context.Context, page, limit int) (*models.PaginatedCourses, error)
}

// Refresher periodically refetches the admin course listing and reconciles
// the snapshot store with it. This bounds how long a stale local course tree
// can survive a lost update on the backend.
type Refresher struct {
	courses  courseLister
	store    *store.CourseStore
	interval time.Duration
}

func NewRefresher(courses courseLister, courseStore *store.CourseStore, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Refresher{
		courses:  courses,
		store:    courseStore,
		interval: interval,
	}
}

// Register puts the recurring refresh job on the scheduler.
func (r *Refresher) Register(s *Scheduler) error {
	return s.Schedule(Job{
		Name:    "course-snapshot-refresh",
		Run:     r.refresh,
		Timeout: 30 * time.Second,
		Every:   r.interval,
		Retry:   RetryPolicy{MaxRetries: 2, Backoff: 10 * time.Second},
	})
}

func (r *Refresher) refresh(ctx context.Context) error {
	loaded := r.store.Snapshot()
	if loaded == nil {
		// Nothing to reconcile without a loaded course.
		return nil
	}

	result, err := r.courses.AdminCourses(ctx, 1, refreshPageSize)
	if err != nil {
		return err
	}

	var server *models.Course
	for i := range result.Courses {
		if result.Courses[i].ID == loaded.ID {
			server = &result.Courses[i]
			break
		}
	}

	if server == nil {
		logger.Warn("Loaded course no longer listed, dropping snapshot", map[string]interface{}{
			"course_id": loaded.ID,
		})
		r.store.Reset()
		return nil
	}

	r.store.Replace(server)
	logger.Debug("Course snapshot reconciled", map[string]interface{}{
		"course_id": loaded.ID,
	})
	return nil
}
