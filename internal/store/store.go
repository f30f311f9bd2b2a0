// Package store holds the process-wide course snapshot: the locally cached,
// optimistically updated copy of the server-owned course tree. All writes go
// through the single mutation entry points and produce a new immutable
// snapshot; consumers subscribe instead of reaching into shared state.
package store

import (
	"fmt"
	"sync"
	"time"

	"courseforge/internal/models"
	"courseforge/pkg/cache"
	"courseforge/pkg/logger"
)

const (
	snapshotTTL     = time.Hour
	coursesListKey  = "courses:list"
	snapshotKeyFmt  = "course:snapshot:%d"
	snapshotKeyScan = "course:snapshot:*"
)

// Subscriber receives every new snapshot. Callbacks run synchronously on the
// mutating goroutine and must not call back into the store.
type Subscriber func(*models.Course)

type CourseStore struct {
	mu      sync.RWMutex
	course  *models.Course
	subs    map[int]Subscriber
	nextSub int

	cache *cache.Cache
}

func NewCourseStore(c *cache.Cache) *CourseStore {
	return &CourseStore{
		subs:  make(map[int]Subscriber),
		cache: c,
	}
}

// Snapshot returns an immutable copy of the current course tree, or nil when
// no course is loaded.
func (s *CourseStore) Snapshot() *models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.course.Clone()
}

// Replace swaps the whole tree for the server-returned course. Last writer
// wins; there is no merging.
func (s *CourseStore) Replace(course *models.Course) *models.Course {
	s.mu.Lock()
	s.course = course.Clone()
	snapshot := s.course.Clone()
	subs := s.subscribers()
	s.mu.Unlock()

	s.mirror(snapshot)
	notify(subs, snapshot)
	return snapshot
}

// Mutate applies fn to a copy of the current tree and installs the result as
// the new snapshot. fn sees a private copy and may modify it freely.
func (s *CourseStore) Mutate(fn func(*models.Course)) *models.Course {
	s.mu.Lock()
	working := s.course.Clone()
	if working == nil {
		s.mu.Unlock()
		return nil
	}
	fn(working)
	s.course = working
	snapshot := working.Clone()
	subs := s.subscribers()
	s.mu.Unlock()

	s.mirror(snapshot)
	notify(subs, snapshot)
	return snapshot
}

// Reset drops the loaded course, e.g. on logout.
func (s *CourseStore) Reset() {
	s.mu.Lock()
	s.course = nil
	subs := s.subscribers()
	s.mu.Unlock()

	if s.cache.Enabled() {
		if err := s.cache.DeletePattern(snapshotKeyScan); err != nil {
			logger.Warn("Failed to clear snapshot cache", map[string]interface{}{"error": err.Error()})
		}
	}
	notify(subs, nil)
}

// Subscribe registers fn for every future snapshot and returns an
// unsubscribe function.
func (s *CourseStore) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// InvalidateListings marks cached course listings stale so the next read
// refetches from the backend.
func (s *CourseStore) InvalidateListings() {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.DeletePattern(coursesListKey + "*"); err != nil {
		logger.Warn("Failed to invalidate course listings", map[string]interface{}{"error": err.Error()})
	}
}

// mirror writes the snapshot into redis best-effort; the in-memory copy is
// authoritative.
func (s *CourseStore) mirror(course *models.Course) {
	if course == nil || !s.cache.Enabled() {
		return
	}
	key := fmt.Sprintf(snapshotKeyFmt, course.ID)
	if err := s.cache.Set(key, course, snapshotTTL); err != nil {
		logger.Warn("Failed to mirror course snapshot", map[string]interface{}{
			"course_id": course.ID,
			"error":     err.Error(),
		})
	}
}

func (s *CourseStore) subscribers() []Subscriber {
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []Subscriber, course *models.Course) {
	for _, fn := range subs {
		fn(course)
	}
}
