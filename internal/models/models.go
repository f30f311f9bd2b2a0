package models

import "time"

const (
	CourseStatusDraft     = "DRAFT"
	CourseStatusPublished = "PUBLISHED"
	CourseStatusArchived  = "ARCHIVED"
)

// Course is the server-owned course tree. Field tags follow the backend wire
// format, which uses camelCase.
type Course struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Thumbnail   string     `json:"thumbnail"`
	CategoryID  uint       `json:"categoryId"`
	Language    string     `json:"language"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`

	Sections []Section    `json:"sections,omitempty"`
	Category *CategoryRef `json:"category,omitempty"`
}

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Section order values are 1-based and dense within a course.
type Section struct {
	ID       uint     `json:"id"`
	Title    string   `json:"title"`
	CourseID uint     `json:"courseId"`
	Order    int      `json:"order"`
	Lessons  []Lesson `json:"lessons"`
}

// Lesson carries a remote video reference or a manually entered duration.
// The resource collection is array-shaped on the wire but holds at most one
// entry.
type Lesson struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	SectionID    uint       `json:"sectionId"`
	Order        int        `json:"order"`
	BunnyVideoID string     `json:"bunnyVideoId,omitempty"`
	Duration     int        `json:"duration,omitempty"`
	Resource     []Resource `json:"resource,omitempty"`
}

type Resource struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	LessonID uint   `json:"lessonId"`
}

type Quiz struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	SectionID uint       `json:"sectionId"`
	Questions []Question `json:"questions"`
}

type Question struct {
	ID      uint     `json:"id,omitempty"`
	Title   string   `json:"title"`
	Options []Option `json:"options"`
}

type Option struct {
	ID        uint   `json:"id,omitempty"`
	Title     string `json:"title"`
	IsCorrect bool   `json:"isCorrect"`
}

type Category struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Count       *CategoryCount `json:"_count,omitempty"`
}

type CategoryCount struct {
	Courses int `json:"courses"`
}

// CourseCount returns the number of courses associated with the category.
func (c *Category) CourseCount() int {
	if c == nil || c.Count == nil {
		return 0
	}
	return c.Count.Courses
}

type User struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type Pagination struct {
	TotalCourses int `json:"totalCourses"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
	Limit        int `json:"limit"`
}

type PaginatedCourses struct {
	Courses    []Course   `json:"courses"`
	Pagination Pagination `json:"pagination"`
}

// OrderItem is one entry of a persisted reorder payload.
type OrderItem struct {
	ID    uint `json:"id"`
	Order int  `json:"order"`
}

// Clone deep-copies the course tree so snapshots can be handed out without
// sharing slice backing arrays.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}

	clone := *c
	if c.Category != nil {
		category := *c.Category
		clone.Category = &category
	}
	if c.Sections != nil {
		clone.Sections = make([]Section, len(c.Sections))
		for i, section := range c.Sections {
			cloned := section
			if section.Lessons != nil {
				cloned.Lessons = make([]Lesson, len(section.Lessons))
				for j, lesson := range section.Lessons {
					clonedLesson := lesson
					if lesson.Resource != nil {
						clonedLesson.Resource = append([]Resource(nil), lesson.Resource...)
					}
					cloned.Lessons[j] = clonedLesson
				}
			}
			clone.Sections[i] = cloned
		}
	}
	return &clone
}

// FindSection returns the section with the given id, or nil.
func (c *Course) FindSection(sectionID uint) *Section {
	if c == nil {
		return nil
	}
	for i := range c.Sections {
		if c.Sections[i].ID == sectionID {
			return &c.Sections[i]
		}
	}
	return nil
}

// FindLesson returns the lesson with the given id and its owning section, or nils.
func (c *Course) FindLesson(lessonID uint) (*Section, *Lesson) {
	if c == nil {
		return nil, nil
	}
	for i := range c.Sections {
		for j := range c.Sections[i].Lessons {
			if c.Sections[i].Lessons[j].ID == lessonID {
				return &c.Sections[i], &c.Sections[i].Lessons[j]
			}
		}
	}
	return nil, nil
}
