package backend

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"courseforge/internal/client"
	"courseforge/internal/models"
)

// CreateLessonFields is the persistence payload of a new lesson. Resource is
// the already-uploaded file URL, not the file itself.
type CreateLessonFields struct {
	Title        string `json:"title"`
	SectionID    uint   `json:"sectionId"`
	BunnyVideoID string `json:"bunnyVideoId,omitempty"`
	Duration     int    `json:"duration,omitempty"`
	Resource     string `json:"resource,omitempty"`
}

// UpdateLessonFields carries only the fields that changed; nil pointers are
// omitted from the request.
type UpdateLessonFields struct {
	Title        *string `json:"title,omitempty"`
	Duration     *int    `json:"duration,omitempty"`
	BunnyVideoID *string `json:"bunnyVideoId,omitempty"`
	Resource     *string `json:"resource,omitempty"`
}

// Empty reports whether the update carries no changes at all.
func (f UpdateLessonFields) Empty() bool {
	return f.Title == nil && f.Duration == nil && f.BunnyVideoID == nil && f.Resource == nil
}

func (c *Client) CreateLesson(ctx context.Context, fields CreateLessonFields) (*models.Course, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(fields).Post("/lessons/create")
	})
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := client.Decode("backend.createLesson", resp, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) UpdateLesson(ctx context.Context, lessonID uint, fields UpdateLessonFields) (*models.Course, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(fields).Put(fmt.Sprintf("/lessons/update/%d", lessonID))
	})
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := client.Decode("backend.updateLesson", resp, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) DeleteLesson(ctx context.Context, lessonID uint) error {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Delete(fmt.Sprintf("/lessons/%d", lessonID))
	})
	if err != nil {
		return err
	}
	return client.Decode("backend.deleteLesson", resp, nil)
}

func (c *Client) ReorderLessons(ctx context.Context, sectionID uint, order []models.OrderItem) ([]models.Lesson, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]interface{}{"lessonOrder": order}).
			Put(fmt.Sprintf("/lessons/reorder/%d", sectionID))
	})
	if err != nil {
		return nil, err
	}

	var lessons []models.Lesson
	if err := client.Decode("backend.reorderLessons", resp, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// DeleteResourceRecord removes a lesson resource record and returns the
// updated course tree.
func (c *Client) DeleteResourceRecord(ctx context.Context, resourceID uint) (*models.Course, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Delete(fmt.Sprintf("/lessons/resource/%d", resourceID))
	})
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := client.Decode("backend.deleteResource", resp, &course); err != nil {
		return nil, err
	}
	return &course, nil
}
