package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/go-resty/resty/v2"

	"courseforge/internal/client"
	"courseforge/internal/models"
)

type CourseFields struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	CategoryID  uint    `json:"categoryId"`
	Language    string  `json:"language"`
}

func (c *Client) CreateCourse(ctx context.Context, fields CourseFields) (*models.Course, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(fields).Post("/courses/create")
	})
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := client.Decode("backend.createCourse", resp, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) UpdateCourse(ctx context.Context, courseID uint, fields CourseFields) (*models.Course, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(fields).Put(fmt.Sprintf("/courses/update/%d", courseID))
	})
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := client.Decode("backend.updateCourse", resp, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) listCourses(ctx context.Context, path string, page, limit int) (*models.PaginatedCourses, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetQueryParam("page", strconv.Itoa(page)).
			SetQueryParam("limit", strconv.Itoa(limit)).
			Get(path)
	})
	if err != nil {
		return nil, err
	}

	var result models.PaginatedCourses
	if err := client.Decode("backend.listCourses", resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminCourses lists every course regardless of status.
func (c *Client) AdminCourses(ctx context.Context, page, limit int) (*models.PaginatedCourses, error) {
	return c.listCourses(ctx, "/courses/admin", page, limit)
}

// StudentCourses lists published courses only.
func (c *Client) StudentCourses(ctx context.Context, page, limit int) (*models.PaginatedCourses, error) {
	return c.listCourses(ctx, "/courses", page, limit)
}

func (c *Client) UpdateCourseStatus(ctx context.Context, courseID uint, status string) (*models.Course, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]string{"status": status}).
			Post(fmt.Sprintf("/courses/update-status/%d", courseID))
	})
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := client.Decode("backend.updateStatus", resp, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// ArchiveCourse soft-deletes a course.
func (c *Client) ArchiveCourse(ctx context.Context, courseID uint) (*models.Course, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Delete(fmt.Sprintf("/courses/archive/%d", courseID))
	})
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := client.Decode("backend.archiveCourse", resp, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UploadThumbnail stores a course thumbnail and returns its URL.
func (c *Client) UploadThumbnail(ctx context.Context, file *models.FileUpload, courseName string, isEditing bool) (string, error) {
	if !file.Provided() {
		return "", fmt.Errorf("thumbnail file is required")
	}

	// Buffered so a token-refresh replay re-sends the full file.
	body, err := io.ReadAll(file.Content)
	if err != nil {
		return "", fmt.Errorf("read thumbnail file: %w", err)
	}

	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetFileReader("thumbnail", file.Filename, bytes.NewReader(body)).
			SetFormData(map[string]string{
				"courseName": courseName,
				"isEditing":  strconv.FormatBool(isEditing),
			}).
			Post("/courses/upload-thumbnail")
	})
	if err != nil {
		return "", err
	}

	var url string
	if err := client.Decode("backend.uploadThumbnail", resp, &url); err != nil {
		return "", err
	}
	return url, nil
}
