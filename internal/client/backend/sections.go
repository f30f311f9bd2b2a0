package backend

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"courseforge/internal/client"
	"courseforge/internal/models"
)

func (c *Client) CreateSection(ctx context.Context, title string, courseID uint) (*models.Section, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]interface{}{"title": title, "courseId": courseID}).
			Post("/sections/create")
	})
	if err != nil {
		return nil, err
	}

	var section models.Section
	if err := client.Decode("backend.createSection", resp, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *Client) UpdateSection(ctx context.Context, sectionID uint, title string) (*models.Section, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]string{"title": title}).
			Put(fmt.Sprintf("/sections/update/%d", sectionID))
	})
	if err != nil {
		return nil, err
	}

	var section models.Section
	if err := client.Decode("backend.updateSection", resp, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *Client) DeleteSection(ctx context.Context, sectionID uint) error {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Delete(fmt.Sprintf("/sections/delete/%d", sectionID))
	})
	if err != nil {
		return err
	}
	return client.Decode("backend.deleteSection", resp, nil)
}

func (c *Client) ReorderSections(ctx context.Context, courseID uint, order []models.OrderItem) ([]models.Section, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]interface{}{"sectionOrder": order}).
			Put(fmt.Sprintf("/sections/reorder/%d", courseID))
	})
	if err != nil {
		return nil, err
	}

	var sections []models.Section
	if err := client.Decode("backend.reorderSections", resp, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}
