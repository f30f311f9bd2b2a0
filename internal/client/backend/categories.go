package backend

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"courseforge/internal/client"
	"courseforge/internal/models"
)

// Categories lists public categories; admin listings include the associated
// course counts.
func (c *Client) Categories(ctx context.Context, admin bool) ([]models.Category, error) {
	path := "/categories/all"
	if admin {
		path = "/categories/admin-all"
	}

	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Get(path)
	})
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := client.Decode("backend.categories", resp, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]string{"name": name, "description": description}).
			Post("/categories")
	})
	if err != nil {
		return nil, err
	}

	var category models.Category
	if err := client.Decode("backend.createCategory", resp, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uint, name, description string) (*models.Category, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]string{"name": name, "description": description}).
			Put(fmt.Sprintf("/categories/%d", id))
	})
	if err != nil {
		return nil, err
	}

	var category models.Category
	if err := client.Decode("backend.updateCategory", resp, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory deletes a category, reassigning its courses to
// targetCategoryID when one is given. Reassignment and delete are one
// backend operation.
func (c *Client) DeleteCategory(ctx context.Context, id uint, targetCategoryID *uint) error {
	body := map[string]interface{}{}
	if targetCategoryID != nil {
		body["targetCategoryId"] = *targetCategoryID
	}

	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(body).Delete(fmt.Sprintf("/categories/%d", id))
	})
	if err != nil {
		return err
	}
	return client.Decode("backend.deleteCategory", resp, nil)
}
