// Package storage wraps the backend's resource file storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"

	"courseforge/internal/client"
	"courseforge/internal/models"
)

type Client struct {
	api *client.Client
}

func New(api *client.Client) *Client {
	return &Client{api: api}
}

// UploadResource stores a lesson resource file and returns its public URL.
func (c *Client) UploadResource(ctx context.Context, file *models.FileUpload) (string, error) {
	if !file.Provided() {
		return "", fmt.Errorf("resource file is required")
	}

	// The body must survive a token-refresh replay, so the file is buffered
	// once and every attempt reads a fresh view of it.
	body, err := io.ReadAll(file.Content)
	if err != nil {
		return "", fmt.Errorf("read resource file: %w", err)
	}

	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetFileReader("resource", file.Filename, bytes.NewReader(body)).
			Post("/lessons/upload-resource")
	})
	if err != nil {
		return "", err
	}

	var data struct {
		ResourceURL string `json:"resourceUrl"`
	}
	if err := client.Decode("storage.upload", resp, &data); err != nil {
		return "", err
	}
	if data.ResourceURL == "" {
		return "", &client.DecodeError{Op: "storage.upload", Err: fmt.Errorf("response carries no resource url")}
	}
	return data.ResourceURL, nil
}

// DeleteResourceFile removes a stored file by URL. Missing files count as
// already deleted.
func (c *Client) DeleteResourceFile(ctx context.Context, resourceURL string) error {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]string{"resourceUrl": resourceURL}).
			Delete("/lessons/resource/file")
	})
	if err != nil {
		return err
	}

	if err := client.Decode("storage.delete", resp, nil); err != nil {
		if client.IsNotFound(err) {
			return nil
		}
		return err
	}
	return nil
}
