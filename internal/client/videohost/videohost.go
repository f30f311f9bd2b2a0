// Package videohost wraps the remote video hosting provider. Slot management
// goes through the backend's proxy routes; the byte upload goes directly to
// the signed upload target returned at slot creation.
package videohost

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"

	"courseforge/internal/client"
	"courseforge/internal/models"
)

// Slot is a created but not necessarily filled video placeholder.
type Slot struct {
	VideoID   string `json:"videoId"`
	UploadURL string `json:"uploadUrl"`
	LibraryID string `json:"libraryId"`
	AccessKey string `json:"accessKey"`
}

type Config struct {
	LibraryID string `json:"libraryId"`
}

type Client struct {
	api    *client.Client
	upload *resty.Client
}

func New(api *client.Client, uploadTimeout time.Duration) *Client {
	return &Client{
		api:    api,
		upload: resty.New().SetTimeout(uploadTimeout),
	}
}

func (c *Client) GetConfig(ctx context.Context) (*Config, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/bunny/config")
	})
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := client.Decode("videohost.config", resp, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CreateSlot requests a video placeholder named after the lesson title.
func (c *Client) CreateSlot(ctx context.Context, title string) (*Slot, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(map[string]string{"title": title}).Post("/bunny/create")
	})
	if err != nil {
		return nil, err
	}

	var slot Slot
	if err := client.Decode("videohost.create", resp, &slot); err != nil {
		return nil, err
	}
	if slot.VideoID == "" || slot.UploadURL == "" {
		return nil, &client.DecodeError{Op: "videohost.create", Err: fmt.Errorf("slot is missing videoId or uploadUrl")}
	}
	return &slot, nil
}

// Upload streams the video bytes to the slot's signed upload target.
func (c *Client) Upload(ctx context.Context, slot *Slot, file *models.FileUpload) error {
	if !file.Provided() {
		return fmt.Errorf("video file is required")
	}

	body, err := io.ReadAll(file.Content)
	if err != nil {
		return fmt.Errorf("reading video file: %w", err)
	}

	resp, err := c.upload.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetHeader("AccessKey", slot.AccessKey).
		SetBody(body).
		Put(slot.UploadURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &client.APIError{Status: resp.StatusCode(), Message: "video upload rejected"}
	}
	return nil
}

// DeleteSlot removes a video from the host. A missing video is treated as
// already deleted so compensation stays idempotent.
func (c *Client) DeleteSlot(ctx context.Context, videoID string) error {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Delete("/bunny/" + videoID)
	})
	if err != nil {
		return err
	}

	if err := client.Decode("videohost.delete", resp, nil); err != nil {
		if client.IsNotFound(err) {
			return nil
		}
		return err
	}
	return nil
}

// EmbedURL resolves the playback URL for a hosted video.
func (c *Client) EmbedURL(ctx context.Context, videoID string) (string, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/bunny/get-embed-url/" + videoID)
	})
	if err != nil {
		return "", err
	}

	var data struct {
		EmbedURL string `json:"embedUrl"`
	}
	if err := client.Decode("videohost.embed", resp, &data); err != nil {
		return "", err
	}
	return data.EmbedURL, nil
}
