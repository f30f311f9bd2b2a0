// Package backend is the typed client for the course platform's persistence
// API. Every mutation of the course tree returns the server's view of the
// affected entity; lesson mutations return the full course tree.
package backend

import (
	"courseforge/internal/client"
)

type Client struct {
	api *client.Client
}

func New(api *client.Client) *Client {
	return &Client{api: api}
}

func (c *Client) Session() *client.Session {
	return c.api.Session()
}
