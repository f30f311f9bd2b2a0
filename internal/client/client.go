package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"courseforge/pkg/logger"
)

const refreshPath = "/auth/refresh-tokens"

// Envelope is the backend's uniform response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client is the shared REST core for every remote collaborator. It injects
// the session's bearer token and performs a single token refresh and replay
// when a request comes back 401.
type Client struct {
	rest    *resty.Client
	session *Session
}

func New(baseURL string, timeout time.Duration, session *Session) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		rest:    rest,
		session: session,
	}
}

func (c *Client) Session() *Session {
	return c.session
}

// R returns a request carrying ctx and the current access token.
func (c *Client) R(ctx context.Context) *resty.Request {
	req := c.rest.R().SetContext(ctx)
	if token := c.session.AccessToken(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// Raw returns a request without credentials, for auth endpoints and for
// targets outside the backend.
func (c *Client) Raw(ctx context.Context) *resty.Request {
	return c.rest.R().SetContext(ctx)
}

// Do runs send with a fresh request. A 401 response triggers exactly one
// token refresh followed by a replay of the original request; auth endpoints
// must not go through Do. A failed refresh expires the session.
func (c *Client) Do(ctx context.Context, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	resp, err := send(c.R(ctx))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		return resp, nil
	}

	if err := c.refreshTokens(ctx); err != nil {
		logger.Warn("Token refresh failed, session expired", map[string]interface{}{"error": err.Error()})
		c.session.expire()
		return nil, ErrSessionExpired
	}

	return send(c.R(ctx))
}

func (c *Client) refreshTokens(ctx context.Context) error {
	refresh := c.session.RefreshToken()
	if refresh == "" {
		return fmt.Errorf("no refresh token held")
	}

	resp, err := c.Raw(ctx).
		SetHeader("Authorization", "Bearer "+refresh).
		Post(refreshPath)
	if err != nil {
		return err
	}

	var data struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := Decode("auth.refresh", resp, &data); err != nil {
		return err
	}
	if data.AccessToken == "" {
		return &DecodeError{Op: "auth.refresh", Err: fmt.Errorf("response carries no access token")}
	}

	c.session.SetTokens(data.AccessToken, data.RefreshToken)
	return nil
}

// Decode validates the envelope and unmarshals its data payload into dest.
// A schema mismatch yields a DecodeError, a rejected request an APIError.
func Decode(op string, resp *resty.Response, dest interface{}) error {
	var env Envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if resp.IsError() {
			// No decodable body; the status alone is the error.
			return &APIError{Status: resp.StatusCode()}
		}
		return &DecodeError{Op: op, Err: err}
	}

	if resp.IsError() || !env.Success {
		status := resp.StatusCode()
		if status < 400 {
			status = http.StatusBadGateway
		}
		return &APIError{Status: status, Message: env.Message}
	}

	if dest == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &DecodeError{Op: op, Err: fmt.Errorf("successful response carries no data")}
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}
