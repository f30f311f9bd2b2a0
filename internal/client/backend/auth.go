package backend

import (
	"context"

	"github.com/go-resty/resty/v2"

	"courseforge/internal/client"
	"courseforge/internal/models"
)

// LoginResult is the token pair and profile returned by a successful login.
type LoginResult struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

// Login authenticates against the backend. Auth endpoints never go through
// the refresh-retry path.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	resp, err := c.api.Raw(ctx).SetBody(req).Post("/auth/login")
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if err := client.Decode("backend.login", resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	resp, err := c.api.Raw(ctx).SetBody(req).Post("/auth/register")
	if err != nil {
		return err
	}
	return client.Decode("backend.register", resp, nil)
}

func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	resp, err := c.api.Raw(ctx).
		SetBody(map[string]string{"token": token}).
		Post("/auth/verify-email")
	if err != nil {
		return err
	}
	return client.Decode("backend.verifyEmail", resp, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	resp, err := c.api.Raw(ctx).
		SetBody(map[string]string{"email": email}).
		Post("/auth/forgot-password-request")
	if err != nil {
		return err
	}
	return client.Decode("backend.forgotPassword", resp, nil)
}

func (c *Client) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	resp, err := c.api.Raw(ctx).SetBody(req).Post("/auth/forgot-password-reset")
	if err != nil {
		return err
	}
	return client.Decode("backend.resetPassword", resp, nil)
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/auth/get-profile")
	})
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := client.Decode("backend.profile", resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.api.R(ctx).Post("/auth/logout")
	if err != nil {
		return err
	}
	return client.Decode("backend.logout", resp, nil)
}
