package backend

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"courseforge/internal/client"
	"courseforge/internal/models"
)

// QuizBySection fetches the section's quiz; (nil, nil) when the section has
// none.
func (c *Client) QuizBySection(ctx context.Context, sectionID uint) (*models.Quiz, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Get(fmt.Sprintf("/quizzes/section/%d", sectionID))
	})
	if err != nil {
		return nil, err
	}

	var quiz models.Quiz
	if err := client.Decode("backend.quizBySection", resp, &quiz); err != nil {
		if client.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

// UpsertQuiz replaces the section's quiz wholesale.
func (c *Client) UpsertQuiz(ctx context.Context, req models.UpsertQuizRequest) (*models.Quiz, error) {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(req).Post("/quizzes/upsert")
	})
	if err != nil {
		return nil, err
	}

	var quiz models.Quiz
	if err := client.Decode("backend.upsertQuiz", resp, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (c *Client) DeleteQuiz(ctx context.Context, quizID uint) error {
	resp, err := c.api.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Delete(fmt.Sprintf("/quizzes/%d", quizID))
	})
	if err != nil {
		return err
	}
	return client.Decode("backend.deleteQuiz", resp, nil)
}
