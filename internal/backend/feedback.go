package backend

import (
	"context"
	"net/http"

	"github.com/Freeeeeet/parkflow_bot/internal/model"
)

// SendFeedback сохраняет отзыв
func (c *Client) SendFeedback(ctx context.Context, in model.FeedbackInput) (*model.Feedback, error) {
	var fb model.Feedback
	_, err := c.call(ctx, request{
		op:     "send feedback",
		method: http.MethodPost,
		path:   "/feedback",
		body:   in,
		ok:     []int{http.StatusOK, http.StatusCreated},
		out:    &fb,
	})
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// Feedback возвращает все отзывы в порядке бэкенда (от старых к новым)
func (c *Client) Feedback(ctx context.Context) ([]model.Feedback, error) {
	var list []model.Feedback
	_, err := c.call(ctx, request{
		op:     "list feedback",
		method: http.MethodGet,
		path:   "/feedback",
		ok:     []int{http.StatusOK},
		out:    &list,
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
