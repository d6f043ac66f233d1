package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

// Messages lists the current user's conversation, newest first.
func (c *HTTPClient) Messages(ctx context.Context) ([]models.Message, error) {
	var list listOf[models.Message]
	if err := c.do(ctx, request{method: http.MethodGet, path: "messages/", auth: true}, &list); err != nil {
		return nil, err
	}
	return list.items, nil
}

// SendMessage posts a message with optional attachments to receiverID.
func (c *HTTPClient) SendMessage(ctx context.Context, receiverID int64, text string, files ...*models.Upload) (*models.Message, error) {
	form := newMultipartForm(map[string]string{
		"id":      strconv.FormatInt(receiverID, 10),
		"message": text,
	}).attach("files", files...)

	var msg models.Message
	if err := c.do(ctx, request{method: http.MethodPost, path: "messages/", form: form, auth: true}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ToggleMessages marks every unread message from senderID as viewed and
// returns how many were updated.
func (c *HTTPClient) ToggleMessages(ctx context.Context, senderID int64) (int, error) {
	body := map[string]int64{"sender_id": senderID}
	var out struct {
		UpdatedCount int `json:"updated_count"`
	}
	if err := c.do(ctx, request{method: http.MethodPost, path: "messages/toggle/", json: body, auth: true}, &out); err != nil {
		return 0, err
	}
	return out.UpdatedCount, nil
}

// CreateRequest submits the public contact form.
func (c *HTTPClient) CreateRequest(ctx context.Context, r models.ContactRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: "requests/", json: r, auth: true}, nil)
}

func (c *HTTPClient) Requests(ctx context.Context, p models.ListParams) (*models.Page[models.ContactRequest], error) {
	var page models.Page[models.ContactRequest]
	if err := c.do(ctx, request{method: http.MethodGet, path: "requests/", query: listQuery(p), auth: true}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) ToggleRequest(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("requests/%d/toggle/", id), auth: true}, nil)
}

func (c *HTTPClient) RequestAnswers(ctx context.Context, id int64) ([]models.RequestAnswer, error) {
	var list listOf[models.RequestAnswer]
	if err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("requests/%d/answers/", id), auth: true}, &list); err != nil {
		return nil, err
	}
	return list.items, nil
}

func (c *HTTPClient) AnswerRequest(ctx context.Context, id int64, text string) (*models.RequestAnswer, error) {
	body := map[string]string{"answer_text": text}
	var answer models.RequestAnswer
	if err := c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("requests/%d/answers/", id), json: body, auth: true}, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}
