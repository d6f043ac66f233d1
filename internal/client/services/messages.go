package services

import (
	"context"
	"strings"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

type MessageAPI interface {
	Messages(ctx context.Context) ([]models.Message, error)
	SendMessage(ctx context.Context, receiverID int64, text string, files ...*models.Upload) (*models.Message, error)
	ToggleMessages(ctx context.Context, senderID int64) (int, error)
}

// MessageService is the customer's conversation with the agency.
type MessageService interface {
	List(ctx context.Context) ([]models.Message, error)
	Send(ctx context.Context, text string, files ...*models.Upload) (*models.Message, error)
	// ToggleRead marks the agency's messages as read and returns how many
	// changed.
	ToggleRead(ctx context.Context) (int, error)
}

type messageService struct {
	api    MessageAPI
	agency int64
}

// NewMessageService binds the conversation to the agency account agencyID.
func NewMessageService(api MessageAPI, agencyID int64) MessageService {
	return &messageService{api: api, agency: agencyID}
}

func (s *messageService) List(ctx context.Context) ([]models.Message, error) {
	msgs, err := s.api.Messages(ctx)
	return msgs, normalized(err)
}

func (s *messageService) Send(ctx context.Context, text string, files ...*models.Upload) (*models.Message, error) {
	if strings.TrimSpace(text) == "" && len(files) == 0 {
		return nil, ErrEmptyMessage
	}
	msg, err := s.api.SendMessage(ctx, s.agency, text, files...)
	return msg, normalized(err)
}

func (s *messageService) ToggleRead(ctx context.Context) (int, error) {
	n, err := s.api.ToggleMessages(ctx, s.agency)
	return n, normalized(err)
}

type ContactAPI interface {
	CreateRequest(ctx context.Context, r models.ContactRequest) error
}

// ContactService submits the public contact form.
type ContactService interface {
	SendRequest(ctx context.Context, name, email, phone, message string) error
}

type contactService struct {
	api ContactAPI
}

func NewContactService(api ContactAPI) ContactService {
	return &contactService{api: api}
}

func (s *contactService) SendRequest(ctx context.Context, name, email, phone, message string) error {
	return normalized(s.api.CreateRequest(ctx, models.ContactRequest{
		Name:        name,
		Email:       email,
		PhoneNumber: phone,
		Message:     message,
	}))
}
