package models

// Message is a chat message between a customer and the agency.
type Message struct {
	ID                 int64         `json:"id"`
	Sender             int64         `json:"sender"`
	Receiver           int64         `json:"receiver"`
	Message            string        `json:"message"`
	Viewed             bool          `json:"viewed"`
	Timestamp          string        `json:"timestamp,omitempty"`
	FormattedTimestamp string        `json:"formatted_timestamp"`
	Files              []File        `json:"files"`
	SenderData         *CustomerData `json:"sender_data,omitempty"`
	ReceiverData       *CustomerData `json:"receiver_data,omitempty"`
}

// ContactRequest is a message sent through the public contact form.
type ContactRequest struct {
	ID                 int64  `json:"id,omitempty"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phone_number"`
	Message            string `json:"message"`
	IsNew              bool   `json:"is_new,omitempty"`
	FormattedTimestamp string `json:"formatted_timestamp,omitempty"`
}

// RequestAnswer is an admin reply to a contact request.
type RequestAnswer struct {
	ID                 int64  `json:"id,omitempty"`
	Request            int64  `json:"request,omitempty"`
	AnswerText         string `json:"answer_text"`
	FormattedTimestamp string `json:"formatted_timestamp,omitempty"`
}

// Review is a public customer review.
type Review struct {
	ID               int64  `json:"id"`
	AuthorName       string `json:"author_name"`
	Rating           int    `json:"rating"`
	OriginalLanguage string `json:"original_language"`
	Text             string `json:"text"`
	ReviewTimestamp  string `json:"review_timestamp"`
	ProfilePhotoURL  string `json:"profile_photo_url"`
}

// Verification is the e-mail verification failure body.
type Verification struct {
	Attempts *int   `json:"attempts"`
	Message  string `json:"message"`
	Detail   string `json:"detail"`
}
