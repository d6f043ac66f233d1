package fakeapi

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

func customerData(u *User) *models.CustomerData {
	if u == nil {
		return nil
	}
	return &models.CustomerData{
		ID:          u.ID,
		DateJoined:  u.DateJoined.Format(dateLayout),
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		City:        u.City,
		Street:      u.Street,
		Zip:         u.Zip,
	}
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	s.mu.Lock()
	out := []models.Message{}
	for _, m := range s.messages {
		if m.Sender == u.ID || m.Receiver == u.ID {
			out = append(out, *m)
		}
	}
	s.mu.Unlock()

	slices.Reverse(out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	in, files, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	receiverID, err := strconv.ParseInt(in["id"], 10, 64)
	if err != nil {
		writeFieldErrors(w, map[string][]string{"id": {"A valid integer is required."}})
		return
	}
	if in["message"] == "" && len(files) == 0 {
		writeFieldErrors(w, map[string][]string{"message": {"This field may not be blank."}})
		return
	}

	u := userFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	receiver, ok := s.users[receiverID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "not_found", "Receiver not found.")
		return
	}

	s.nextID++
	now := s.now()
	msg := &models.Message{
		ID:                 s.nextID,
		Sender:             u.ID,
		Receiver:           receiver.ID,
		Message:            in["message"],
		Timestamp:          now.UTC().Format("2006-01-02T15:04:05Z"),
		FormattedTimestamp: now.Format(timestampLayout),
		Files:              []models.File{},
		SenderData:         customerData(u),
		ReceiverData:       customerData(receiver),
	}
	for _, name := range files {
		s.nextID++
		id := msg.ID
		msg.Files = append(msg.Files, models.File{
			ID: s.nextID, File: "/media/messages/" + name, FileName: name, MessageID: &id,
		})
	}
	s.messages = append(s.messages, msg)
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleToggleMessages(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	senderID, err := strconv.ParseInt(in["sender_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sender_id is required"})
		return
	}

	u := userFrom(r.Context())
	s.mu.Lock()
	updated := 0
	for _, m := range s.messages {
		if m.Sender == senderID && m.Receiver == u.ID && !m.Viewed {
			m.Viewed = true
			updated++
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "updated_count": updated})
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	missing := map[string][]string{}
	for _, f := range []string{"name", "email", "message"} {
		if in[f] == "" {
			missing[f] = []string{"This field is required."}
		}
	}
	if len(missing) > 0 {
		writeFieldErrors(w, missing)
		return
	}

	s.mu.Lock()
	s.nextID++
	req := &models.ContactRequest{
		ID:                 s.nextID,
		Name:               in["name"],
		Email:              in["email"],
		PhoneNumber:        in["phone_number"],
		Message:            in["message"],
		IsNew:              true,
		FormattedTimestamp: s.now().Format(timestampLayout),
	}
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	f := filterFrom(r)

	s.mu.Lock()
	var (
		out      []models.ContactRequest
		newCount int
	)
	for _, req := range s.requests {
		if req.IsNew {
			newCount++
		}
		if f.matches(req.IsNew, req.Name, req.Email, req.Message) {
			out = append(out, *req)
		}
	}
	s.mu.Unlock()

	if f.desc {
		slices.Reverse(out)
	}
	writeJSON(w, http.StatusOK, paginate(r, out, newCount))
}

func (s *Server) requestLocked(r *http.Request) (*models.ContactRequest, bool) {
	id, ok := idParam(r, "id")
	if !ok {
		return nil, false
	}
	for _, req := range s.requests {
		if req.ID == id {
			return req, true
		}
	}
	return nil, false
}

func (s *Server) handleToggleRequest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requestLocked(r)
	if !ok {
		notFound(w)
		return
	}
	req.IsNew = false
	writeJSON(w, http.StatusOK, map[string]string{"status": "viewed"})
}

func (s *Server) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requestLocked(r)
	if !ok {
		notFound(w)
		return
	}
	out := append([]models.RequestAnswer{}, s.answers[req.ID]...)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAnswerRequest(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	if in["answer_text"] == "" {
		writeFieldErrors(w, map[string][]string{"answer_text": {"This field may not be blank."}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requestLocked(r)
	if !ok {
		notFound(w)
		return
	}
	s.nextID++
	answer := models.RequestAnswer{
		ID:                 s.nextID,
		Request:            req.ID,
		AnswerText:         in["answer_text"],
		FormattedTimestamp: s.now().Format(timestampLayout),
	}
	s.answers[req.ID] = append(s.answers[req.ID], answer)
	req.IsNew = false
	writeJSON(w, http.StatusCreated, answer)
}
