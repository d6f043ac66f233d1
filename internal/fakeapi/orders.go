package fakeapi

import (
	"net/http"
	"slices"
	"strings"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

const (
	pageSize        = 10
	dateLayout      = "2006-01-02"
	timestampLayout = "02.01.2006 15:04"
	periodLayout    = "2006-01"

	StatusReview     = "review"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// paginate cuts items to the page requested in r.
func paginate[T any](r *http.Request, items []T, newCount int) models.Page[T] {
	page := 1
	if p, err := parsePositive(r.URL.Query().Get("page")); err == nil {
		page = p
	}
	out := models.Page[T]{Count: len(items), NewCount: newCount, Results: []T{}}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return out
	}
	end := min(start+pageSize, len(items))
	out.Results = items[start:end]

	if end < len(items) {
		next := r.URL.Path + "?page=" + itoa(page+1)
		out.Next = &next
	}
	if page > 1 {
		prev := r.URL.Path + "?page=" + itoa(page-1)
		out.Previous = &prev
	}
	return out
}

// listFilter applies the search, is_new and ordering query parameters
// shared by the admin lists.
type listFilter struct {
	search string
	isNew  string
	desc   bool
}

func filterFrom(r *http.Request) listFilter {
	q := r.URL.Query()
	return listFilter{
		search: strings.ToLower(q.Get("search")),
		isNew:  q.Get("is_new"),
		desc:   !strings.HasPrefix(q.Get("ordering"), "date") && q.Get("ordering") != "id",
	}
}

func (f listFilter) matches(isNew bool, text ...string) bool {
	if f.isNew != "" && f.isNew != boolString(isNew) {
		return false
	}
	if f.search == "" {
		return true
	}
	for _, t := range text {
		if strings.Contains(strings.ToLower(t), f.search) {
			return true
		}
	}
	return false
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	in, files, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}

	missing := map[string][]string{}
	for _, f := range []string{"name", "email"} {
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
	now := s.now()
	date := now.Format(dateLayout)
	order := &models.Order{
		ID:                 s.nextID,
		Name:               in["name"],
		Email:              in["email"],
		PhoneNumber:        in["phone_number"],
		City:               in["city"],
		Street:             in["street"],
		Zip:                in["zip"],
		Message:            in["message"],
		Status:             StatusReview,
		OrderType:          "consultation",
		Date:               &date,
		FormattedTimestamp: now.Format(timestampLayout),
		IsNew:              true,
		Files:              []models.File{},
	}
	if len(files) > 0 {
		order.OrderType = "translation"
	}
	for _, name := range files {
		s.nextID++
		id := order.ID
		order.Files = append(order.Files, models.File{
			ID: s.nextID, File: "/media/orders/" + name, FileName: name, Order: &id,
		})
	}
	s.orders = append(s.orders, order)
	if u := userFrom(r.Context()); u != nil {
		s.orderOwner[order.ID] = u.ID
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	f := filterFrom(r)
	status := r.URL.Query().Get("status")

	s.mu.Lock()
	var (
		out      []models.Order
		newCount int
	)
	for _, o := range s.orders {
		if !u.Staff && s.orderOwner[o.ID] != u.ID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		if !f.matches(o.IsNew, o.Name, o.Email, o.City, o.Message) {
			continue
		}
		if o.IsNew {
			newCount++
		}
		out = append(out, *o)
	}
	s.mu.Unlock()

	if f.desc {
		slices.Reverse(out)
	}
	writeJSON(w, http.StatusOK, paginate(r, out, newCount))
}

func (s *Server) handleUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "userID")
	if !ok {
		notFound(w)
		return
	}

	s.mu.Lock()
	out := []models.Order{}
	for _, o := range s.orders {
		if s.orderOwner[o.ID] == userID {
			out = append(out, *o)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

// orderLocked finds an order visible to u.
func (s *Server) orderLocked(r *http.Request, u *User) (int, bool) {
	id, ok := idParam(r, "id")
	if !ok {
		return 0, false
	}
	for i, o := range s.orders {
		if o.ID == id && (u.Staff || s.orderOwner[id] == u.ID) {
			return i, true
		}
	}
	return 0, false
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.orderLocked(r, userFrom(r.Context()))
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, s.orders[i])
}

var orderStatuses = []string{StatusReview, StatusInProgress, StatusCompleted}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	if st, ok := in["status"]; ok && !slices.Contains(orderStatuses, st) {
		writeFieldErrors(w, map[string][]string{"status": {`"` + st + `" is not a valid choice.`}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.orderLocked(r, userFrom(r.Context()))
	if !ok {
		notFound(w)
		return
	}
	o := s.orders[i]
	if st, ok := in["status"]; ok {
		o.Status = st
	}
	if msg, ok := in["message"]; ok {
		o.Message = msg
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.orderLocked(r, userFrom(r.Context()))
	if !ok {
		notFound(w)
		return
	}
	delete(s.orderOwner, s.orders[i].ID)
	s.orders = slices.Delete(s.orders, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.orderLocked(r, userFrom(r.Context()))
	if !ok {
		notFound(w)
		return
	}
	s.orders[i].IsNew = false
	writeJSON(w, http.StatusOK, map[string]string{"status": "viewed"})
}
