package fakeapi

import (
	"cmp"
	"net/http"
	"slices"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	f := filterFrom(r)

	s.mu.Lock()
	var out []models.Customer
	for _, u := range s.users {
		if u.Staff || !f.matches(false, u.Email, u.FirstName, u.LastName) {
			continue
		}
		orders := []models.Order{}
		for _, o := range s.orders {
			if s.orderOwner[o.ID] == u.ID {
				orders = append(orders, *o)
			}
		}
		out = append(out, models.Customer{
			ID:            u.ID,
			Email:         u.Email,
			FirstName:     u.FirstName,
			LastName:      u.LastName,
			ProfileImgURL: u.ProfileImgURL,
			Orders:        orders,
		})
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b models.Customer) int { return cmp.Compare(a.ID, b.ID) })
	if f.desc {
		slices.Reverse(out)
	}
	writeJSON(w, http.StatusOK, paginate(r, out, 0))
}

func (s *Server) handleListTranslations(w http.ResponseWriter, r *http.Request) {
	f := filterFrom(r)

	s.mu.Lock()
	var out []models.Translation
	for _, t := range s.translations {
		if f.matches(false, t.Name, t.InitialText, t.TranslatedText) {
			out = append(out, *t)
		}
	}
	s.mu.Unlock()

	if f.desc {
		slices.Reverse(out)
	}
	writeJSON(w, http.StatusOK, paginate(r, out, 0))
}

func (s *Server) handleSaveTranslation(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	if in["name"] == "" {
		writeFieldErrors(w, map[string][]string{"name": {"This field is required."}})
		return
	}

	s.mu.Lock()
	s.nextID++
	t := &models.Translation{
		ID:                 s.nextID,
		Name:               in["name"],
		InitialText:        in["initial_text"],
		TranslatedText:     in["translated_text"],
		FormattedTimestamp: s.now().Format(timestampLayout),
	}
	s.translations = append(s.translations, t)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleDeleteTranslation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		notFound(w)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.translations, func(t *models.Translation) bool { return t.ID == id })
	if i < 0 {
		notFound(w)
		return
	}
	s.translations = slices.Delete(s.translations, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBaseStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := models.BaseStats{TotalOrders: len(s.orders)}
	for _, o := range s.orders {
		if o.IsNew {
			stats.NewOrders++
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, stats)
}

var statusLabels = map[string]string{
	StatusReview:     "In review",
	StatusInProgress: "In progress",
	StatusCompleted:  "Completed",
}

func (s *Server) handleStatusDistribution(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	counts := map[string]int{}
	for _, o := range s.orders {
		counts[o.Status]++
	}
	s.mu.Unlock()

	out := []models.StatusStat{}
	for _, st := range orderStatuses {
		if n := counts[st]; n > 0 {
			out = append(out, models.StatusStat{ID: st, Value: n, Label: statusLabels[st]})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// byPeriod groups timestamps by month, oldest first.
func byPeriod(times []time.Time) []models.PeriodCount {
	counts := map[string]int{}
	for _, t := range times {
		counts[t.Format(periodLayout)]++
	}
	out := make([]models.PeriodCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, models.PeriodCount{Period: p, Count: n})
	}
	slices.SortFunc(out, func(a, b models.PeriodCount) int { return cmp.Compare(a.Period, b.Period) })
	return out
}

func (s *Server) orderTimesLocked() []time.Time {
	var out []time.Time
	for _, o := range s.orders {
		if t, err := time.Parse(timestampLayout, o.FormattedTimestamp); err == nil {
			out = append(out, t)
		}
	}
	return out
}

func (s *Server) requestTimesLocked() []time.Time {
	var out []time.Time
	for _, req := range s.requests {
		if t, err := time.Parse(timestampLayout, req.FormattedTimestamp); err == nil {
			out = append(out, t)
		}
	}
	return out
}

func (s *Server) handleOrderingDynamics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	times := s.orderTimesLocked()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, byPeriod(times))
}

func (s *Server) handleTypeDistribution(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	counts := map[string]int{}
	for _, o := range s.orders {
		counts[o.OrderType]++
	}
	s.mu.Unlock()

	out := make([]models.TypeStat, 0, len(counts))
	for t, n := range counts {
		out = append(out, models.TypeStat{OrderType: t, Value: n})
	}
	slices.SortFunc(out, func(a, b models.TypeStat) int { return cmp.Compare(a.OrderType, b.OrderType) })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGeography(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	counts := map[string]int{}
	for _, o := range s.orders {
		if o.City != "" {
			counts[o.City]++
		}
	}
	s.mu.Unlock()

	out := make([]models.GeographyStat, 0, len(counts))
	for c, n := range counts {
		out = append(out, models.GeographyStat{City: c, Count: n})
	}
	slices.SortFunc(out, func(a, b models.GeographyStat) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.City, b.City))
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGrowth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var times []time.Time
	for _, u := range s.users {
		if !u.Staff {
			times = append(times, u.DateJoined)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, byPeriod(times))
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cmpResult := models.Comparison{
		Orders:   byPeriod(s.orderTimesLocked()),
		Requests: byPeriod(s.requestTimesLocked()),
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, cmpResult)
}
