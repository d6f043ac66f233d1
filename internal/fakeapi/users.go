package fakeapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	"github.com/google/uuid"
)

// AddUser registers a verified account and returns it.
func (s *Server) AddUser(email, password, firstName, lastName string, staff bool) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, firstName, lastName, staff, true)
}

func (s *Server) addUserLocked(email, password, firstName, lastName string, staff, verified bool) *User {
	s.nextID++
	u := &User{
		ID:         s.nextID,
		Email:      strings.ToLower(email),
		Password:   password,
		FirstName:  firstName,
		LastName:   lastName,
		DateJoined: s.now().UTC(),
		Staff:      staff,
		Verified:   verified,
		code:       s.verificationCode,
		attempts:   defaultVerificationAttempts,
	}
	s.users[u.ID] = u
	return u
}

// DisableUser deactivates an account; its tokens stop working.
func (s *Server) DisableUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.Disabled = true
	}
}

// ResetToken returns the token issued by the last reset-link request for
// email.
func (s *Server) ResetToken(email string) (uid, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tok, id := range s.resetTokens {
		if u := s.users[id]; u != nil && u.Email == strings.ToLower(email) {
			return fmt.Sprint(id), tok
		}
	}
	return "", ""
}

// SetReviews seeds the reviews returned for lang.
func (s *Server) SetReviews(lang string, reviews []models.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[lang] = reviews
}

func (s *Server) userByEmailLocked(email string) *User {
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *Server) issue(u *User) (models.AuthTokens, error) {
	now := s.now()
	access, err := GenerateToken(u, tokenTypeAccess, s.secret, s.accessTTL, now)
	if err != nil {
		return models.AuthTokens{}, err
	}
	refresh, err := GenerateToken(u, tokenTypeRefresh, s.secret, s.refreshTTL, now)
	if err != nil {
		return models.AuthTokens{}, err
	}
	return models.AuthTokens{Access: access, Refresh: refresh}, nil
}

func (s *Server) writeTokens(w http.ResponseWriter, status int, u *User) {
	tokens, err := s.issue(u)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	writeJSON(w, status, tokens)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}

	missing := map[string][]string{}
	for _, f := range []string{"email", "first_name", "last_name", "password"} {
		if in[f] == "" {
			missing[f] = []string{"This field is required."}
		}
	}
	if len(missing) > 0 {
		writeFieldErrors(w, missing)
		return
	}
	if !strings.Contains(in["email"], "@") {
		writeFieldErrors(w, map[string][]string{"email": {"Enter a valid email address."}})
		return
	}

	s.mu.Lock()
	if s.userByEmailLocked(in["email"]) != nil {
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]string{
			"code":    "email_exists",
			"message": "A user with this email already exists.",
		})
		return
	}
	u := s.addUserLocked(in["email"], in["password"], in["first_name"], in["last_name"], false, s.registerIssuesTokens)
	s.mu.Unlock()

	if s.registerIssuesTokens {
		s.writeTokens(w, http.StatusCreated, u)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"email": u.Email})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userByEmailLocked(in["email"])
	if u == nil {
		writeDetail(w, http.StatusNotFound, "not_found", "User not found.")
		return
	}
	if u.Verified {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Email already verified."})
		return
	}
	if u.attempts <= 0 {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"code": "too_many_attempts", "message": "Too many attempts. Request a new code.", "attempts": 0,
		})
		return
	}
	if in["code"] != u.code {
		u.attempts--
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"code": "invalid_code", "message": "Invalid verification code.", "attempts": u.attempts,
		})
		return
	}
	u.Verified = true
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified."})
}

func (s *Server) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByEmailLocked(in["email"])
	if u == nil {
		writeDetail(w, http.StatusNotFound, "not_found", "User not found.")
		return
	}
	u.attempts = defaultVerificationAttempts
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, false)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, true)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, staff bool) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}

	s.mu.Lock()
	u := s.userByEmailLocked(in["email"])
	s.mu.Unlock()

	switch {
	case u == nil || u.Password != in["password"]:
		writeDetail(w, http.StatusUnauthorized, "authentication_failed", "No active account found with the given credentials")
	case u.Disabled || !u.Verified:
		writeDetail(w, http.StatusForbidden, "account_disabled", "User account is disabled.")
	case staff && !u.Staff:
		writeDetail(w, http.StatusForbidden, "permission_denied", "Admin access required.")
	default:
		s.writeTokens(w, http.StatusOK, u)
	}
}

// handleGoogleLogin accepts "google:<email>" access tokens and creates the
// account on first use.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	email, ok := strings.CutPrefix(in["access_token"], "google:")
	if !ok || email == "" {
		writeDetail(w, http.StatusBadRequest, "invalid_google_token", "Invalid Google token.")
		return
	}

	s.mu.Lock()
	u := s.userByEmailLocked(email)
	if u == nil {
		u = s.addUserLocked(email, uuid.NewString(), "", "", false, true)
	}
	s.mu.Unlock()

	s.writeTokens(w, http.StatusOK, u)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	if in["refresh"] == "" {
		writeFieldErrors(w, map[string][]string{"refresh": {"This field is required."}})
		return
	}

	if s.refreshDelay > 0 {
		select {
		case <-time.After(s.refreshDelay):
		case <-r.Context().Done():
			return
		}
	}

	id, err := ParseToken(in["refresh"], tokenTypeRefresh, s.secret, s.now())
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "token_not_valid", "Token is invalid or expired")
		return
	}

	s.mu.Lock()
	u, ok := s.users[id]
	s.mu.Unlock()
	if !ok || u.Disabled {
		writeDetail(w, http.StatusUnauthorized, "token_not_valid", "Token is invalid or expired")
		return
	}

	tokens, err := s.issue(u)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	if !s.rotate {
		writeJSON(w, http.StatusOK, map[string]string{"access": tokens.Access})
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handleResetLink(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByEmailLocked(in["email"])
	if u == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"code": "not_found", "message": "Email not found"})
		return
	}
	s.resetTokens[uuid.NewString()] = u.ID
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleResetConfirm(w http.ResponseWriter, r *http.Request) {
	in, _, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	if len(in["password"]) < 8 {
		writeFieldErrors(w, map[string][]string{"password": {"This password is too short. It must contain at least 8 characters."}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.resetTokens[in["token"]]
	if !ok || fmt.Sprint(id) != in["uid"] {
		writeDetail(w, http.StatusBadRequest, "invalid_token", "Invalid or expired reset link.")
		return
	}
	delete(s.resetTokens, in["token"])
	s.users[id].Password = in["password"]
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUserData(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	s.mu.Lock()
	joined := u.DateJoined.Format(time.RFC3339)
	data := models.UserData{
		DateJoined:  &joined,
		PhoneNumber: u.PhoneNumber,
		City:        u.City,
		Street:      u.Street,
		Zip:         u.Zip,
	}
	if u.ProfileImgURL != "" {
		img := u.ProfileImgURL
		data.ImageURL = &img
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	in, files, err := readInput(r)
	if err != nil {
		badBody(w)
		return
	}
	if zip, ok := in["zip"]; ok && len(zip) > 10 {
		writeFieldErrors(w, map[string][]string{"zip": {"Ensure this field has no more than 10 characters."}})
		return
	}

	u := userFrom(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()

	set := func(dst **string, key string) {
		if v, ok := in[key]; ok {
			*dst = &v
		}
	}
	set(&u.PhoneNumber, "phone_number")
	set(&u.City, "city")
	set(&u.Street, "street")
	set(&u.Zip, "zip")
	if v, ok := in["first_name"]; ok {
		u.FirstName = v
	}
	if v, ok := in["last_name"]; ok {
		u.LastName = v
	}
	if len(files) > 0 {
		u.ProfileImgURL = "/media/profile_images/" + files[0]
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "de"
	}
	s.mu.Lock()
	reviews := append([]models.Review{}, s.reviews[lang]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, reviews)
}
