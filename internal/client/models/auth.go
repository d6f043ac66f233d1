// Package models defines the client-side data models exchanged with the
// translation agency backend.
package models

// AuthTokens is the JWT pair issued by login, registration, Google login and
// refresh.
type AuthTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Valid reports whether both tokens are present.
func (t *AuthTokens) Valid() bool {
	return t != nil && t.Access != "" && t.Refresh != ""
}

// User is the identity snapshot embedded in the access token. It is decoded
// without signature verification and must only be used for display.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	ProfileImgURL string `json:"profile_img_url"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserData is the profile returned by the user-data endpoint. Every field
// may be null.
type UserData struct {
	DateJoined  *string `json:"date_joined"`
	PhoneNumber *string `json:"phone_number"`
	City        *string `json:"city"`
	Street      *string `json:"street"`
	Zip         *string `json:"zip"`
	ImageURL    *string `json:"image_url"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// ProfileUpdate is sent as multipart form data; nil fields are omitted.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	City        *string
	Street      *string
	Zip         *string
	Image       *Upload
}

// Fields returns the non-nil text fields keyed by their form names.
func (p ProfileUpdate) Fields() map[string]string {
	out := map[string]string{}
	put := func(k string, v *string) {
		if v != nil {
			out[k] = *v
		}
	}
	put("first_name", p.FirstName)
	put("last_name", p.LastName)
	put("phone_number", p.PhoneNumber)
	put("city", p.City)
	put("street", p.Street)
	put("zip", p.Zip)
	return out
}

type PasswordReset struct {
	UID      string `json:"uid"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
