package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// FieldErrors is the backend's field-validation object, e.g.
// {"password": ["too short", "needs digit"]}.
type FieldErrors map[string]any

// First returns the first message recorded for field. Lists yield their
// first string element; plain strings are returned verbatim.
func (f FieldErrors) First(field string) (string, bool) {
	return firstMessage(f[field])
}

// Response is the normalized error. Status 0 means the failure carried no
// HTTP status.
type Response struct {
	Status  int
	Code    string
	Message string
	Errors  FieldErrors
}

func (r *Response) Error() string {
	if r.Status == 0 {
		return fmt.Sprintf("%s: %s", r.Code, r.Message)
	}
	return fmt.Sprintf("%d %s: %s", r.Status, r.Code, r.Message)
}

type responseJSON struct {
	Status  *int        `json:"status"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// MarshalJSON renders a zero Status as null.
func (r Response) MarshalJSON() ([]byte, error) {
	out := responseJSON{Code: r.Code, Message: r.Message, Errors: r.Errors}
	if r.Status != 0 {
		s := r.Status
		out.Status = &s
	}
	return json.Marshal(out)
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var in responseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Response{Code: in.Code, Message: in.Message, Errors: in.Errors}
	if in.Status != nil {
		r.Status = *in.Status
	}
	return nil
}

// ResponseError is returned by the HTTP client for every non-2xx response.
// Body holds the raw response body.
type ResponseError struct {
	Status int
	Body   []byte
	Header http.Header
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unexpected response status %d", e.Status)
}

// NetworkError is a transport failure where no response was received.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: network error", e.Op, e.URL)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// As extracts a *Response from err's chain.
func As(err error) (*Response, bool) {
	var r *Response
	if errors.As(err, &r) && r != nil {
		return r, true
	}
	return nil, false
}

// HasCode reports whether err normalizes to the given code.
func HasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	return Normalize(err).Code == code
}

// IsUnauthorized reports whether err carries HTTP status 401.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Status == http.StatusUnauthorized
	}
	return Normalize(err).Status == http.StatusUnauthorized
}
