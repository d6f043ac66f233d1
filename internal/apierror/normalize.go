package apierror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"
	"syscall"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/logging"
)

var (
	logMu  sync.RWMutex
	logger logging.Logger = logging.Nop()
)

// SetLogger sets the logger used to report values Normalize cannot classify.
func SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.Nop()
	}
	logMu.Lock()
	logger = l
	logMu.Unlock()
}

func currentLogger() logging.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

type statusCoder interface {
	StatusCode() int
}

// Normalize converts any caught value into a *Response. It never panics.
func Normalize(v any) (res *Response) {
	defer func() {
		if r := recover(); r != nil {
			res = &Response{Code: CodeUnknownError, Message: msgUnexpected}
		}
	}()

	if r, ok := alreadyNormalized(v); ok {
		return r
	}

	if err, ok := v.(error); ok && err != nil {
		if errors.Is(err, context.Canceled) {
			return canceled()
		}

		var re *ResponseError
		if errors.As(err, &re) && re != nil {
			return fromResponse(re)
		}

		if isTransportError(err) {
			return networkError()
		}

		var sc statusCoder
		if errors.As(err, &sc) {
			return fromStatusCoder(err, sc)
		}

		if isNetworkFailure(err) {
			return networkError()
		}
	}

	if o, ok := asObject(v); ok {
		if o.has("status") {
			return fromStatusObject(o)
		}
		if _, known := networkCodes[toString(o.get("code"))]; known {
			return networkError()
		}
		if toString(o.get("message")) == msgNetworkMarker {
			return networkError()
		}
	}

	return fallback(v)
}

func alreadyNormalized(v any) (*Response, bool) {
	switch t := v.(type) {
	case *Response:
		if t != nil {
			return t, true
		}
		return nil, false
	case Response:
		return &t, true
	case error:
		if r, ok := As(t); ok {
			return r, true
		}
		return nil, false
	}

	o, ok := asObject(v)
	if !ok || !o.has("code") || !(o.has("status") || o.has("message")) {
		return nil, false
	}

	r := &Response{
		Status:  toInt(o.get("status")),
		Code:    toString(o.get("code")),
		Message: toString(o.get("message")),
		Errors:  o.fieldErrors("errors"),
	}
	if r.Code == "" {
		r.Code = CodeAPIError
	}
	return r, true
}

func canceled() *Response {
	return &Response{Code: CodeCanceled, Message: msgCanceled}
}

func networkError() *Response {
	return &Response{Code: CodeNetworkError, Message: msgNetworkError}
}

// extracted holds what extractErrorData finds in a body: a message and a
// code, either of which may be any JSON value.
type extracted struct {
	message any
	code    any
}

// extractErrorData reads detail/message/code from data and falls back to
// the nested "errors" object, then to the first entry of that object.
func extractErrorData(data *object) extracted {
	ex := extracted{
		message: or(data.get("detail"), data.get("message")),
		code:    data.get("code"),
	}

	if !truthy(data.get("errors")) {
		return ex
	}
	nested, ok := data.child("errors")
	if !ok {
		return ex
	}

	if !truthy(ex.message) {
		ex.message = or(nested.get("detail"), nested.get("message"))
	}
	if !truthy(ex.code) {
		ex.code = nested.get("code")
	}
	if !truthy(ex.message) && len(nested.keys) > 0 {
		if msg, ok := firstMessage(nested.get(nested.keys[0])); ok {
			ex.message = msg
		}
	}
	return ex
}

func fromResponse(re *ResponseError) *Response {
	data, _ := objectFromJSON(re.Body)
	ex := extractErrorData(data)

	if !truthy(ex.message) && !truthy(ex.code) {
		return &Response{
			Status:  re.Status,
			Code:    CodeServerError,
			Message: fmt.Sprintf("Server error (%d). Please try again later.", re.Status),
		}
	}

	res := &Response{
		Status: re.Status,
		Code:   CodeAPIError,
		Errors: data.fieldErrors("errors"),
	}
	if truthy(ex.code) {
		res.Code = toString(ex.code)
	}
	if msg, ok := ex.message.(string); ok && msg != "" {
		res.Message = msg
	} else {
		res.Message = fmt.Sprintf("Error %d: Ambiguous server response.", re.Status)
	}
	if res.Code == "" {
		res.Code = CodeAPIError
	}
	return res
}

func fromStatusObject(o *object) *Response {
	ex := extractErrorData(o)
	status := toInt(o.get("status"))

	res := &Response{
		Status: status,
		Code:   CodeAPIError,
		Errors: o.fieldErrors("errors"),
	}
	if c := toString(ex.code); c != "" {
		res.Code = c
	}

	switch {
	case nonEmptyString(ex.message):
		res.Message = ex.message.(string)
	case nonEmptyString(o.get("error")):
		res.Message = o.get("error").(string)
	default:
		res.Message = fmt.Sprintf("Error %d (Conflict/Error)", status)
	}
	return res
}

func fromStatusCoder(err error, sc statusCoder) *Response {
	status := sc.StatusCode()
	msg := err.Error()
	if msg == "" {
		msg = fmt.Sprintf("Error %d (Conflict/Error)", status)
	}
	return &Response{Status: status, Code: CodeAPIError, Message: msg}
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

func isTransportError(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

func isNetworkFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return err.Error() == msgNetworkMarker
}

func fallback(v any) *Response {
	currentLogger().Warn(context.Background(), "unknown error caught",
		"type", fmt.Sprintf("%T", v), "value", fmt.Sprintf("%v", v))

	msg := msgUnexpected
	if err, ok := v.(error); ok && err != nil {
		if s := err.Error(); s != "" {
			msg = s
		}
	}
	return &Response{Code: CodeUnknownError, Message: msg}
}
