package cli

import (
	"errors"
	"net/http"
	"sort"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/apierror"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/session"
)

var friendly = map[string]string{
	apierror.CodeAuthenticationFailed: "Wrong e-mail or password.",
	apierror.CodeAccountDisabled:      "This account is disabled or its e-mail is not verified yet.",
	apierror.CodeEmailExists:          "An account with this e-mail already exists.",
	apierror.CodeNetworkError:         "Cannot reach the server. Check your connection and try again.",
	apierror.CodeCanceled:             "Request canceled.",
	"permission_denied":               "This command needs a staff account.",
}

// describe turns an error into the line shown to the user: known codes get
// a fixed text, everything else the server's message.
func describe(err error) string {
	if errors.Is(err, session.ErrRefreshTokenNotFound) {
		return "Your session has expired. Please log in again."
	}

	res, ok := apierror.As(err)
	if !ok {
		return "Error: " + err.Error()
	}
	if msg, ok := friendly[res.Code]; ok {
		return msg
	}
	if res.Status == http.StatusUnauthorized {
		return "Your session has expired. Please log in again."
	}

	fields := make([]string, 0, len(res.Errors))
	for field := range res.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := "Error: " + res.Message
	for _, field := range fields {
		if msg, ok := res.Errors.First(field); ok && msg != res.Message {
			out += "\n  " + field + ": " + msg
		}
	}
	return out
}
