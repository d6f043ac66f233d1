package apierror

// Codes produced by Normalize or sent by the backend. Backend codes outside
// this list are passed through verbatim.
const (
	CodeCanceled             = "canceled"
	CodeNetworkError         = "network_error"
	CodeServerError          = "server_error"
	CodeAPIError             = "api_error"
	CodeValidationError      = "validation_error"
	CodeAuthenticationFailed = "authentication_failed"
	CodeAccountDisabled      = "account_disabled"
	CodeEmailExists          = "email_exists"
	CodeUnauthorized         = "unauthorized"
	CodeUnknownError         = "unknown_error"
)

const (
	msgCanceled      = "Request Canceled"
	msgNetworkError  = "Network error. Could not connect to the server."
	msgUnexpected    = "An unexpected error occurred."
	msgNetworkMarker = "NETWORK_ERROR"
)

// connection failure codes reported by HTTP stacks and proxies.
var networkCodes = map[string]struct{}{
	"ECONNREFUSED":           {},
	"ERR_CONNECTION_REFUSED": {},
	"ERR_NETWORK":            {},
}
