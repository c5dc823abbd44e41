package errors

const (
	MsgMissingTenant    = "Missing Host header"
	MsgInvalidTenant    = "Invalid Host header"
	MsgInvalidPath      = "Invalid path"
	MsgMethodNotAllowed = "Method not allowed"
	MsgMalformedBatch   = "Invalid batch body: expected a JSON array of non-empty path strings"
	MsgBodyTooLarge     = "Request body exceeds maximum allowed size"
	MsgReadBodyFailed   = "Failed to read request body"
	MsgReadFailed       = "Failed to read counter"
	MsgIncrementFailed  = "Failed to increment counter"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
