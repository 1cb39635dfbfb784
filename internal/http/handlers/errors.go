package handlers

// Stable machine-readable error codes carried in the error envelope.
// Clients branch on these, never on message text, so they are part of the
// API contract and must not be renamed.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeAuthRequired      = "AUTHENTICATION_REQUIRED"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeForbidden         = "INSUFFICIENT_PERMISSIONS"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicate         = "DUPLICATE_RECORD"
	CodeRateLimited       = "RATE_LIMITED"
	CodeTimeout           = "REQUEST_TIMEOUT"
	CodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMedia  = "UNSUPPORTED_MEDIA_TYPE"
	CodeUnsupportedAPIVer = "UNSUPPORTED_API_VERSION"
	CodeUserAgentRequired = "USER_AGENT_REQUIRED"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeInternal          = "INTERNAL_ERROR"
)
