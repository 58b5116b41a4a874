package errors

// ErrorCode identifies an error category for API responses and logs.
type ErrorCode int

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_PERMISSION_DENIED
	ErrorCode_UNAUTHENTICATED
	ErrorCode_INVALID_PAYLOAD

	ErrorCode_AUTH_INVALID_TOKEN
	ErrorCode_AUTH_TOKEN_EXPIRED

	ErrorCode_AI_NO_PROVIDER
	ErrorCode_AI_PROVIDER_CALL_FAILED
	ErrorCode_AI_ALL_PROVIDERS_FAILED
	ErrorCode_AI_MALFORMED_RESPONSE
	ErrorCode_AI_EXTRACTION_FAILED

	ErrorCode_PIPELINE_FAILED
	ErrorCode_PERSISTENCE_FAILED
	ErrorCode_CACHE_FAILED
	ErrorCode_STORAGE_FAILED

	ErrorCode_HTTP_OK
)

var codeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                 "UNKNOWN",
	ErrorCode_INTERNAL:                "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:        "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:               "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:          "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:       "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:         "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:         "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:      "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:      "AUTH_TOKEN_EXPIRED",
	ErrorCode_AI_NO_PROVIDER:          "AI_NO_PROVIDER",
	ErrorCode_AI_PROVIDER_CALL_FAILED: "AI_PROVIDER_CALL_FAILED",
	ErrorCode_AI_ALL_PROVIDERS_FAILED: "AI_ALL_PROVIDERS_FAILED",
	ErrorCode_AI_MALFORMED_RESPONSE:   "AI_MALFORMED_RESPONSE",
	ErrorCode_AI_EXTRACTION_FAILED:    "AI_EXTRACTION_FAILED",
	ErrorCode_PIPELINE_FAILED:         "PIPELINE_FAILED",
	ErrorCode_PERSISTENCE_FAILED:      "PERSISTENCE_FAILED",
	ErrorCode_CACHE_FAILED:            "CACHE_FAILED",
	ErrorCode_STORAGE_FAILED:          "STORAGE_FAILED",
	ErrorCode_HTTP_OK:                 "HTTP_OK",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
