package routes

import "github.com/haguru/signup/internal/models/dto"

const (
	// API route constants
	SignupRouteAPI  = dto.SignupPath
	MetricsRouteAPI = "/metrics"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"

	// MaxRequestBodyBytes bounds the size of a sign-up submission.
	MaxRequestBodyBytes = 1 << 20

	// Error messages
	ErrInvalidContentTypeFormat = "invalid content-type: %s"
	ErrFailedToDecodeRequest    = "failed to decode request body"
	ErrFailedToRegisterUser     = "failed to register user"
	ErrFailedToEncodeResponse   = "failed to encode response"
)
