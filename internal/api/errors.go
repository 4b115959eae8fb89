package api

import (
	"fmt"
	"time"
)

// ErrorKind classifies an API failure so callers can branch without
// string matching.
type ErrorKind int

const (
	// KindTransport covers timeouts, connection failures, and
	// unexpected HTTP statuses. Retryable with backoff.
	KindTransport ErrorKind = iota
	// KindAuthentication means the token is bad or expired. Terminal.
	KindAuthentication
	// KindAuthorization means the subscription lacks the endpoint. Terminal.
	KindAuthorization
	// KindRateLimited means the quota is exhausted. Retryable after waiting.
	KindRateLimited
	// KindApplication is an error object embedded in a 2xx payload.
	KindApplication
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindRateLimited:
		return "rate_limited"
	case KindApplication:
		return "application"
	}
	return "unknown"
}

// Error is the typed failure surfaced by the client for expected API
// failure modes.
type Error struct {
	Kind       ErrorKind
	Code       int // HTTP status or embedded application error code
	Message    string
	RetryAfter time.Duration // mandatory wait for KindRateLimited
	Err        error         // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Terminal reports whether retrying cannot help.
func (e *Error) Terminal() bool {
	switch e.Kind {
	case KindAuthentication, KindAuthorization:
		return true
	case KindRateLimited, KindTransport:
		return false
	case KindApplication:
		// Rate-limit-coded application errors are the only retryable kind.
		return e.Code != 429
	}
	return true
}

// classifyAppError maps an embedded application error code onto an
// error kind, mirroring the provider's documented auth error codes.
func classifyAppError(code int, message string) *Error {
	switch code {
	case 401:
		return &Error{Kind: KindAuthentication, Code: code, Message: "API token is invalid or expired"}
	case 403:
		return &Error{Kind: KindAuthorization, Code: code, Message: "subscription does not cover this endpoint"}
	case 429:
		return &Error{Kind: KindApplication, Code: code, Message: "rate limit exceeded"}
	}
	if message == "" {
		message = "unknown application error"
	}
	return &Error{Kind: KindApplication, Code: code, Message: message}
}
