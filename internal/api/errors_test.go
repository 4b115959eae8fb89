package api

import (
	"errors"
	"testing"
)

func TestErrorTerminal(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want bool
	}{
		{"authentication", &Error{Kind: KindAuthentication}, true},
		{"authorization", &Error{Kind: KindAuthorization}, true},
		{"rate limited", &Error{Kind: KindRateLimited}, false},
		{"transport", &Error{Kind: KindTransport}, false},
		{"application", &Error{Kind: KindApplication, Code: 500}, true},
		{"application rate limit", &Error{Kind: KindApplication, Code: 429}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Terminal(); got != tt.want {
				t.Errorf("Terminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyAppError(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		message  string
		wantKind ErrorKind
	}{
		{"auth code", 401, "Unauthorized", KindAuthentication},
		{"subscription code", 403, "Forbidden", KindAuthorization},
		{"rate limit code", 429, "Too many requests", KindApplication},
		{"generic", 500, "boom", KindApplication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyAppError(tt.code, tt.message)
			if err.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", err.Kind, tt.wantKind)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %d, want %d", err.Code, tt.code)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &Error{Kind: KindTransport, Message: "request failed", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if err.Error() == "" {
		t.Error("Error() should describe the failure")
	}
}
