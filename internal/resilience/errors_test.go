package resilience

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("bad request"), false},
		{NewTransientError(errors.New("busy"), 503), true},
		{fmt.Errorf("wrapped: %w", NewTransientError(errors.New("x"), 429)), true},
		{errors.New("read tcp: connection reset by peer"), true},
		{errors.New("dial tcp: i/o timeout"), true},
	}
	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestHTTPError(t *testing.T) {
	err := HTTPError("hunter", 429, []byte(`{"errors":[{"id":"too_many_requests"}]}`))
	if !IsTransient(err) {
		t.Error("429 should be transient")
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != 429 {
		t.Fatalf("expected StatusError in chain, got %v", err)
	}

	err = HTTPError("hunter", 401, []byte(strings.Repeat("x", 1000)))
	if IsTransient(err) {
		t.Error("401 should not be transient")
	}
	if !strings.HasPrefix(err.Error(), "hunter: unexpected status 401") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if len(err.Error()) > 600 {
		t.Errorf("body should be truncated, got %d bytes", len(err.Error()))
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		if !IsTransientHTTPStatus(code) {
			t.Errorf("%d should be transient", code)
		}
	}
	for _, code := range []int{200, 202, 400, 401, 404, 451} {
		if IsTransientHTTPStatus(code) {
			t.Errorf("%d should not be transient", code)
		}
	}
}
