package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestGetKindWrappedError(t *testing.T) {
	err := fmt.Errorf("create invoice from quote: %w", Internal("insert failed"))
	if got := GetKind(err); got != KindInternal {
		t.Fatalf("GetKind(wrapped) = %v, want KindInternal", got)
	}

	double := fmt.Errorf("convert: %w", err)
	if got := GetKind(double); got != KindInternal {
		t.Fatalf("GetKind(double wrapped) = %v, want KindInternal", got)
	}
}

func TestGetKindPlainError(t *testing.T) {
	if got := GetKind(errors.New("boom")); got != KindUnknown {
		t.Fatalf("GetKind(plain) = %v, want KindUnknown", got)
	}
	if got := GetKind(nil); got != KindUnknown {
		t.Fatalf("GetKind(nil) = %v, want KindUnknown", got)
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("convert quote: %w", InvalidTransition("quote cannot be converted"))
	if !Is(err, KindInvalidTransition) {
		t.Fatal("expected wrapped invalid transition to match")
	}
	if Is(err, KindNotFound) {
		t.Fatal("wrapped invalid transition must not match KindNotFound")
	}
}

func TestHTTPStatusPerKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Validation("x"), http.StatusBadRequest},
		{Conflict("x"), http.StatusConflict},
		{InvalidTransition("x"), http.StatusConflict},
		{Forbidden("x"), http.StatusForbidden},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Internal("x"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := c.err.HTTPStatus(); got != c.want {
			t.Fatalf("HTTPStatus for kind %v = %d, want %d", c.err.Kind, got, c.want)
		}
	}
}
