package httpkit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"garage_crm_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	return c, rec
}

func TestHandleErrorNil(t *testing.T) {
	c, _ := testContext(t)
	if HandleError(c, nil) {
		t.Fatal("nil error must not be handled")
	}
}

func TestHandleErrorDomainError(t *testing.T) {
	c, rec := testContext(t)
	if !HandleError(c, apperr.NotFound("quote not found")) {
		t.Fatal("expected error to be handled")
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleErrorWrappedDomainError(t *testing.T) {
	c, rec := testContext(t)
	err := fmt.Errorf("create invoice from quote: %w", apperr.Internal("insert failed"))
	if !HandleError(c, err) {
		t.Fatal("expected error to be handled")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestHandleErrorPlainError(t *testing.T) {
	c, rec := testContext(t)
	if !HandleError(c, fmt.Errorf("boom")) {
		t.Fatal("expected error to be handled")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
