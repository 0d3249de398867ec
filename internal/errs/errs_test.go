package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *HTTPError
		wantStatus int
		wantCode   string
	}{
		{"unauthorized", NewUnauthorizedError("no token", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("Access denied", true), http.StatusForbidden, "FORBIDDEN"},
		{"bad request", NewBadRequestError("bad", true, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"bad request custom code", NewBadRequestError("bad", true, Code("CATEGORY_INVALID"), nil, nil), http.StatusBadRequest, "CATEGORY_INVALID"},
		{"not found", NewNotFoundError("Product not found", true, Code("PRODUCT_NOT_FOUND")), http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"too many requests", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestStatusOfUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("updating product: %w", NewForbiddenError("nope", true))

	assert.Equal(t, http.StatusForbidden, StatusOf(wrapped))
	assert.Equal(t, 0, StatusOf(errors.New("plain")))
	assert.True(t, errors.Is(wrapped, &HTTPError{}))
}

func TestWithMessageCopies(t *testing.T) {
	base := NewNotFoundError("Resource not found", false, nil)
	custom := base.WithMessage("User not found")

	assert.Equal(t, "Resource not found", base.Message)
	assert.Equal(t, "User not found", custom.Message)
	assert.Equal(t, base.Status, custom.Status)
}
