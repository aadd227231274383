package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emzola/athenaeum/config"
	"github.com/emzola/athenaeum/internal/jsonlog"
)

// Accounts are deleted by a librarian through the dashboard only; there is
// no self-service deletion of the caller's own profile.
func TestNoSelfServiceProfileDeletion(t *testing.T) {
	h := New(config.Config{}, jsonlog.New(io.Discard, jsonlog.LevelOff), nil, nil)
	router := h.Routes()

	r := httptest.NewRequest(http.MethodDelete, "/v1/users/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d; got %d", http.StatusMethodNotAllowed, w.Code)
	}
}
