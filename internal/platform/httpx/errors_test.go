package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"validation", ErrValidation, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("%w: bad role", ErrValidation), http.StatusBadRequest},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
		})
	}
}

func TestRespondErrorHidesDetail(t *testing.T) {
	for _, err := range []error{ErrForbidden, ErrUnauthorized, errors.New("pg: connection refused")} {
		rec := httptest.NewRecorder()
		RespondError(rec, err)
		if strings.Contains(rec.Body.String(), "detail") {
			t.Fatalf("response for %v leaks detail: %s", err, rec.Body.String())
		}
	}
}
