package handlers_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openshelf/warden/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	t.Run("writes status and body", func(t *testing.T) {
		rec := httptest.NewRecorder()

		handlers.RespondJSON(rec, http.StatusCreated, map[string]string{"key": "value"})

		if rec.Code != http.StatusCreated {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["key"] != "value" {
			t.Errorf("body = %v", body)
		}
	})

	t.Run("nil data writes no body", func(t *testing.T) {
		rec := httptest.NewRecorder()

		handlers.RespondJSON(rec, http.StatusNoContent, nil)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("body = %q, want empty", rec.Body.String())
		}
	})
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name   string
		status int
		err    error
	}{
		{"client error", http.StatusBadRequest, errors.New("invalid request")},
		{"server error", http.StatusInternalServerError, errors.New("query failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			handlers.RespondError(rec, logger, tt.status, tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tt.err.Error() {
				t.Errorf("error = %q, want %q", body["error"], tt.err.Error())
			}
		})
	}
}
