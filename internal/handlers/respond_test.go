package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"wordgallows/internal/apperr"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindInvalidInput, http.StatusBadRequest},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindInvalidOperation, http.StatusConflict},
	}

	for _, tt := range tests {
		if got := statusForKind(tt.kind); got != tt.want {
			t.Errorf("Kind %v: expected %d, got %d", tt.kind, tt.want, got)
		}
	}
}

func TestWriteErrorDomainError(t *testing.T) {
	recorder := httptest.NewRecorder()

	writeError(recorder, apperr.NotFound("game not found"))

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", recorder.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse body: %v", err)
	}
	if body.Error != "not_found" {
		t.Errorf("Expected error not_found, got %q", body.Error)
	}
	if body.Message != "game not found" {
		t.Errorf("Expected original message, got %q", body.Message)
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	recorder := httptest.NewRecorder()

	writeError(recorder, errors.New("sql: connection refused"))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", recorder.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse body: %v", err)
	}
	if body.Message != "internal server error" {
		t.Errorf("Internal detail leaked: %q", body.Message)
	}
}
