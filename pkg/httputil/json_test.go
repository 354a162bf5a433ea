package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/hexboard/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidStyle, http.StatusBadRequest},
		{errors.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errors.ErrCodeBlockNotFound, http.StatusNotFound},
		{errors.ErrCodeUnsupported, http.StatusNotImplemented},
		{errors.ErrCodeStore, http.StatusServiceUnavailable},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := StatusFor(tt.code); got != tt.want {
				t.Errorf("StatusFor(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   errors.Code
		wantMsg    string
	}{
		{"coded", errors.New(errors.ErrCodeInvalidStyle, "unknown color %q", "mauve"), 400, errors.ErrCodeInvalidStyle, `unknown color "mauve"`},
		{"wrapped", fmt.Errorf("outer: %w", errors.New(errors.ErrCodeBlockNotFound, "gone")), 404, errors.ErrCodeBlockNotFound, "gone"},
		{"plain", fmt.Errorf("secret detail"), 500, errors.ErrCodeInternal, "internal error"},
		{"deadline", context.DeadlineExceeded, 504, errors.ErrCodeTimeout, "request timed out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if got := WriteError(rec, tt.err); got != tt.wantStatus {
				t.Errorf("WriteError() = %d, want %d", got, tt.wantStatus)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body: %v", err)
			}
			if body.Code != tt.wantCode || body.Message != tt.wantMsg {
				t.Errorf("body = %+v, want {%s %s}", body, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"a"}`, false},
		{"empty", ``, true},
		{"malformed", `{"name":`, true},
		{"too big", `{"name":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v struct {
				Name string `json:"name"`
			}
			err := DecodeJSON(httptest.NewRecorder(), req, &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
			if err == nil && v.Name != "a" {
				t.Errorf("Name = %q", v.Name)
			}
		})
	}
}
