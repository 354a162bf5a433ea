package httputil

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/hexboard/pkg/errors"
)

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 8 << 20

// ErrorBody is the JSON body of an error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle,
		errors.ErrCodeInvalidShape, errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeBlockNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorFor converts err into a response status and body.
func ErrorFor(err error) (int, ErrorBody) {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, ErrorBody{Code: errors.ErrCodeTimeout, Message: "request timed out"}
	}
	code := errors.GetCode(err)
	if code == "" {
		return http.StatusInternalServerError, ErrorBody{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	return StatusFor(code), ErrorBody{Code: code, Message: errors.UserMessage(err)}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes err as a JSON error response and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status, body := ErrorFor(err)
	_ = WriteJSON(w, status, body)
	return status
}

// DecodeJSON decodes the request body into v. Oversized, empty or malformed
// bodies are reported as INVALID_INPUT.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooBig):
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooBig.Limit)
		case stderrors.Is(err, io.EOF):
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		default:
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
		}
	}
	return nil
}
