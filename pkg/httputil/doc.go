// Package httputil holds the JSON plumbing shared by the hexboard HTTP API.
//
// Handlers decode request bodies with [DecodeJSON], reply with [WriteJSON],
// and report failures with [WriteError], which maps the error's
// [errors.Code] to an HTTP status and writes a body of the form
//
//	{"code": "INVALID_STYLE", "message": "unknown color \"mauve\""}
//
// Errors without a code are reported as INTERNAL_ERROR and their text is
// not exposed.
package httputil
