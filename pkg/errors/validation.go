package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds workspace, block and shape identifiers.
const maxIDLength = 256

// ValidateID validates an identifier used as a workspace, block or shape id.
// It rejects ids that could be used for path traversal or injection when
// they end up in cache paths, URLs or store queries.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid control characters", kind)
		}
	}

	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "%s id contains invalid characters: %q", kind, id)
	}

	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateMongoURI validates a MongoDB connection string scheme.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "mongo URI cannot be empty")
	}

	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidInput, "mongo URI must use mongodb or mongodb+srv scheme")
	}

	return nil
}

// redisAddrRegex matches host:port addresses.
var redisAddrRegex = regexp.MustCompile(`^[A-Za-z0-9._-]*:[0-9]{1,5}$`)

// ValidateRedisAddr validates a Redis host:port address.
func ValidateRedisAddr(addr string) error {
	if !redisAddrRegex.MatchString(addr) {
		return New(ErrCodeInvalidInput, "invalid redis address: %q (want host:port)", addr)
	}
	return nil
}
