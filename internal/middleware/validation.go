package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// OwnerHeader carries the caller's owner identity. Identity management
// itself lives outside this service; the header is trusted as-is.
const OwnerHeader = "X-Owner-ID"

// Field length limits matching database expectations.
const (
	MaxOwnerIDLen = 64
	MaxRowIDLen   = 36 // UUID string
	MaxBulkIDs    = 100
)

var (
	// ownerIDRe matches externally issued account ids.
	ownerIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// rowIDRe matches internal row ids (UUIDs).
	rowIDRe = regexp.MustCompile(`^[0-9a-f-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// Owner extracts and validates the owner id from the request headers.
// Returns the id and an empty string, or "" and a problem description.
func Owner(c fiber.Ctx) (string, string) {
	return ValidateOwnerID(c.Get(OwnerHeader))
}

// ValidateOwnerID checks that an owner id is well-formed.
func ValidateOwnerID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "X-Owner-ID header is required"
	}
	if len(id) > MaxOwnerIDLen {
		return "", "owner id must be at most 64 characters"
	}
	if !ownerIDRe.MatchString(id) {
		return "", "owner id contains invalid characters"
	}
	return id, ""
}

// ValidateRowID checks that an internal row id looks like a UUID.
func ValidateRowID(id string) (string, string) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return "", "id is required"
	}
	if len(id) > MaxRowIDLen {
		return "", "id must be at most 36 characters"
	}
	if !rowIDRe.MatchString(id) {
		return "", "id contains invalid characters"
	}
	return id, ""
}

// ValidateBulkIDs checks a bulk-delete id list: non-empty, bounded, and
// every element a well-formed row id.
func ValidateBulkIDs(ids []string) ([]string, string) {
	if len(ids) == 0 {
		return nil, "ids must not be empty"
	}
	if len(ids) > MaxBulkIDs {
		return nil, "at most 100 ids per request"
	}
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, problem := ValidateRowID(raw)
		if problem != "" {
			return nil, problem
		}
		out = append(out, id)
	}
	return out, ""
}
