package errors

import (
	"strings"
	"unicode"
)

// MaxIDLength bounds identifier length for request validation. Generator
// output goes through the sanitizer instead; these checks guard caller input
// entering through the API and CLI.
const MaxIDLength = 256

// ValidateNodeID validates a caller-supplied node identifier.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 characters
//
// IDs inside generator payloads are not validated here - the sanitizer
// repairs those rather than rejecting them.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidNodeID, "node id too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node id contains control characters")
		}
	}
	return nil
}

// ValidateDomainName validates a domain catalog name for use in cache keys
// and file lookups. It ensures the name is a simple token without path
// components.
func ValidateDomainName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDomain, "domain name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidDomain, "domain name cannot contain path separators")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidDomain, "domain name cannot contain traversal sequences")
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidDomain, "domain name contains invalid characters")
		}
	}
	return nil
}
