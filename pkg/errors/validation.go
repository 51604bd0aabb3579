package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputFilename validates an output filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateOutputFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "output filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "output filename cannot contain path separators")
	}

	if filename == "." || filename == ".." {
		return New(ErrCodeInvalidPath, "output filename cannot be a directory reference")
	}

	return nil
}

// ValidateNodeID validates a node identifier read from an edge list.
// Identifiers must be non-empty and free of control characters; anything
// else is left to the clustering binary to accept or reject.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidEdge, "node identifier cannot be empty")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidEdge, "node identifier contains control characters: %q", id)
		}
	}

	return nil
}
