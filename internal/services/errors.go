package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks operations against a client, task, or file that does
	// not exist on disk.
	ErrNotFound = errors.New("not found")
	// ErrMalformedID marks client identifiers that do not decode into name,
	// date, and timestamp segments.
	ErrMalformedID = errors.New("malformed client id")
	// ErrCorruptMetadata marks sidecar files that exist but cannot be parsed.
	ErrCorruptMetadata = errors.New("corrupt metadata")
	// ErrTaskNotFound marks task lookups that miss in a non-empty task list.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidArgument marks rejected command input such as an unknown
	// compression profile.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrExternalTool marks failures reported by ffmpeg or other external
	// collaborators.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for classification at the command boundary. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
