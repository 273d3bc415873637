// Package resolver turns user-typed widget id prefixes into full widget ids.
package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// MinShortIDLength is the minimum length of a prefix that is not an exact id.
const MinShortIDLength = 4

// maxListed caps the matches shown in ambiguity messages.
const maxListed = 10

// ResolveWidgetID resolves id against the dashboard's widget ids.
// An exact match always wins. Otherwise id is treated as a prefix of at
// least MinShortIDLength characters that must match exactly one widget.
func ResolveWidgetID(ids []string, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("widget ID cannot be empty")
	}

	for _, candidate := range ids {
		if candidate == id {
			return id, nil
		}
	}

	if len(id) < MinShortIDLength {
		return "", fmt.Errorf("short ID must be at least %d characters (got %d)", MinShortIDLength, len(id))
	}

	var matches []string
	for _, candidate := range ids {
		if strings.HasPrefix(candidate, id) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{ShortID: id}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{ShortID: id, Matches: matches}
	}
}

// ShortID returns the display form of a widget id: UUIDs are cut to their
// first block, other ids are returned unchanged.
func ShortID(id string) string {
	if len(id) == 36 && strings.Count(id, "-") == 4 {
		return id[:8]
	}
	return id
}

// NotFoundError indicates no widgets matched the short ID.
type NotFoundError struct {
	ShortID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no widgets found matching '%s'", e.ShortID)
}

// AmbiguousError indicates multiple widgets matched the short ID.
type AmbiguousError struct {
	ShortID string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short ID '%s' matches %d widgets", e.ShortID, len(e.Matches))
}

// FormatAmbiguousError creates a user-friendly error message for ambiguous short IDs.
// Lists all matching ids (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Short ID '%s' matches %d widgets:\n", err.ShortID, len(err.Matches))

	for _, m := range err.Matches[:min(len(err.Matches), maxListed)] {
		fmt.Fprintf(&b, "  %s\n", m)
	}
	if len(err.Matches) > maxListed {
		fmt.Fprintf(&b, "  ...and %d more\n", len(err.Matches)-maxListed)
	}

	b.WriteString("\nUse a longer prefix to uniquely identify the widget.")
	return b.String()
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	var target *AmbiguousError
	return errors.As(err, &target)
}
