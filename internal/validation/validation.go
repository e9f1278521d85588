// Package validation holds the field-level checks and sanitization applied
// to free-text input before it reaches the store. Checks are accumulated per
// field so a client gets every violation in one response.
package validation

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/practicehub/catalog-api/internal/constants"
)

// FieldErrors maps a field name to its violation message.
type FieldErrors map[string]string

// Error implements the error interface
func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// Add records a violation for a field, keeping the first message per field.
func (e FieldErrors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

// OrNil returns the map as an error, or nil when no violation was recorded.
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// CheckTaskName validates the trimmed task name length bounds. The upper
// bound is measured on the escaped form, since that is what gets stored and
// escaping can grow the string past the column width.
func CheckTaskName(errs FieldErrors, name string) {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < constants.MinTaskNameLength {
		errs.Add("name", fmt.Sprintf("Task name must be at least %d characters.", constants.MinTaskNameLength))
		return
	}
	if len([]rune(html.EscapeString(trimmed))) > constants.MaxTaskNameLength {
		errs.Add("name", fmt.Sprintf("Task name must be at most %d characters.", constants.MaxTaskNameLength))
	}
}

// CheckDescription validates the trimmed description length bound.
func CheckDescription(errs FieldErrors, description string) {
	if len([]rune(strings.TrimSpace(description))) > constants.MaxDescriptionLength {
		errs.Add("description", fmt.Sprintf("Description must be at most %d characters.", constants.MaxDescriptionLength))
	}
}

// CheckResourceURL validates an optional resource link: empty is fine,
// anything else must be an absolute http or https URL.
func CheckResourceURL(errs FieldErrors, resource string) {
	if resource == "" {
		return
	}
	u, err := url.Parse(resource)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs.Add("resource", "Invalid URL. Only http and https are allowed.")
	}
}

// CheckCode validates a solution's code: non-empty after trim, bounded length.
func CheckCode(errs FieldErrors, code string) {
	if strings.TrimSpace(code) == "" {
		errs.Add("code", "Code cannot be empty.")
		return
	}
	if len([]rune(code)) > constants.MaxCodeLength {
		errs.Add("code", fmt.Sprintf("Code is too long (maximum %d characters).", constants.MaxCodeLength))
	}
}

// CheckExplanation validates an optional explanation's length.
func CheckExplanation(errs FieldErrors, explanation string) {
	if explanation == "" {
		return
	}
	if len([]rune(strings.TrimSpace(explanation))) > constants.MaxExplanationLength {
		errs.Add("explanation", fmt.Sprintf("Explanation is too long (maximum %d characters).", constants.MaxExplanationLength))
	}
}

// Sanitize trims the value and escapes HTML metacharacters. Applied on write
// so stored content is safe to render verbatim.
func Sanitize(value string) string {
	return html.EscapeString(strings.TrimSpace(value))
}
