package utils

import (
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Size limits (in bytes)
const (
	MaxJSONSize    = 1 * 1024 * 1024 // 1MB - maximum JSON payload size
	MaxContentSize = 64 * 1024       // 64KB - opaque window content
)

// String length limits
const (
	MaxIDLength       = 128
	MaxTitleLength    = 256
	MaxQueryLength    = 128
	MaxUsernameLength = 255
	MaxPasswordLength = 128
	MaxURLLength      = 2048
)

// SafeIDPattern allows alphanumeric, dots, hyphens and underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// text strips all markup from user supplied labels
var text = bluemonday.StrictPolicy()

// JSONSizeValidator validates JSON size limits
type JSONSizeValidator struct {
	maxSize int
}

// NewJSONSizeValidator creates a new validator with the specified max size
func NewJSONSizeValidator(maxSize int) *JSONSizeValidator {
	return &JSONSizeValidator{maxSize: maxSize}
}

// ValidateSize checks if the data size is within limits
func (v *JSONSizeValidator) ValidateSize(data []byte) error {
	if size := len(data); size > v.maxSize {
		return fmt.Errorf("JSON size %d bytes exceeds maximum %d bytes", size, v.maxSize)
	}
	return nil
}

// ValidateContent checks that an opaque window payload encodes to JSON
// within MaxContentSize.
func ValidateContent(content any) error {
	if content == nil {
		return nil
	}
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("content is not serialisable: %w", err)
	}
	return NewJSONSizeValidator(MaxContentSize).ValidateSize(data)
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if value == "" {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Null bytes never belong in a label or id
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateID validates an ID field
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}
	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, dots, hyphens, and underscores allowed)", fieldName)
	}
	return nil
}

// ValidateURL checks that value is an absolute http or https URL.
func ValidateURL(value, fieldName string, required bool) error {
	if err := ValidateString(value, fieldName, 0, MaxURLLength, required); err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL", fieldName)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL", fieldName)
	}
	return nil
}

// ValidateQuery validates a start menu search query
func ValidateQuery(query string) error {
	return ValidateString(query, "query", 0, MaxQueryLength, false)
}

// SanitizeText removes markup from a user supplied label and trims it.
// The result is plain text: entities produced by the sanitiser are decoded
// again, so "Q&A" stays "Q&A".
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(text.Sanitize(s)))
}

// SanitizeTitle sanitises a window title and enforces its length limit. A
// title made of nothing but markup is rejected.
func SanitizeTitle(title string) (string, error) {
	clean := SanitizeText(title)
	if clean == "" && strings.TrimSpace(title) != "" {
		return "", fmt.Errorf("title contains only markup")
	}
	if err := ValidateString(clean, "title", 0, MaxTitleLength, false); err != nil {
		return "", err
	}
	return clean, nil
}
