package store

import (
	"errors"
	"fmt"
	"net/url"
)

// Field length limits for bookmark attributes.
const (
	MaxURLLen     = 2048
	MaxTitleLen   = 200
	MaxContentLen = 50000
	MaxSummaryLen = 2000
)

var (
	// ErrURLRequired is returned when a bookmark URL is empty.
	ErrURLRequired = errors.New("url is required")

	// ErrURLInvalid is returned when a bookmark URL does not parse as an
	// absolute http(s) URL.
	ErrURLInvalid = errors.New("url must be an absolute http or https URL")

	// ErrFieldTooLong is returned when a field exceeds its length limit.
	ErrFieldTooLong = errors.New("field exceeds maximum length")

	// ErrInvalidStatus is returned when a status value is not one of
	// processing, completed, failed.
	ErrInvalidStatus = errors.New("status must be one of: processing, completed, failed")
)

// ValidateBookmarkURL checks that raw is a non-empty absolute http(s) URL
// within the length limit. It does NOT fetch the URL.
func ValidateBookmarkURL(raw string) error {
	if raw == "" {
		return ErrURLRequired
	}
	if len(raw) > MaxURLLen {
		return fmt.Errorf("%w: url is limited to %d characters", ErrFieldTooLong, MaxURLLen)
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrURLInvalid
	}
	return nil
}

// ValidateTitle checks the title length limit. An empty title is allowed
// here — the service defaults it to the URL.
func ValidateTitle(title string) error {
	if len(title) > MaxTitleLen {
		return fmt.Errorf("%w: title is limited to %d characters", ErrFieldTooLong, MaxTitleLen)
	}
	return nil
}

// ValidateContent checks the content length limit.
func ValidateContent(content string) error {
	if len(content) > MaxContentLen {
		return fmt.Errorf("%w: content is limited to %d characters", ErrFieldTooLong, MaxContentLen)
	}
	return nil
}

// ValidateSummary checks the summary length limit.
func ValidateSummary(summary string) error {
	if len(summary) > MaxSummaryLen {
		return fmt.Errorf("%w: summary is limited to %d characters", ErrFieldTooLong, MaxSummaryLen)
	}
	return nil
}

// ValidateOGImage checks that an og_image value parses as an absolute URL.
// Empty is allowed — the scraper may not have found one.
func ValidateOGImage(raw string) error {
	if raw == "" {
		return nil
	}
	if len(raw) > MaxURLLen {
		return fmt.Errorf("%w: og_image is limited to %d characters", ErrFieldTooLong, MaxURLLen)
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return ErrURLInvalid
	}
	return nil
}

// ValidateStatus checks that v is one of the allowed status values.
func ValidateStatus(v string) error {
	switch v {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return nil
	default:
		return ErrInvalidStatus
	}
}
