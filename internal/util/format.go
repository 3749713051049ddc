package util

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosimple/slug"
)

// NormalizeCategory turns a free-form category such as "Service Reminder" into "service-reminder".
// An empty category falls back to fallback.
func NormalizeCategory(category, fallback string) string {
	normalized := slug.Make(category)
	if normalized == "" {
		return fallback
	}
	return normalized
}

// FormatRelative renders t relative to now, e.g. "10 minutes from now".
func FormatRelative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// TruncateContent shortens s to maxLength bytes, appending "...".
func TruncateContent(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}

func StringPointer(s string) *string {
	return &s
}

func Int64Pointer(i int64) *int64 {
	return &i
}

func TimePointer(t time.Time) *time.Time {
	return &t
}
