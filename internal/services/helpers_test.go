package services

import (
	"testing"
	"time"

	"lifeboard/internal/calendar"
	"lifeboard/internal/logger"
)

func init() {
	logger.Init("test")
}

// day parses a YYYY-MM-DD test date.
func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseISODate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
