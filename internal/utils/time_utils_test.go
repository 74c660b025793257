package utils

import (
	"testing"
	"time"
)

func TestFormatLocal(t *testing.T) {
	defer SetTimezone(DefaultTimezone)

	SetTimezone("UTC")
	ts := time.Date(2025, time.March, 1, 12, 30, 0, 0, time.UTC)
	if got, want := FormatLocal(ts), "2025-03-01 12:30:00 UTC"; got != want {
		t.Errorf("FormatLocal() = %q, want %q", got, want)
	}

	SetTimezone("Not/AZone")
	if GetLocation() != time.UTC {
		t.Errorf("unknown zone should fall back to UTC, got %v", GetLocation())
	}
}
