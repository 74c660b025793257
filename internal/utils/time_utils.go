package utils

import (
	"log"
	"sync"
	"time"
)

// DefaultTimezone is used for operator-facing timestamps when TZ is not set.
const DefaultTimezone = "America/Mexico_City"

var (
	locMu    sync.RWMutex
	localLoc = loadLocation(DefaultTimezone)
)

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// In production docker, ensure tzdata is installed
		log.Printf("[WARN] Failed to load timezone %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// SetTimezone changes the location used by FormatLocal and GetLocation
func SetTimezone(name string) {
	if name == "" {
		return
	}
	loc := loadLocation(name)
	locMu.Lock()
	defer locMu.Unlock()
	localLoc = loc
}

// GetLocation returns the configured *time.Location
func GetLocation() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return localLoc
}

// FormatLocal renders t in the configured timezone
func FormatLocal(t time.Time) string {
	return t.In(GetLocation()).Format("2006-01-02 15:04:05 MST")
}
