package model

import "time"

// RateLimitScope distinguishes where a rate-limit counter is keyed.
type RateLimitScope string

const (
	RateLimitUser   RateLimitScope = "user"
	RateLimitIP     RateLimitScope = "ip"
	RateLimitGlobal RateLimitScope = "global"
)

// RateLimitRecord is a fixed-window counter. The window starts on the first
// call and lasts until ResetTime; a call after ResetTime starts a new window
// with Count 1.
type RateLimitRecord struct {
	Count     int
	ResetTime time.Time
}

// Expired reports whether the window has passed as of now.
func (r RateLimitRecord) Expired(now time.Time) bool {
	return now.After(r.ResetTime)
}
