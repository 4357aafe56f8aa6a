package domain

import (
	"strconv"
	"strings"
	"time"
)

// ActiveHours is a UTC hour window. The zero value is always active.
type ActiveHours struct {
	Start, End int
	set        bool
}

// ParseActiveHours parses "start-end" with hours in 0..23. Anything else
// yields an always-active window.
func ParseActiveHours(s string) ActiveHours {
	a, b, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return ActiveHours{}
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(a))
	end, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil || !validHour(start) || !validHour(end) {
		return ActiveHours{}
	}
	return ActiveHours{Start: start, End: end, set: true}
}

func validHour(h int) bool { return h >= 0 && h <= 23 }

// IsSet reports whether a window was parsed.
func (h ActiveHours) IsSet() bool { return h.set }

// Contains reports whether hour lies in the window. A window whose start is
// after its end wraps midnight.
func (h ActiveHours) Contains(hour int) bool {
	if !h.set {
		return true
	}
	if h.Start <= h.End {
		return hour >= h.Start && hour < h.End
	}
	return hour >= h.Start || hour < h.End
}

func (h ActiveHours) String() string {
	if !h.set {
		return "always"
	}
	return strconv.Itoa(h.Start) + "-" + strconv.Itoa(h.End)
}

// WithinActiveHours evaluates a raw window string at a UTC hour.
func WithinActiveHours(window string, hour int) bool {
	return ParseActiveHours(window).Contains(hour)
}

// Policy holds the admission limits the gate enforces.
type Policy struct {
	ActiveHours   ActiveHours
	DailyTradeCap int
	StopLossCount int
	Cooldown      time.Duration
}
