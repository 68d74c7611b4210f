package service

import (
	"fmt"
	"math"
)

// FormatTimeRemaining renders a number of seconds as "45 seconds",
// "2 minutes" or "1 hour", rounding to the nearest whole unit.
func FormatTimeRemaining(seconds int) string {
	switch {
	case seconds < 60:
		return pluralize(seconds, "second")
	case seconds < 3600:
		return pluralize(int(math.Round(float64(seconds)/60)), "minute")
	default:
		return pluralize(int(math.Round(float64(seconds)/3600)), "hour")
	}
}

func pluralize(n int, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", n, unit)
}

// BlockedMessage renders the rejection shown to a blocked client.
func BlockedMessage(seconds *int) string {
	if seconds == nil {
		return "Too many attempts. Please try again later."
	}
	return "Too many attempts. Please try again in " + FormatTimeRemaining(*seconds) + "."
}
