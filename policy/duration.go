// Package policy turns human duration tokens and the punishment policy table
// into concrete sanction lengths and escalation suggestions.
package policy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	Minute = 60
	Hour   = 60 * Minute
	Day    = 24 * Hour
	Week   = 7 * Day
	Month  = 30 * Day // months are approximated as 30 days throughout
)

// Indefinite is the duration token for a sanction that never auto-expires.
const Indefinite = "indefinite"

var durationPattern = regexp.MustCompile(`^(\d+)(mo|[wdhm])$`)

// ParseDuration parses a token like "30m", "12h", "1d", "2w" or "6mo" into
// seconds. The literal "indefinite" returns indefinite=true with zero seconds.
// Anything else is an error.
func ParseDuration(s string) (seconds int64, indefinite bool, err error) {
	token := strings.ToLower(strings.TrimSpace(s))
	if token == Indefinite {
		return 0, true, nil
	}
	m := durationPattern.FindStringSubmatch(token)
	if m == nil {
		return 0, false, fmt.Errorf("invalid duration %q: use forms like 30m, 12h, 1d, 2w, 6mo or indefinite", s)
	}
	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	switch m[2] {
	case "m":
		return amount * Minute, false, nil
	case "h":
		return amount * Hour, false, nil
	case "d":
		return amount * Day, false, nil
	case "w":
		return amount * Week, false, nil
	case "mo":
		return amount * Month, false, nil
	}
	return 0, false, fmt.Errorf("invalid duration %q", s)
}

// FormatDuration renders seconds using the largest unit that fits. The result
// is display-only: it truncates to whole units, so it is not a round trip for
// arbitrary inputs (90000s renders as "1d", not "1d1h").
func FormatDuration(seconds int64) string {
	switch {
	case seconds < Minute:
		return fmt.Sprintf("%ds", seconds)
	case seconds < Hour:
		return fmt.Sprintf("%dm", seconds/Minute)
	case seconds < Day:
		return fmt.Sprintf("%dh", seconds/Hour)
	case seconds < Week:
		return fmt.Sprintf("%dd", seconds/Day)
	case seconds < Month:
		return fmt.Sprintf("%dw", seconds/Week)
	default:
		return fmt.Sprintf("%dmo", seconds/Month)
	}
}

// ShiftRelease moves a release timestamp by delta seconds. The result never
// lands in the past: a reduction that overshoots clamps to now, ending the
// punishment immediately instead of backdating the record.
func ShiftRelease(release, delta, now int64) int64 {
	shifted := release + delta
	if shifted < now {
		shifted = now
	}
	return shifted
}

// ValidDuration reports whether s is a parseable duration token.
func ValidDuration(s string) bool {
	_, _, err := ParseDuration(s)
	return err == nil
}
