package organizer

import (
	"regexp"
	"strconv"
	"time"
)

// Display layouts for FormatTimestamp. Anything else falls back to LayoutISO.
const (
	LayoutISO        = "YYYY-MM-DD"
	LayoutDayFirst   = "DD-MM-YY"
	LayoutMonthFirst = "MM-DD-YY"
)

// timestampPattern is the single wire format this system recognizes:
// YYYY-MM-DDTHH:MM:SS[.mmm]Z. No other separators, no offsets other than Z.
var timestampPattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(?:\.(\d{3}))?Z`)

// ExtractTimestamp scans label for the first (leftmost) occurrence of the wire
// format and returns the instant it denotes. Later occurrences are ignored.
// An empty label, or a label without a match, yields ok=false; that is the
// normal "no timestamp present" outcome, not an error.
//
// Out-of-range components are normalized rather than rejected: the matched
// digits are handed to time.Date, so a month of 13 rolls over into January of
// the following year. This leniency is deliberate; the labels come from a
// system with the same behavior.
func ExtractTimestamp(label string) (time.Time, bool) {
	if label == "" {
		return time.Time{}, false
	}

	m := timestampPattern.FindStringSubmatch(label)
	if m == nil {
		return time.Time{}, false
	}

	// Submatches are all-digit by construction, so Atoi cannot fail.
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])

	nanos := 0
	if m[7] != "" {
		millis, _ := strconv.Atoi(m[7])
		nanos = millis * int(time.Millisecond)
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, nanos, time.UTC), true
}

// FormatTimestamp renders t using the local calendar components of the
// instant (extraction is zone-literal UTC; display is local). Month and day
// are zero-padded; the two non-ISO layouts truncate the year to two digits.
// A zero t yields ""; an unrecognized layout silently falls back to
// LayoutISO. Both are designed fallbacks, not error conditions.
func FormatTimestamp(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}

	local := t.Local()
	switch layout {
	case LayoutDayFirst:
		return local.Format("02-01-06")
	case LayoutMonthFirst:
		return local.Format("01-02-06")
	default:
		return local.Format("2006-01-02")
	}
}
