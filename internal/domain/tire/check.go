package tire

import (
	"strconv"
	"strings"
	"time"
)

// MinTreadDepth32 is the depth, in 32nds, at or below which tread is flagged.
const MinTreadDepth32 = 4

// MaxTireAge is the age after which a DOT date code is flagged.
const MaxTireAge = 6 * 365 * 24 * time.Hour

var okConditions = map[string]bool{
	"ok":   true,
	"good": true,
	"pass": true,
	"":     true,
}

// CheckSidewall reports whether a sidewall condition needs attention
func CheckSidewall(condition string) bool {
	return !okConditions[strings.ToLower(strings.TrimSpace(condition))]
}

// CheckTread reports whether a tread condition needs attention
func CheckTread(condition string) bool {
	return !okConditions[strings.ToLower(strings.TrimSpace(condition))]
}

// CheckTreadDepth reports whether a tread depth in inches is at or below the minimum
func CheckTreadDepth(inches float64) bool {
	return inches <= float64(MinTreadDepth32)/32
}

// CheckPuncture reports whether a puncture was found
func CheckPuncture(description string) bool {
	d := strings.ToLower(strings.TrimSpace(description))
	return d != "" && d != "none" && d != "no"
}

// CheckDOT reports whether a DOT code is unreadable or older than MaxTireAge at now.
// The date code is the trailing four digits, week then two-digit year.
func CheckDOT(dot string, now time.Time) bool {
	manufactured, ok := ParseDOTDate(dot)
	if !ok {
		return true
	}
	return now.Sub(manufactured) > MaxTireAge
}

// ParseDOTDate extracts the manufacture week from a DOT code such as "DOT U2LL LMLR 5107".
func ParseDOTDate(dot string) (time.Time, bool) {
	code := strings.ReplaceAll(strings.TrimSpace(dot), " ", "")
	if len(code) < 4 {
		return time.Time{}, false
	}
	code = code[len(code)-4:]
	week, err := strconv.Atoi(code[:2])
	if err != nil || week < 1 || week > 53 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(code[2:])
	if err != nil {
		return time.Time{}, false
	}
	start := time.Date(2000+year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, (week-1)*7), true
}
