package event

// #region imports
import (
	"fmt"
	"strings"
	"time"
)

// #endregion

// #region parse
// ParseClock parses an ISO-ish timestamp from the generator. Returns nil
// for anything that does not parse; callers treat nil as "no further
// advancement for this record".
func ParseClock(ts string) *time.Time {
	s := strings.TrimSpace(ts)
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "Z")
	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"15:04:05",
		"15:04",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return &t
		}
	}
	return nil
}

// #endregion parse

// #region minute-of-day
// MinuteOfDay converts a timestamp to minutes since that day's midnight.
// Unparseable input maps to 0.
func MinuteOfDay(ts string) float64 {
	t := ParseClock(ts)
	if t == nil {
		return 0
	}
	return float64(t.Hour())*60 + float64(t.Minute()) + float64(t.Second())/60.0
}

// #endregion minute-of-day

// #region delta-minutes
// DeltaMinutes returns current-last in minutes, wrapping once across
// midnight (a smaller current clock is read as the next day). Never
// negative.
func DeltaMinutes(last, current string) float64 {
	t0 := MinuteOfDay(last)
	t1 := MinuteOfDay(current)
	if t1 >= t0 {
		return t1 - t0
	}
	return t1 + (24*60 - t0)
}

// #endregion delta-minutes

// #region shift
// Shift adds minutes to a timestamp, preserving its shape. Unparseable
// input comes back unchanged.
func Shift(ts string, minutes int) string {
	t := ParseClock(ts)
	if t == nil {
		return ts
	}
	shifted := t.Add(time.Duration(minutes) * time.Minute)
	withDate := strings.Contains(ts, "T")
	withSeconds := strings.Count(ts, ":") > 1
	var layout string
	switch {
	case withDate && withSeconds:
		layout = "2006-01-02T15:04:05"
	case withDate:
		layout = "2006-01-02T15:04"
	case withSeconds:
		layout = "15:04:05"
	default:
		layout = "15:04"
	}
	out := shifted.Format(layout)
	if strings.HasSuffix(strings.TrimSpace(ts), "Z") {
		out += "Z"
	}
	return out
}

// #endregion shift

// #region normalize
// NormalizeClock folds type-placeholder artifacts like 07:31:60 into the
// next minute and clamps to the day. Anything it cannot read passes
// through untouched.
func NormalizeClock(ts string) string {
	if ts == "" || !strings.Contains(ts, ":") {
		return ts
	}
	datePart := ""
	clock := ts
	if i := strings.Index(ts, "T"); i >= 0 {
		datePart = ts[:i+1]
		clock = ts[i+1:]
	}
	clock = strings.TrimSuffix(clock, "Z")
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return ts
	}
	var h, m, sec int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return ts
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return ts
	}
	if len(parts) > 2 {
		if _, err := fmt.Sscanf(parts[2], "%d", &sec); err != nil {
			return ts
		}
	}
	total := h*3600 + m*60 + sec
	if total < 0 {
		total = 0
	}
	if total > 24*3600-1 {
		total = 24*3600 - 1
	}
	h, rem := total/3600, total%3600
	m, sec = rem/60, rem%60
	out := fmt.Sprintf("%s%02d:%02d:%02d", datePart, h, m, sec)
	if strings.HasSuffix(ts, "Z") {
		out += "Z"
	}
	return out
}

// #endregion normalize
