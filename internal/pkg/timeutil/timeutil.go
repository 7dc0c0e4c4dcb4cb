package timeutil

import (
	"fmt"
	"time"
)

func NowUnix() int64 {
	return time.Now().Unix()
}

// Zone-less layouts accepted for scheduled reminders. Clients usually send
// RFC3339, but datetime-local pickers produce bare timestamps.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseUTC parses a reminder timestamp. Timestamps without zone information
// are treated as UTC.
func ParseUTC(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", value)
}
