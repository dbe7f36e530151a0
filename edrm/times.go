package edrm

import (
	"fmt"
	"time"
)

// Timestamp layouts for the load file. The target tooling stores times in GMT
// with millisecond precision, so the zone suffix is fixed at +00:00.
const (
	// TimestampLayout renders field timestamps; TimestampZone is appended
	// verbatim.
	TimestampLayout = "2006-01-02T15:04:05.000"
	TimestampZone   = "+00:00"

	// ItemDateLayout is the default layout for item dates carried as strings
	// in mapping data.
	ItemDateLayout = "2006-01-02 15:04:05.000000"
)

// parseLayouts are the layouts accepted when a string is assigned to a
// DateTime field.
var parseLayouts = []string{
	TimestampLayout + TimestampZone,
	time.RFC3339,
	ItemDateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatTimestamp renders t in the load-file timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout) + TimestampZone
}

// ParseTimestamp parses s against the accepted timestamp layouts.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
