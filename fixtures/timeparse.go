package fixtures

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layouts tried in order when normalizing a timestamp. Zone-less layouts are
// interpreted as UTC, which keeps ambiguous inputs unambiguous.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseUTC normalizes an ambiguous timestamp string to an absolute UTC
// instant. RFC3339 inputs keep their explicit offset and are converted;
// everything else is taken as already being UTC.
func ParseUTC(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
