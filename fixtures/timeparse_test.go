package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUTC(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339 with offset converts to utc",
			input: "2026-06-01T12:00:00+02:00",
			want:  time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 zulu",
			input: "2026-06-01T10:00:00Z",
			want:  time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "zone-less datetime taken as utc",
			input: "2026-06-01T10:00:00",
			want:  time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "minute precision",
			input: "2026-06-01 10:30",
			want:  time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2026-06-01",
			want:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  2026-06-01T10:00:00Z  ",
			want:  time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseUTC(tc.input)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseUTC_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not-a-date", "01/06/2026"} {
		_, err := ParseUTC(input)
		assert.Error(t, err, "input %q", input)
	}
}
