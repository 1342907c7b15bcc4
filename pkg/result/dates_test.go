package result

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dateNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestExtractDateRelative(t *testing.T) {
	cases := []struct {
		text string
		want time.Time
	}{
		{"posted 3 days ago by admin", dateNow.Add(-3 * 24 * time.Hour)},
		{"Updated 2 Hours Ago", dateNow.Add(-2 * time.Hour)},
		{"5 minutes ago", dateNow.Add(-5 * time.Minute)},
		{"about 2 weeks ago", dateNow.Add(-14 * 24 * time.Hour)},
		{"6 months ago", dateNow.Add(-6 * 30 * 24 * time.Hour)},
		{"1 year ago", dateNow.Add(-365 * 24 * time.Hour)},
		{"published today at noon", dateNow},
		{"released yesterday", dateNow.Add(-24 * time.Hour)},
		{"seen last week", dateNow.Add(-7 * 24 * time.Hour)},
		{"changed last month", dateNow.Add(-30 * 24 * time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got := ExtractDateAt(tc.text, dateNow)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tc.want), "got %v want %v", got, tc.want)
		})
	}
}

func TestExtractDateAbsolute(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)

	for _, text := range []string{
		"released on 2024-01-15",
		"released on 2024/01/15",
		"released on 2024.01.15",
		"released on 01/15/2024",
		"released on 1-15-2024",
	} {
		t.Run(text, func(t *testing.T) {
			got := ExtractDateAt(text, dateNow)
			require.NotNil(t, got)
			assert.True(t, got.Equal(want), "got %v want %v", got, want)
		})
	}
}

func TestExtractDateNoMatch(t *testing.T) {
	assert.Nil(t, ExtractDateAt("", dateNow))
	assert.Nil(t, ExtractDateAt("nothing datelike in here", dateNow))
	assert.Nil(t, ExtractDateAt("version 1.2.3 of the library", dateNow))
}

func TestExtractDateMalformedMatchContinuesScanning(t *testing.T) {
	// The year-first rule matches 2024-13-45 but it is not a real
	// calendar date, so scanning continues to the keyword rules.
	got := ExtractDateAt("2024-13-45 updated yesterday", dateNow)
	require.NotNil(t, got)
	assert.True(t, got.Equal(dateNow.Add(-24*time.Hour)))
}

func TestExtractDateMalformedOnlyMatch(t *testing.T) {
	assert.Nil(t, ExtractDateAt("scheduled for 2024-13-45", dateNow))
	assert.Nil(t, ExtractDateAt("2023-02-29 anniversary", dateNow), "not a leap year")
}

func TestExtractDateRelativeBeatsAbsolute(t *testing.T) {
	got := ExtractDateAt("2020-01-01 archive, refreshed 2 days ago", dateNow)
	require.NotNil(t, got)
	assert.True(t, got.Equal(dateNow.Add(-2*24*time.Hour)))
}

func TestExtractDateNewlinesCollapsed(t *testing.T) {
	got := ExtractDateAt("breaking\nnews from 3\ndays ago", dateNow)
	require.NotNil(t, got)
	assert.True(t, got.Equal(dateNow.Add(-3*24*time.Hour)))
}
