package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromChromium_KnownValues(t *testing.T) {
	tests := []struct {
		name  string
		ticks int64
		want  time.Time
	}{
		{
			name:  "windows epoch",
			ticks: 0,
			want:  time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "unix epoch",
			ticks: 11644473600 * 1_000_000,
			want:  time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "modern timestamp",
			ticks: 13320000000 * 1_000_000,
			want:  time.Unix(13320000000-11644473600, 0).UTC(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, FromChromium(tc.ticks).Equal(tc.want),
				"got %v, want %v", FromChromium(tc.ticks), tc.want)
		})
	}
}

func TestToChromium_InvertsFromChromium(t *testing.T) {
	ticks := []int64{
		0,
		11644473600 * 1_000_000,
		13320000000*1_000_000 + 123456, // sub-second precision
		13400000000 * 1_000_000,
	}

	for _, raw := range ticks {
		assert.Equal(t, raw, ToChromium(FromChromium(raw)), "round-trip of %d", raw)
	}
}

func TestToChromium_TruncatesBelowMicrosecond(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	withNanos := base.Add(1500 * time.Nanosecond)

	assert.Equal(t, ToChromium(base)+1, ToChromium(withNanos))
}

func TestFromChromium_ReturnsUTC(t *testing.T) {
	got := FromChromium(13320000000 * 1_000_000)
	assert.Equal(t, time.UTC, got.Location())
}
