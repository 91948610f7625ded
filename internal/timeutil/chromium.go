// Package timeutil converts between Chromium history timestamps and time.Time.
//
// Chromium-family browsers (Chrome, Edge, Brave, Vivaldi) record visit times
// as microseconds elapsed since the Windows epoch, 1601-01-01T00:00:00Z.
package timeutil

import "time"

// Seconds between 1601-01-01T00:00:00Z and the Unix epoch.
const epochOffsetSeconds int64 = 11644473600

const microsPerSecond int64 = 1_000_000

// FromChromium converts a raw Chromium tick count to a UTC time.Time.
//
// The arithmetic goes through Unix seconds and microseconds instead of a
// single time.Duration: a span measured from 1601 overflows int64 nanoseconds.
func FromChromium(ticks int64) time.Time {
	micros := ticks - epochOffsetSeconds*microsPerSecond
	return time.UnixMicro(micros).UTC()
}

// ToChromium converts a time.Time to Chromium ticks, truncating to
// microsecond granularity.
func ToChromium(t time.Time) int64 {
	return (t.Unix()+epochOffsetSeconds)*microsPerSecond + int64(t.Nanosecond())/1000
}
