package browser

import (
	"os"
	"path/filepath"
	"time"
)

// Profile is one discovered browser profile with a readable history store.
type Profile struct {
	Browser string // browser label, e.g. "Chrome"
	Name    string // profile label, e.g. "Default" or a user-chosen name
	Path    string // absolute path to the profile directory
}

// HistoryPath returns the location of the profile's history database.
func (p Profile) HistoryPath() string {
	return filepath.Join(p.Path, "History")
}

// HasHistory reports whether dir contains a readable history database.
func HasHistory(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "History"))
	return err == nil && info.Mode().IsRegular()
}

// VisitEvent is one normalized history record emitted by the scanner.
// Visits to the same URL within a scan window are coalesced; VisitedAt is
// the most recent visit in the window and VisitCount is the browser's own
// lifetime counter for the URL.
type VisitEvent struct {
	URL        string
	Title      string
	VisitCount int64
	VisitedAt  time.Time
	Browser    string
	Profile    string
}
