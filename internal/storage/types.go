package storage

import "time"

// Link is a catalog record for one tracked URL.
type Link struct {
	ID             int64
	URL            string
	NormalizedURL  string
	Title          string
	FaviconURL     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastAccessedAt time.Time
	AccessCount    int64
	Notes          string
	Favorite       bool
	Deleted        bool
	DeletedAt      time.Time // zero unless Deleted

	Categories []Category
	Tags       []Tag
}

// Category organizes links. Categories form a tree via ParentID; children
// are populated by GetCategories.
type Category struct {
	ID        int64
	Name      string
	Color     string
	SortOrder int
	ParentID  int64 // 0 for top-level
	Children  []*Category
}

// Tag is a flat free-form label.
type Tag struct {
	ID   int64
	Name string
}

// Visit is one append-only access event for a link.
type Visit struct {
	ID        int64
	LinkID    int64
	Browser   string
	Profile   string
	VisitedAt time.Time
}

// BrowserSource is a registered (browser, profile) pair whose history store
// is scanned for visits.
type BrowserSource struct {
	ID            int64
	Browser       string
	Profile       string
	ProfilePath   string
	Active        bool
	LastScannedAt time.Time // zero if never scanned
}

// URL filter match types.
const (
	MatchDomain   = "domain"
	MatchPrefix   = "prefix"
	MatchContains = "contains"
	MatchRegex    = "regex"
)

// URLFilter suppresses ingestion of matching URLs.
type URLFilter struct {
	ID          int64
	Pattern     string
	MatchType   string
	Active      bool
	Description string
}

// UpsertParams carries one visit-derived update into the catalog.
type UpsertParams struct {
	URL       string
	Title     string
	Browser   string
	Profile   string
	VisitedAt time.Time // zero means now
}

// DeletedFilter selects which deletion states GetLinks returns.
type DeletedFilter string

const (
	DeletedExclude DeletedFilter = ""        // default: active links only
	DeletedInclude DeletedFilter = "include" // active and soft-deleted
	DeletedOnly    DeletedFilter = "only"    // soft-deleted only
)

// LinkQuery filters and orders GetLinks results. Zero values disable the
// corresponding filter.
type LinkQuery struct {
	CategoryID int64
	Search     string // case-insensitive substring across URL, title, notes
	Browser    string // requires a visit from this browser
	Days       int    // last accessed within the past N days
	Deleted    DeletedFilter
	SortBy     string // last_accessed_at, access_count, created_at, title
	SortAsc    bool
	Limit      int
	Offset     int
}

// UpdateLinkParams updates only its non-nil fields.
type UpdateLinkParams struct {
	Title    *string
	Notes    *string
	Favorite *bool
}

// Stats holds aggregate catalog statistics.
type Stats struct {
	TotalLinks      int64
	FavoriteLinks   int64
	DeletedLinks    int64
	TotalCategories int64
	TotalTags       int64
	TotalVisits     int64
	OldestAccess    time.Time
	NewestAccess    time.Time
	TopDomains      []DomainCount
}

// DomainCount pairs a domain with its link count.
type DomainCount struct {
	Domain string
	Count  int64
}
