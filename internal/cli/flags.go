package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ScanCommand — discover browser profiles and run one ingestion sweep.
type ScanCommand struct {
	DiscoverOnly bool `long:"discover-only" description:"Register discovered profiles without scanning"`

	globals *GlobalFlags
	version string
}

// WatchCommand — run ingestion sweeps on a schedule until interrupted.
type WatchCommand struct {
	Interval string `long:"interval" description:"Override sweep interval (e.g., 15m, 1h)"`

	globals *GlobalFlags
	version string
}

// SourcesCommand — list registered browser sources.
type SourcesCommand struct {
	All     bool  `long:"all" description:"Include disabled sources"`
	Enable  int64 `long:"enable" description:"Enable the source with this id"`
	Disable int64 `long:"disable" description:"Disable the source with this id"`

	globals *GlobalFlags
	version string
}

// ListCommand — query the link catalog with filters.
type ListCommand struct {
	Search   string `long:"search" short:"s" description:"Substring match across URL, title, and notes"`
	Category int64  `long:"category" description:"Filter by category id"`
	Browser  string `long:"browser" description:"Filter by browser attribution"`
	Days     int    `long:"days" description:"Only links accessed in the last N days"`
	Deleted  string `long:"deleted" description:"Deleted-state filter: include | only" choice:"include" choice:"only"`
	Sort     string `long:"sort" description:"Sort key: last_accessed_at | access_count | created_at | title" default:"last_accessed_at"`
	Asc      bool   `long:"asc" description:"Sort ascending instead of descending"`
	Limit    int    `long:"limit" description:"Maximum results" default:"20"`
	Offset   int    `long:"offset" description:"Skip first N results" default:"0"`

	globals *GlobalFlags
	version string
}

// EditCommand — update link fields or toggle its favorite flag.
type EditCommand struct {
	ID       int64  `long:"id" description:"Link id (required)" required:"true"`
	Title    string `long:"title" description:"New title"`
	Notes    string `long:"notes" description:"New notes"`
	Favorite bool   `long:"favorite" description:"Toggle the favorite flag"`

	globals *GlobalFlags
	version string
}

// TrashCommand — soft-delete links by id.
type TrashCommand struct {
	globals *GlobalFlags
	version string
}

// RestoreCommand — restore soft-deleted links by id.
type RestoreCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand — permanently delete links; irreversible.
type PurgeCommand struct {
	Force bool `long:"force" description:"Skip the confirmation prompt"`

	globals *GlobalFlags
	version string
}

// CategoryCommand — manage categories: list, add, rm, assign, unassign.
type CategoryCommand struct {
	Parent int64  `long:"parent" description:"Parent category id for add"`
	Color  string `long:"color" description:"Display color for add (hex)"`

	globals *GlobalFlags
	version string
}

// TagCommand — manage tags: list, add <link-id> <name>, rm <link-id> <tag-id>.
type TagCommand struct {
	globals *GlobalFlags
	version string
}

// FilterCommand — manage URL filters: list, add, rm, enable, disable, test.
type FilterCommand struct {
	Type        string `long:"type" description:"Match type for add: domain | prefix | contains | regex" default:"domain" choice:"domain" choice:"prefix" choice:"contains" choice:"regex"`
	Description string `long:"desc" description:"Filter description for add"`
	All         bool   `long:"all" description:"Include disabled filters in list"`

	globals *GlobalFlags
	version string
}

// ExportCommand — write the catalog to a JSON transfer document.
type ExportCommand struct {
	Out string `long:"out" short:"o" description:"Output file (default stdout)"`

	globals *GlobalFlags
	version string
}

// ImportCommand — merge a JSON transfer document into the catalog.
type ImportCommand struct {
	In string `long:"in" short:"i" description:"Input file (required)" required:"true"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show catalog statistics and source health.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}
