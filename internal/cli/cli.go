package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Scan     *ScanCommand
	Watch    *WatchCommand
	Sources  *SourcesCommand
	List     *ListCommand
	Edit     *EditCommand
	Trash    *TrashCommand
	Restore  *RestoreCommand
	Purge    *PurgeCommand
	Category *CategoryCommand
	Tag      *TagCommand
	Filter   *FilterCommand
	Export   *ExportCommand
	Import   *ImportCommand
	Status   *StatusCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "linktrack"
	parser.LongDescription = "Local-first browsing activity tracker: scans browser history into a searchable link catalog."

	cmds := &commands{
		Scan:     &ScanCommand{globals: &globals, version: version},
		Watch:    &WatchCommand{globals: &globals, version: version},
		Sources:  &SourcesCommand{globals: &globals, version: version},
		List:     &ListCommand{globals: &globals, version: version},
		Edit:     &EditCommand{globals: &globals, version: version},
		Trash:    &TrashCommand{globals: &globals, version: version},
		Restore:  &RestoreCommand{globals: &globals, version: version},
		Purge:    &PurgeCommand{globals: &globals, version: version},
		Category: &CategoryCommand{globals: &globals, version: version},
		Tag:      &TagCommand{globals: &globals, version: version},
		Filter:   &FilterCommand{globals: &globals, version: version},
		Export:   &ExportCommand{globals: &globals, version: version},
		Import:   &ImportCommand{globals: &globals, version: version},
		Status:   &StatusCommand{globals: &globals, version: version},
	}

	parser.AddCommand("scan", "Run one ingestion sweep", "Discover browser profiles, register them, and run one ingestion sweep.", cmds.Scan)
	parser.AddCommand("watch", "Run periodic ingestion sweeps", "Run ingestion sweeps on a schedule until interrupted.", cmds.Watch)
	parser.AddCommand("sources", "List registered browser sources", "List registered browser sources and enable or disable them.", cmds.Sources)
	parser.AddCommand("list", "List cataloged links", "Query the link catalog with filters, sorting, and pagination.", cmds.List)
	parser.AddCommand("edit", "Edit a link", "Update a link's title or notes, or toggle its favorite flag.", cmds.Edit)
	parser.AddCommand("trash", "Soft-delete links", "Move links to the trash. Reversible with restore.", cmds.Trash)
	parser.AddCommand("restore", "Restore trashed links", "Restore soft-deleted links to the catalog.", cmds.Restore)
	parser.AddCommand("purge", "Permanently delete links", "Permanently delete links and their history. Irreversible.", cmds.Purge)
	parser.AddCommand("category", "Manage categories", "List, create, delete, and assign categories.", cmds.Category)
	parser.AddCommand("tag", "Manage tags", "List tags and tag or untag links.", cmds.Tag)
	parser.AddCommand("filter", "Manage URL filters", "List, add, remove, toggle, and test URL filters.", cmds.Filter)
	parser.AddCommand("export", "Export the catalog", "Export the catalog to a JSON transfer document.", cmds.Export)
	parser.AddCommand("import", "Import a catalog export", "Merge a JSON transfer document into the catalog.", cmds.Import)
	parser.AddCommand("status", "Show catalog statistics", "Show catalog statistics, source health, and configuration.", cmds.Status)

	return parser, &globals, cmds
}

// Run is the main entry point for the linktrack CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("linktrack %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
