package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/linktrack/internal/storage"
)

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store)
}

func (c *StatusCommand) executeWithStore(store *storage.Store) error {
	ctx := context.Background()

	stats, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("gather stats: %w", err)
	}

	sources, err := store.GetSources(ctx, false)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(stats, sources)
	}
	return c.printHuman(stats, sources)
}

func (c *StatusCommand) printHuman(stats *storage.Stats, sources []storage.BrowserSource) error {
	fmt.Printf("linktrack %s\n\n", c.version)

	fmt.Println("Catalog")
	fmt.Printf("  Links:      %d (%d favorite, %d trashed)\n",
		stats.TotalLinks, stats.FavoriteLinks, stats.DeletedLinks)
	fmt.Printf("  Visits:     %d\n", stats.TotalVisits)
	fmt.Printf("  Categories: %d, Tags: %d\n", stats.TotalCategories, stats.TotalTags)
	if !stats.NewestAccess.IsZero() {
		fmt.Printf("  Activity:   %s to %s\n",
			stats.OldestAccess.Local().Format("2006-01-02"),
			stats.NewestAccess.Local().Format("2006-01-02 15:04"))
	}

	if len(stats.TopDomains) > 0 {
		fmt.Println("\nTop domains")
		for _, d := range stats.TopDomains {
			fmt.Printf("  %5d  %s\n", d.Count, d.Domain)
		}
	}

	fmt.Println("\nSources")
	if len(sources) == 0 {
		fmt.Println("  none registered; run 'scan'")
		return nil
	}
	for _, src := range sources {
		state := "enabled"
		if !src.Active {
			state = "disabled"
		}
		fmt.Printf("  %s/%s [%s] last scan %s\n",
			src.Browser, src.Profile, state, formatTimeAgo(src.LastScannedAt))
	}
	return nil
}

type jsonStatus struct {
	Version string                  `json:"version"`
	Stats   *storage.Stats          `json:"stats"`
	Sources []storage.BrowserSource `json:"sources"`
}

func (c *StatusCommand) printJSON(stats *storage.Stats, sources []storage.BrowserSource) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonStatus{Version: c.version, Stats: stats, Sources: sources})
}
