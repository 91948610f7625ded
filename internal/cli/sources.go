package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/linktrack/internal/storage"
)

// Execute implements the go-flags Commander interface for SourcesCommand.
func (c *SourcesCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store)
}

func (c *SourcesCommand) executeWithStore(store *storage.Store) error {
	ctx := context.Background()

	if c.Enable != 0 {
		return c.setActive(ctx, store, c.Enable, true)
	}
	if c.Disable != 0 {
		return c.setActive(ctx, store, c.Disable, false)
	}

	sources, err := store.GetSources(ctx, !c.All)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Println("No sources registered. Run 'scan' to discover browser profiles.")
		return nil
	}

	for _, src := range sources {
		state := "enabled"
		if !src.Active {
			state = "disabled"
		}
		fmt.Printf("%4d  %s/%s  [%s]  last scan: %s\n",
			src.ID, src.Browser, src.Profile, state, formatTimeAgo(src.LastScannedAt))
		fmt.Printf("      %s\n", src.ProfilePath)
	}
	return nil
}

func (c *SourcesCommand) setActive(ctx context.Context, store *storage.Store, id int64, active bool) error {
	ok, err := store.SetSourceActive(ctx, id, active)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("No source with id %d\n", id)
		return nil
	}
	if active {
		fmt.Printf("Source %d enabled\n", id)
	} else {
		fmt.Printf("Source %d disabled\n", id)
	}
	return nil
}
