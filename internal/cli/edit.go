package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/linktrack/internal/storage"
)

// Execute implements the go-flags Commander interface for EditCommand.
func (c *EditCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store)
}

func (c *EditCommand) executeWithStore(store *storage.Store) error {
	ctx := context.Background()

	if c.Favorite {
		ok, err := store.ToggleFavorite(ctx, c.ID)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("No link with id %d\n", c.ID)
			return nil
		}
	}

	params := storage.UpdateLinkParams{}
	if c.Title != "" {
		params.Title = &c.Title
	}
	if c.Notes != "" {
		params.Notes = &c.Notes
	}

	if params.Title != nil || params.Notes != nil {
		ok, err := store.UpdateLink(ctx, c.ID, params)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("No link with id %d\n", c.ID)
			return nil
		}
	} else if !c.Favorite {
		fmt.Println("Nothing to change. Supply --title, --notes, or --favorite.")
		return nil
	}

	link, err := store.GetLink(ctx, c.ID)
	if err != nil {
		return err
	}
	if link == nil {
		return nil
	}

	marker := ""
	if link.Favorite {
		marker = " *"
	}
	fmt.Printf("%d%s %s\n", link.ID, marker, link.Title)
	if link.Notes != "" {
		fmt.Printf("   %s\n", link.Notes)
	}
	return nil
}
