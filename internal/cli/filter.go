package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/runnerr0/linktrack/internal/storage"
)

// Execute implements the go-flags Commander interface for FilterCommand.
// Usage: filter [list | add <pattern> | rm <id> | enable <id> | disable <id> | test <url>]
func (c *FilterCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store, args)
}

func (c *FilterCommand) executeWithStore(store *storage.Store, args []string) error {
	ctx := context.Background()

	verb := "list"
	if len(args) > 0 {
		verb = args[0]
		args = args[1:]
	}

	switch verb {
	case "list":
		return c.list(ctx, store)
	case "add":
		if len(args) != 1 {
			return fmt.Errorf("usage: filter add <pattern> [--type t] [--desc text]")
		}
		return c.add(ctx, store, args[0])
	case "rm":
		if len(args) != 1 {
			return fmt.Errorf("usage: filter rm <id>")
		}
		return c.remove(ctx, store, args[0])
	case "enable", "disable":
		if len(args) != 1 {
			return fmt.Errorf("usage: filter %s <id>", verb)
		}
		return c.setActive(ctx, store, args[0], verb == "enable")
	case "test":
		if len(args) != 1 {
			return fmt.Errorf("usage: filter test <url>")
		}
		return c.test(ctx, store, args[0])
	default:
		return fmt.Errorf("unknown filter action %q (use list, add, rm, enable, disable, test)", verb)
	}
}

func (c *FilterCommand) list(ctx context.Context, store *storage.Store) error {
	filters, err := store.GetFilters(ctx, !c.All)
	if err != nil {
		return fmt.Errorf("list filters: %w", err)
	}

	if len(filters) == 0 {
		fmt.Println("No filters.")
		return nil
	}

	for _, f := range filters {
		state := "on"
		if !f.Active {
			state = "off"
		}
		line := fmt.Sprintf("%4d  [%-3s] %-8s %s", f.ID, state, f.MatchType, f.Pattern)
		if f.Description != "" {
			line += "  — " + f.Description
		}
		fmt.Println(line)
	}
	return nil
}

func (c *FilterCommand) add(ctx context.Context, store *storage.Store, pattern string) error {
	f, err := store.AddFilter(ctx, pattern, c.Type, c.Description)
	if err != nil {
		return fmt.Errorf("add filter: %w", err)
	}

	fmt.Printf("Added filter %d: %s %q\n", f.ID, f.MatchType, f.Pattern)
	return nil
}

func (c *FilterCommand) remove(ctx context.Context, store *storage.Store, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid filter id %q", rawID)
	}

	ok, err := store.DeleteFilter(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("No filter with id %d\n", id)
		return nil
	}

	fmt.Printf("Deleted filter %d\n", id)
	return nil
}

func (c *FilterCommand) setActive(ctx context.Context, store *storage.Store, rawID string, active bool) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid filter id %q", rawID)
	}

	ok, err := store.SetFilterActive(ctx, id, active)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("No filter with id %d\n", id)
		return nil
	}

	if active {
		fmt.Printf("Filter %d enabled\n", id)
	} else {
		fmt.Printf("Filter %d disabled\n", id)
	}
	return nil
}

// test reports whether url would be tracked and which filters block it.
func (c *FilterCommand) test(ctx context.Context, store *storage.Store, url string) error {
	filters, err := store.GetFilters(ctx, true)
	if err != nil {
		return err
	}

	var matched []storage.URLFilter
	for _, f := range filters {
		if f.Matches(url) {
			matched = append(matched, f)
		}
	}

	if len(matched) == 0 {
		fmt.Printf("%s would be tracked\n", url)
		return nil
	}

	fmt.Printf("%s would NOT be tracked. Matching filter(s):\n", url)
	for _, f := range matched {
		desc := ""
		if f.Description != "" {
			desc = " — " + f.Description
		}
		fmt.Printf("%4d  %s %q%s\n", f.ID, f.MatchType, f.Pattern, desc)
	}
	return nil
}
