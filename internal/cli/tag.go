package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/runnerr0/linktrack/internal/storage"
)

// Execute implements the go-flags Commander interface for TagCommand.
// Usage: tag [list | add <link-id> <name> | rm <link-id> <tag-id>]
func (c *TagCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store, args)
}

func (c *TagCommand) executeWithStore(store *storage.Store, args []string) error {
	ctx := context.Background()

	verb := "list"
	if len(args) > 0 {
		verb = args[0]
		args = args[1:]
	}

	switch verb {
	case "list":
		tags, err := store.GetTags(ctx)
		if err != nil {
			return fmt.Errorf("list tags: %w", err)
		}
		if len(tags) == 0 {
			fmt.Println("No tags.")
			return nil
		}
		for _, t := range tags {
			fmt.Printf("%4d  %s\n", t.ID, t.Name)
		}
		return nil

	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: tag add <link-id> <name>")
		}
		linkID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid link id %q", args[0])
		}
		ok, err := store.AddTagToLink(ctx, linkID, args[1])
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("Tagged link %d with %q\n", linkID, args[1])
		} else {
			fmt.Printf("Link %d already has tag %q\n", linkID, args[1])
		}
		return nil

	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: tag rm <link-id> <tag-id>")
		}
		linkID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid link id %q", args[0])
		}
		tagID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid tag id %q", args[1])
		}
		ok, err := store.RemoveTagFromLink(ctx, linkID, tagID)
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("Removed tag %d from link %d\n", tagID, linkID)
		} else {
			fmt.Printf("Link %d does not have tag %d\n", linkID, tagID)
		}
		return nil

	default:
		return fmt.Errorf("unknown tag action %q (use list, add, rm)", verb)
	}
}
