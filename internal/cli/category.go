package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/runnerr0/linktrack/internal/storage"
)

// Execute implements the go-flags Commander interface for CategoryCommand.
// Usage: category [list | add <name> | rm <id> | assign <link-id> <category-id> | unassign <link-id> <category-id>]
func (c *CategoryCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store, args)
}

func (c *CategoryCommand) executeWithStore(store *storage.Store, args []string) error {
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
		if len(args) < 1 {
			return fmt.Errorf("usage: category add <name> [--parent id] [--color hex]")
		}
		return c.add(ctx, store, strings.Join(args, " "))
	case "rm":
		if len(args) != 1 {
			return fmt.Errorf("usage: category rm <id>")
		}
		return c.remove(ctx, store, args[0])
	case "assign", "unassign":
		if len(args) != 2 {
			return fmt.Errorf("usage: category %s <link-id> <category-id>", verb)
		}
		return c.associate(ctx, store, verb, args[0], args[1])
	default:
		return fmt.Errorf("unknown category action %q (use list, add, rm, assign, unassign)", verb)
	}
}

func (c *CategoryCommand) list(ctx context.Context, store *storage.Store) error {
	roots, err := store.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	if len(roots) == 0 {
		fmt.Println("No categories.")
		return nil
	}

	for _, root := range roots {
		fmt.Printf("%4d  %s  (%s)\n", root.ID, root.Name, root.Color)
		for _, child := range root.Children {
			fmt.Printf("%4d    └ %s  (%s)\n", child.ID, child.Name, child.Color)
		}
	}
	return nil
}

func (c *CategoryCommand) add(ctx context.Context, store *storage.Store, name string) error {
	cat, err := store.CreateCategory(ctx, name, c.Color, c.Parent)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	fmt.Printf("Created category %d: %s\n", cat.ID, cat.Name)
	return nil
}

func (c *CategoryCommand) remove(ctx context.Context, store *storage.Store, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid category id %q", rawID)
	}

	ok, err := store.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if !ok {
		fmt.Printf("No category with id %d\n", id)
		return nil
	}

	fmt.Printf("Deleted category %d (subcategories removed, links kept)\n", id)
	return nil
}

func (c *CategoryCommand) associate(ctx context.Context, store *storage.Store, verb, rawLink, rawCat string) error {
	linkID, err := strconv.ParseInt(rawLink, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid link id %q", rawLink)
	}
	catID, err := strconv.ParseInt(rawCat, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid category id %q", rawCat)
	}

	if verb == "assign" {
		ok, err := store.AddLinkToCategory(ctx, linkID, catID)
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("Link %d added to category %d\n", linkID, catID)
		} else {
			fmt.Printf("Link %d is already in category %d\n", linkID, catID)
		}
		return nil
	}

	ok, err := store.RemoveLinkFromCategory(ctx, linkID, catID)
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("Link %d removed from category %d\n", linkID, catID)
	} else {
		fmt.Printf("Link %d was not in category %d\n", linkID, catID)
	}
	return nil
}
