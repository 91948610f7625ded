package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/linktrack/internal/storage"
)

// Execute implements the go-flags Commander interface for TrashCommand.
func (c *TrashCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store, args)
}

func (c *TrashCommand) executeWithStore(store *storage.Store, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	n, err := store.DeleteLinks(context.Background(), ids, false)
	if err != nil {
		return fmt.Errorf("trash links: %w", err)
	}

	fmt.Printf("Trashed %d link(s)\n", n)
	return nil
}

// Execute implements the go-flags Commander interface for RestoreCommand.
func (c *RestoreCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store, args)
}

func (c *RestoreCommand) executeWithStore(store *storage.Store, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	n, err := store.RestoreLinks(context.Background(), ids)
	if err != nil {
		return fmt.Errorf("restore links: %w", err)
	}

	fmt.Printf("Restored %d link(s)\n", n)
	return nil
}

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store, args)
}

func (c *PurgeCommand) executeWithStore(store *storage.Store, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	if !c.Force {
		fmt.Printf("Permanently delete %d link(s) and their visit history? This cannot be undone. [y/N] ", len(ids))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	n, err := store.DeleteLinks(context.Background(), ids, true)
	if err != nil {
		return fmt.Errorf("purge links: %w", err)
	}

	fmt.Printf("Permanently deleted %d link(s)\n", n)
	return nil
}
