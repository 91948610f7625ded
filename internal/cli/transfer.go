package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/linktrack/internal/storage"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store)
}

func (c *ExportCommand) executeWithStore(store *storage.Store) error {
	doc, err := store.Export(context.Background())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	out := os.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	if c.Out != "" {
		fmt.Printf("Exported %d link(s) to %s\n", len(doc.Links), c.Out)
	}
	return nil
}

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store)
}

func (c *ImportCommand) executeWithStore(store *storage.Store) error {
	data, err := os.ReadFile(c.In)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	var doc storage.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse import file: %w", err)
	}

	stats, err := store.Import(context.Background(), &doc)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Printf("Imported: %d new, %d merged, %d skipped\n",
		stats.LinksNew, stats.LinksMerged, stats.LinksSkipped)
	if stats.NewCategories > 0 || stats.NewTags > 0 {
		fmt.Printf("Created %d categor(ies) and %d tag(s)\n",
			stats.NewCategories, stats.NewTags)
	}
	return nil
}
