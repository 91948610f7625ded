package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/linktrack/internal/storage"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	store, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store, args)
}

// executeWithStore runs the query against a provided store (for testing).
func (c *ListCommand) executeWithStore(store *storage.Store, args []string) error {
	search := c.Search
	if search == "" && len(args) > 0 {
		search = strings.Join(args, " ")
	}

	var deleted storage.DeletedFilter
	switch c.Deleted {
	case "include":
		deleted = storage.DeletedInclude
	case "only":
		deleted = storage.DeletedOnly
	}

	links, err := store.GetLinks(context.Background(), storage.LinkQuery{
		Search:     search,
		CategoryID: c.Category,
		Browser:    c.Browser,
		Days:       c.Days,
		Deleted:    deleted,
		SortBy:     c.Sort,
		SortAsc:    c.Asc,
		Limit:      c.Limit,
		Offset:     c.Offset,
	})
	if err != nil {
		return fmt.Errorf("query links: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(links)
	}
	return c.printHuman(links)
}

func (c *ListCommand) printHuman(links []*storage.Link) error {
	if len(links) == 0 {
		fmt.Println("No links found.")
		return nil
	}

	for i, l := range links {
		marker := " "
		if l.Favorite {
			marker = "*"
		}
		if l.Deleted {
			marker = "x"
		}

		fmt.Printf("%4d %s %s\n", l.ID, marker, l.Title)
		fmt.Printf("       %s\n", l.URL)

		meta := fmt.Sprintf("%s · %d visits", formatTimeAgo(l.LastAccessedAt), l.AccessCount)
		if names := categoryNames(l.Categories); names != "" {
			meta += " · " + names
		}
		if names := tagNames(l.Tags); names != "" {
			meta += " · #" + names
		}
		fmt.Printf("       %s\n", meta)

		if i < len(links)-1 {
			fmt.Println()
		}
	}
	return nil
}

type jsonLink struct {
	ID             int64    `json:"id"`
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Notes          string   `json:"notes,omitempty"`
	Favorite       bool     `json:"is_favorite"`
	Deleted        bool     `json:"is_deleted,omitempty"`
	AccessCount    int64    `json:"access_count"`
	LastAccessedAt string   `json:"last_accessed_at"`
	Categories     []string `json:"categories"`
	Tags           []string `json:"tags"`
}

func (c *ListCommand) printJSON(links []*storage.Link) error {
	out := make([]jsonLink, len(links))
	for i, l := range links {
		out[i] = jsonLink{
			ID:             l.ID,
			URL:            l.URL,
			Title:          l.Title,
			Notes:          l.Notes,
			Favorite:       l.Favorite,
			Deleted:        l.Deleted,
			AccessCount:    l.AccessCount,
			LastAccessedAt: l.LastAccessedAt.UTC().Format(time.RFC3339),
			Categories:     make([]string, 0, len(l.Categories)),
			Tags:           make([]string, 0, len(l.Tags)),
		}
		for _, cat := range l.Categories {
			out[i].Categories = append(out[i].Categories, cat.Name)
		}
		for _, t := range l.Tags {
			out[i].Tags = append(out[i].Tags, t.Name)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func categoryNames(cats []storage.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

func tagNames(tags []storage.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, " #")
}
