package main

import (
	"errors"
	"fmt"

	"github.com/joshuapare/consolekit/console/mem"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newPagesCmd())
}

func newPagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Exhaust the page-frame allocator and report frame usage",
		Long: `The pages command boots a manager, allocates page frames until the
table is exhausted, frees every other one, re-allocates the holes, and
reports what the frame table looks like after the churn.

Example:
  consctl pages
  consctl pages --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPages()
		},
	}
	return cmd
}

func runPages() error {
	m, err := bootManager(128<<20, 1<<20)
	if err != nil {
		return fmt.Errorf("failed to boot manager: %w", err)
	}

	var pages []mem.Address
	for {
		p, err := m.AllocPage()
		if errors.Is(err, mem.ErrOutOfMemory) {
			break
		}
		if err != nil {
			return fmt.Errorf("page %d: %w", len(pages), err)
		}
		pages = append(pages, p)
	}
	printVerbose("Exhausted the frame table after %d pages\n", len(pages))

	for i := 0; i < len(pages); i += 2 {
		m.FreePage(pages[i])
	}
	refilled := 0
	for i := 0; i < len(pages); i += 2 {
		if _, err := m.AllocPage(); err != nil {
			return fmt.Errorf("refill %d: %w", i, err)
		}
		refilled++
	}

	st := m.Stats()
	if jsonOut {
		return printJSON(map[string]any{
			"total_pages": st.TotalPages,
			"free_pages":  st.FreePages,
			"exhausted":   len(pages),
			"refilled":    refilled,
		})
	}

	printInfo("\nPage Frames:\n")
	printInfo("  Total:    %d\n", st.TotalPages)
	printInfo("  In use:   %d\n", st.TotalPages-st.FreePages)
	printInfo("  Free:     %d\n", st.FreePages)
	printInfo("  Exhausted at %d pages, %d freed and re-allocated\n", len(pages), refilled)
	return nil
}
