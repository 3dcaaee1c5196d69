package main

import (
	"fmt"
	"os"

	"github.com/joshuapare/consolekit/console/report"
	"github.com/spf13/cobra"
)

var (
	mapTotal       uint32
	mapKernelStart uint32
	mapShowFree    bool
)

func init() {
	rootCmd.AddCommand(newMapCmd())
}

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Run a canned workload and print the resulting memory map",
		Long: `The map command boots a manager, drives a mixed workload through it
(tagged allocations, process heap traffic, releases, one compaction),
and prints the block lists the workload left behind.

Example:
  consctl map
  consctl map --free=false
  consctl map --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap()
		},
	}
	cmd.Flags().Uint32Var(&mapTotal, "total", 128<<20, "Total memory in bytes")
	cmd.Flags().
		Uint32Var(&mapKernelStart, "kernel-start", 1<<20, "Start of the kernel region in bytes")
	cmd.Flags().BoolVar(&mapShowFree, "free", true, "Include free blocks in the map")
	return cmd
}

func runMap() error {
	m, err := bootManager(mapTotal, mapKernelStart)
	if err != nil {
		return fmt.Errorf("failed to boot manager: %w", err)
	}

	printVerbose("Running workload\n")
	if err := runWorkload(m); err != nil {
		return fmt.Errorf("workload failed: %w", err)
	}

	opts := report.DefaultOptions()
	opts.ShowFree = mapShowFree
	if jsonOut {
		opts.Format = report.FormatJSON
	}
	p := report.New(os.Stdout, opts)
	if err := p.MemoryMap(m.Snapshot()); err != nil {
		return err
	}
	if jsonOut {
		return nil
	}
	return p.Processes(m.Processes())
}
