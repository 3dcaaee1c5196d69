package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	infoTotal       uint32
	infoKernelStart uint32
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Boot a manager and report its geometry and counters",
		Long: `The info command boots a fresh memory manager with the given
geometry and prints the regions it carved out plus the initial stats.

Example:
  consctl info
  consctl info --total 67108864 --kernel-start 524288
  consctl info --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo()
		},
	}
	cmd.Flags().Uint32Var(&infoTotal, "total", 128<<20, "Total memory in bytes")
	cmd.Flags().
		Uint32Var(&infoKernelStart, "kernel-start", 1<<20, "Start of the kernel region in bytes")
	return cmd
}

func runInfo() error {
	printVerbose("Booting manager: total=%d kernel-start=%d\n", infoTotal, infoKernelStart)

	m, err := bootManager(infoTotal, infoKernelStart)
	if err != nil {
		return fmt.Errorf("failed to boot manager: %w", err)
	}
	st := m.Stats()

	if jsonOut {
		return printJSON(st)
	}

	printInfo("\nConsole Memory:\n")
	printInfo("  Total:        %s\n", formatSize(uint64(st.TotalMemory)))
	printInfo("  Kernel:       0x%08X - 0x%08X\n", st.KernelStart, st.KernelEnd)
	printInfo("  User region:  0x%08X - 0x%08X\n", st.UserStart, st.TotalMemory)
	printInfo("  Available:    %s\n", formatSize(uint64(st.AvailableMemory)))
	printInfo("\nPage Frames:\n")
	printInfo("  Total: %d\n", st.TotalPages)
	printInfo("  Free:  %d\n", st.FreePages)
	printInfo("\nCounters:\n")
	printInfo("  Allocations:   %d\n", st.AllocationCount)
	printInfo("  Deallocations: %d\n", st.DeallocationCount)
	printInfo("  Compactions:   %d\n", st.FragmentationCount)

	return nil
}

func formatSize(n uint64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d bytes", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
