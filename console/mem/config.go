package mem

import "github.com/joshuapare/consolekit/internal/layout"

// Config defines the region geometry knobs a console boots with.
// Zero fields fall back to the stock values.
type Config struct {
	// Name for this configuration (for benchmarking)
	Name string

	// KernelHeapSize is the span reserved for the kernel region,
	// starting at the kernel base passed to New.
	KernelHeapSize uint32

	// StackSize is the stack block allocated by ProcessCreate.
	StackSize uint32

	// MinSplitRemainder is the smallest leftover worth carving into its
	// own free block; smaller remainders are absorbed into the
	// allocation as internal fragmentation.
	MinSplitRemainder uint32
}

// Predefined configurations.
var (
	// Stock: the shipped console geometry (8 MiB kernel heap, 1 MiB stacks).
	ConfigStock = Config{
		Name:              "Stock",
		KernelHeapSize:    layout.KernelHeapSize,
		StackSize:         layout.StackSize,
		MinSplitRemainder: layout.MinSplitRemainder,
	}

	// Compact: shrunk geometry for small totals and tests (64 KiB kernel
	// heap, 4 KiB stacks).
	ConfigCompact = Config{
		Name:              "Compact",
		KernelHeapSize:    64 * 1024,
		StackSize:         4 * 1024,
		MinSplitRemainder: layout.MinSplitRemainder,
	}

	// Default configuration (used if none specified).
	DefaultConfig = ConfigStock
)

// normalize fills zero fields from the stock configuration.
func (c Config) normalize() Config {
	if c.KernelHeapSize == 0 {
		c.KernelHeapSize = layout.KernelHeapSize
	}
	if c.StackSize == 0 {
		c.StackSize = layout.StackSize
	}
	if c.MinSplitRemainder == 0 {
		c.MinSplitRemainder = layout.MinSplitRemainder
	}
	return c
}
