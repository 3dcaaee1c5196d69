package main

import (
	"fmt"

	"github.com/joshuapare/consolekit/console/mem"
)

// bootManager applies the shared geometry flags.
func bootManager(total, kernelStart uint32) (*mem.Manager, error) {
	m, err := mem.New(total, kernelStart)
	if err != nil {
		return nil, fmt.Errorf("booting %d bytes: %w", total, err)
	}
	return m, nil
}

// runWorkload drives a canned mixed allocation pattern: a spread of
// tagged blocks, a process with heap traffic, interleaved releases to
// open holes, and one forced compaction. It leaves the manager in a
// mid-life state worth printing or verifying.
func runWorkload(m *mem.Manager) error {
	var addrs []mem.Address
	sizes := []uint32{4096, 100, 65536, 257, 8192, 1024, 300000, 12}
	tags := []mem.Tag{
		mem.TagGame, mem.TagUser, mem.TagGraphics, mem.TagUser,
		mem.TagAudio, mem.TagKernel, mem.TagGame, mem.TagUser,
	}
	for i, size := range sizes {
		a, err := m.Allocate(size, 0, tags[i], mem.NoProcess)
		if err != nil {
			return fmt.Errorf("workload alloc %d: %w", size, err)
		}
		addrs = append(addrs, a)
	}

	if err := m.ProcessCreate(7, 16384); err != nil {
		return fmt.Errorf("workload process: %w", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := m.ProcessAlloc(7, 2048<<i); err != nil {
			return fmt.Errorf("workload heap: %w", err)
		}
	}

	// Open holes, then force one relocation pass.
	for i := 0; i < len(addrs); i += 2 {
		if err := m.Release(addrs[i]); err != nil {
			return fmt.Errorf("workload release: %w", err)
		}
	}
	if err := m.Compact(); err != nil {
		return fmt.Errorf("workload compact: %w", err)
	}
	return nil
}
