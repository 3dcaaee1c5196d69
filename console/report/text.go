package report

import (
	"fmt"
	"sort"

	"github.com/joshuapare/consolekit/console/mem"
)

// memoryMapText prints the map the way the console's debug monitor did:
// region header, one row per block in address order, then totals.
func (p *Printer) memoryMapText(snap mem.Snapshot) error {
	s := snap.Stats

	fmt.Fprintf(p.w, "Memory %d KB total, kernel [0x%08X-0x%08X), user [0x%08X-0x%08X)\n",
		s.TotalMemory/1024, s.KernelStart, s.KernelEnd, s.UserStart, s.TotalMemory)

	blocks := append([]mem.BlockInfo(nil), snap.Blocks...)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })

	fmt.Fprintf(p.w, "%-12s %-12s %10s  %-9s %s\n", "START", "END", "SIZE", "TAG", "OWNER")
	for _, b := range blocks {
		if b.Free && !p.opts.ShowFree {
			continue
		}
		owner := "-"
		if b.Owner != mem.NoProcess {
			owner = fmt.Sprintf("pid %d", b.Owner)
		}
		tag := b.Tag.String()
		if b.Free {
			tag = "free"
			owner = ""
		}
		fmt.Fprintf(p.w, "0x%08X   0x%08X   %10d  %-9s %s\n",
			b.Start, b.Start+b.Size, b.Size, tag, owner)
	}

	fmt.Fprintf(p.w, "used %d, available %d, allocs %d, releases %d, compactions %d\n",
		s.UsedMemory, s.AvailableMemory, s.AllocationCount, s.DeallocationCount, s.FragmentationCount)
	if p.opts.ShowPages {
		fmt.Fprintf(p.w, "pages %d/%d free\n", s.FreePages, s.TotalPages)
	}
	return nil
}

// processesText prints one row per active process slot.
func (p *Printer) processesText(infos []mem.ProcessInfo) error {
	fmt.Fprintf(p.w, "%-5s %-12s %-12s %-12s %12s %s\n",
		"PID", "CODE", "STACK", "HEAP", "REQUESTED", "BLOCKS")
	for _, pi := range infos {
		if !pi.Active {
			continue
		}
		fmt.Fprintf(p.w, "%-5d 0x%08X   0x%08X   0x%08X   %12d %d\n",
			pi.ID, pi.CodeStart, pi.StackStart, pi.HeapStart, pi.TotalAllocated, pi.LiveBlocks)
	}
	return nil
}
