// Package mem implements the console's memory manager: a simulated flat
// physical space split into kernel and user regions, a best-fit block
// allocator with splitting and coalescing, a compactor, a page-frame
// allocator, and per-process memory contexts.
//
// # Overview
//
// A Manager owns one console's memory. New partitions the space at boot:
// a kernel region of configurable size at the kernel base, and a user
// region filling the remainder, seeded as one free block. Addresses are
// uint32 offsets into the space, and the space is a real buffer, so block
// payloads survive compaction moves and can be read and written through
// View.
//
// # Descriptors
//
// Block descriptors live in an arena owned by the manager and are
// addressed by integer handles; nothing about a block is stored inside
// the managed space. Free and allocated blocks form intrusive doubly
// linked lists threaded through descriptor indexes. A descriptor records
// its span (start and size, alignment padding included) separately from
// the user address handed to the caller, so spans stay disjoint and
// accounting stays exact whatever the requested alignment.
//
// # Allocation
//
// Allocate is best-fit: the free block with the smallest sufficient span
// wins, ties going to free-list order. Leftovers above the configured
// minimum split into new free blocks; smaller leftovers ride along as
// internal fragmentation. Release coalesces adjacent free blocks until
// none remain. Compact packs all live blocks against the user-region
// base and rebuilds the free list as one tail block; every previously
// returned address is invalidated.
//
// The conservation rule holds at every step: AvailableMemory plus the
// spans of all allocated blocks equals the user-region size.
//
// # Page Frames
//
// Alongside the block lists, the whole space is divided into 4 KiB page
// frames claimed first-fit by AllocPage. The two allocators are
// independent: neither consults the other, and the frame table is the
// only record of page ownership. FreePage is permissive and silently
// ignores frees of invalid or already-free frames.
//
// # Processes
//
// A fixed table of 64 process contexts ties blocks to owners. Creating a
// process allocates its code and stack blocks; destroying it releases
// every block it owns. Every operation names the process id explicitly.
//
// # Usage Example
//
//	m, err := mem.New(64<<20, 0)
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	addr, err := m.Allocate(4096, 16, mem.TagGame, mem.NoProcess)
//	if err != nil {
//	    return err
//	}
//	// ... use m.Write/m.Read/m.View with addr ...
//	err = m.Release(addr)
//
// # Thread Safety
//
// Manager instances are not thread-safe. Callers must synchronize access
// externally.
package mem
