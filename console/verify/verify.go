// Package verify provides validation functions for console memory state.
// These helpers are used in tests and the CLI to ensure manager invariants
// are maintained.
package verify

import (
	"fmt"
	"sort"

	"github.com/joshuapare/consolekit/console/mem"
)

// Error types for different validation failures.
type ValidationError struct {
	Type    string
	Message string
	Address int64
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Address >= 0 {
		return fmt.Sprintf("%s at address 0x%X: %s", e.Type, e.Address, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all manager invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(snap mem.Snapshot) error {
	if err := Conservation(snap); err != nil {
		return err
	}
	if err := SpanTiling(snap); err != nil {
		return err
	}
	if err := CoalescingClosure(snap); err != nil {
		return err
	}
	if err := ListAccounting(snap); err != nil {
		return err
	}
	if err := PageCounters(snap); err != nil {
		return err
	}
	return nil
}

// Conservation checks that available memory plus all allocated spans
// equals the user-region size, and that the free list carries exactly
// the available bytes.
func Conservation(snap mem.Snapshot) error {
	userSize := uint64(snap.Stats.TotalMemory - snap.Stats.UserStart)
	var freeSum, allocSum uint64
	for _, b := range snap.Blocks {
		if b.Free {
			freeSum += uint64(b.Size)
		} else {
			allocSum += uint64(b.Size)
		}
	}
	if got := uint64(snap.Stats.AvailableMemory) + allocSum; got != userSize {
		return &ValidationError{
			Type:    "Conservation",
			Message: fmt.Sprintf("available+allocated = %d, user region = %d", got, userSize),
			Address: -1,
			Details: map[string]interface{}{
				"available": snap.Stats.AvailableMemory,
				"allocated": allocSum,
			},
		}
	}
	if freeSum != uint64(snap.Stats.AvailableMemory) {
		return &ValidationError{
			Type:    "Conservation",
			Message: fmt.Sprintf("free spans sum to %d, available reports %d", freeSum, snap.Stats.AvailableMemory),
			Address: -1,
		}
	}
	return nil
}

// SpanTiling checks that descriptors tile the user region exactly: no
// overlap, no gaps, nothing outside the region.
func SpanTiling(snap mem.Snapshot) error {
	blocks := append([]mem.BlockInfo(nil), snap.Blocks...)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })

	if len(blocks) == 0 {
		if snap.Stats.UserStart < snap.Stats.TotalMemory {
			return &ValidationError{
				Type:    "SpanTiling",
				Message: "no descriptors cover the user region",
				Address: int64(snap.Stats.UserStart),
			}
		}
		return nil
	}

	if blocks[0].Start != snap.Stats.UserStart {
		return &ValidationError{
			Type:    "SpanTiling",
			Message: fmt.Sprintf("first span starts at 0x%X, user region at 0x%X", blocks[0].Start, snap.Stats.UserStart),
			Address: int64(blocks[0].Start),
		}
	}
	for i := 1; i < len(blocks); i++ {
		prevEnd := uint64(blocks[i-1].Start) + uint64(blocks[i-1].Size)
		if prevEnd != uint64(blocks[i].Start) {
			kind := "gap"
			if prevEnd > uint64(blocks[i].Start) {
				kind = "overlap"
			}
			return &ValidationError{
				Type:    "SpanTiling",
				Message: fmt.Sprintf("%s between span ending 0x%X and span starting 0x%X", kind, prevEnd, blocks[i].Start),
				Address: int64(blocks[i].Start),
			}
		}
	}
	last := blocks[len(blocks)-1]
	if end := uint64(last.Start) + uint64(last.Size); end != uint64(snap.Stats.TotalMemory) {
		return &ValidationError{
			Type:    "SpanTiling",
			Message: fmt.Sprintf("last span ends at 0x%X, memory ends at 0x%X", end, snap.Stats.TotalMemory),
			Address: int64(last.Start),
		}
	}
	return nil
}

// CoalescingClosure checks that no two free blocks are address-adjacent.
func CoalescingClosure(snap mem.Snapshot) error {
	blocks := append([]mem.BlockInfo(nil), snap.Blocks...)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })
	for i := 1; i < len(blocks); i++ {
		if blocks[i-1].Free && blocks[i].Free &&
			blocks[i-1].Start+blocks[i-1].Size == blocks[i].Start {
			return &ValidationError{
				Type:    "CoalescingClosure",
				Message: "adjacent free blocks survived coalescing",
				Address: int64(blocks[i].Start),
			}
		}
	}
	return nil
}

// ListAccounting checks that the stats counters agree with the snapshot's
// block list.
func ListAccounting(snap mem.Snapshot) error {
	var free, allocated int
	var used uint64
	for _, b := range snap.Blocks {
		if b.Free {
			free++
		} else {
			allocated++
			used += uint64(b.Size)
		}
	}
	if free != snap.Stats.FreeBlocks || allocated != snap.Stats.AllocatedBlocks {
		return &ValidationError{
			Type: "ListAccounting",
			Message: fmt.Sprintf("stats report %d free / %d allocated, lists hold %d / %d",
				snap.Stats.FreeBlocks, snap.Stats.AllocatedBlocks, free, allocated),
			Address: -1,
		}
	}
	if used != uint64(snap.Stats.UsedMemory) {
		return &ValidationError{
			Type:    "ListAccounting",
			Message: fmt.Sprintf("stats report %d used bytes, allocated spans sum to %d", snap.Stats.UsedMemory, used),
			Address: -1,
		}
	}
	return nil
}

// PageCounters checks the frame-table counters stay inside the table.
func PageCounters(snap mem.Snapshot) error {
	if snap.Stats.FreePages > snap.Stats.TotalPages {
		return &ValidationError{
			Type:    "PageCounters",
			Message: fmt.Sprintf("%d free pages of %d total", snap.Stats.FreePages, snap.Stats.TotalPages),
			Address: -1,
		}
	}
	return nil
}
