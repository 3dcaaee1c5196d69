package report

import (
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/joshuapare/consolekit/console/mem"
)

// jsonBlock represents one memory block in JSON output.
type jsonBlock struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
	Addr  uint32 `json:"addr,omitempty"`
	Size  uint32 `json:"size"`
	Tag   string `json:"tag"`
	Owner int32  `json:"owner,omitempty"`
	Free  bool   `json:"free"`
}

// jsonMap represents a whole snapshot in JSON output.
type jsonMap struct {
	TotalMemory     uint32      `json:"total_memory"`
	AvailableMemory uint32      `json:"available_memory"`
	UsedMemory      uint32      `json:"used_memory"`
	KernelStart     uint32      `json:"kernel_start"`
	KernelEnd       uint32      `json:"kernel_end"`
	UserStart       uint32      `json:"user_start"`
	Allocations     uint64      `json:"allocations"`
	Deallocations   uint64      `json:"deallocations"`
	Compactions     uint64      `json:"compactions"`
	TotalPages      uint32      `json:"total_pages"`
	FreePages       uint32      `json:"free_pages"`
	Blocks          []jsonBlock `json:"blocks"`
}

// jsonProcess represents one process slot in JSON output.
type jsonProcess struct {
	ID             int32  `json:"id"`
	CodeStart      uint32 `json:"code_start"`
	CodeSize       uint32 `json:"code_size"`
	StackStart     uint32 `json:"stack_start"`
	StackSize      uint32 `json:"stack_size"`
	HeapStart      uint32 `json:"heap_start"`
	HeapEnd        uint32 `json:"heap_end"`
	TotalAllocated uint64 `json:"total_allocated"`
	LiveBlocks     int    `json:"live_blocks"`
}

func (p *Printer) memoryMapJSON(snap mem.Snapshot) error {
	out := jsonMap{
		TotalMemory:     snap.Stats.TotalMemory,
		AvailableMemory: snap.Stats.AvailableMemory,
		UsedMemory:      snap.Stats.UsedMemory,
		KernelStart:     snap.Stats.KernelStart,
		KernelEnd:       snap.Stats.KernelEnd,
		UserStart:       snap.Stats.UserStart,
		Allocations:     snap.Stats.AllocationCount,
		Deallocations:   snap.Stats.DeallocationCount,
		Compactions:     snap.Stats.FragmentationCount,
		TotalPages:      snap.Stats.TotalPages,
		FreePages:       snap.Stats.FreePages,
	}

	blocks := append([]mem.BlockInfo(nil), snap.Blocks...)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })
	for _, b := range blocks {
		if b.Free && !p.opts.ShowFree {
			continue
		}
		jb := jsonBlock{
			Start: b.Start,
			End:   b.Start + b.Size,
			Size:  b.Size,
			Tag:   b.Tag.String(),
			Free:  b.Free,
		}
		if !b.Free {
			jb.Addr = b.Addr
			jb.Owner = int32(b.Owner)
		}
		out.Blocks = append(out.Blocks, jb)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.w, "%s\n", data)
	return err
}

func (p *Printer) processesJSON(infos []mem.ProcessInfo) error {
	out := make([]jsonProcess, 0, len(infos))
	for _, pi := range infos {
		if !pi.Active {
			continue
		}
		out = append(out, jsonProcess{
			ID:             int32(pi.ID),
			CodeStart:      pi.CodeStart,
			CodeSize:       pi.CodeSize,
			StackStart:     pi.StackStart,
			StackSize:      pi.StackSize,
			HeapStart:      pi.HeapStart,
			HeapEnd:        pi.HeapEnd,
			TotalAllocated: pi.TotalAllocated,
			LiveBlocks:     pi.LiveBlocks,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.w, "%s\n", data)
	return err
}
