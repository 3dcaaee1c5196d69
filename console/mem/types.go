package mem

import "fmt"

// Address is an offset into the console's simulated physical space.
type Address = uint32

// ProcessID identifies a slot in the fixed process table.
type ProcessID int32

// NoProcess marks a block with no owning process.
const NoProcess ProcessID = -1

// Tag describes what a block of memory is used for. Values match the
// console's historical type codes; reports and saves rely on them.
type Tag uint8

const (
	TagFree     Tag = 0
	TagKernel   Tag = 1
	TagUser     Tag = 2
	TagGame     Tag = 3
	TagGraphics Tag = 4
	TagAudio    Tag = 5
	TagReserved Tag = 6
)

var tagNames = map[Tag]string{
	TagFree:     "FREE",
	TagKernel:   "KERNEL",
	TagUser:     "USER",
	TagGame:     "GAME",
	TagGraphics: "GRAPHICS",
	TagAudio:    "AUDIO",
	TagReserved: "RESERVED",
}

// String returns the report form of the tag.
func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TAG(%d)", uint8(t))
}

// handle indexes a descriptor record in the arena. Descriptors live in a
// slice owned by the manager, never inside the managed space itself, so a
// corrupted or stale payload can never corrupt allocator state.
type handle = int32

// nilHandle is the list terminator.
const nilHandle handle = -1

// blockDesc is one descriptor record. Free and allocated descriptors live
// on intrusive doubly-linked lists threaded through prev/next; recycled
// records are chained through next on the slot free-list.
type blockDesc struct {
	start   uint32 // span start address
	size    uint32 // span size in bytes, alignment padding included
	userOff uint32 // user address = start + userOff
	tag     Tag
	owner   ProcessID
	free    bool
	prev    handle
	next    handle
}

// userAddr returns the address handed to the caller at allocation time.
func (b *blockDesc) userAddr() uint32 {
	return b.start + b.userOff
}

// end returns the first address past the span.
func (b *blockDesc) end() uint32 {
	return b.start + b.size
}

// BlockInfo is a point-in-time view of one descriptor.
type BlockInfo struct {
	Start Address
	Addr  Address // address returned to the caller (Start plus padding)
	Size  uint32
	Tag   Tag
	Owner ProcessID
	Free  bool
}

// ProcessInfo is a point-in-time view of one process context.
type ProcessInfo struct {
	ID             ProcessID
	Active         bool
	CodeStart      Address
	CodeSize       uint32
	StackStart     Address
	StackSize      uint32
	HeapStart      Address
	HeapEnd        Address
	TotalAllocated uint64 // cumulative bytes requested over the context's life
	LiveBlocks     int
}

// Stats is a point-in-time summary of the whole manager.
type Stats struct {
	TotalMemory     uint32
	AvailableMemory uint32
	UsedMemory      uint32
	KernelStart     Address
	KernelEnd       Address
	UserStart       Address

	AllocationCount    uint64
	DeallocationCount  uint64
	FragmentationCount uint64

	TotalPages uint32
	FreePages  uint32

	ActiveProcesses int
	FreeBlocks      int
	AllocatedBlocks int
}

// Snapshot carries everything an external checker or renderer needs:
// region geometry, counters, and the live descriptors in list order
// (free list first, then allocated list).
type Snapshot struct {
	Stats  Stats
	Blocks []BlockInfo
}

// procContext is one slot of the process table.
type procContext struct {
	active         bool
	codeStart      uint32
	codeSize       uint32
	stackStart     uint32
	stackSize      uint32
	heapStart      uint32
	heapEnd        uint32
	totalAllocated uint64
}
