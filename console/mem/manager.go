package mem

import (
	"fmt"

	"github.com/joshuapare/consolekit/internal/layout"
	"github.com/joshuapare/consolekit/internal/membuf"
)

// Manager owns one console's simulated physical space: the kernel and user
// regions, the block descriptor arena, the page-frame table, and the
// process contexts. A Manager is not safe for concurrent use.
type Manager struct {
	cfg Config

	// Simulated physical space. Addresses index this buffer directly.
	data    []byte
	release func() error

	// Region geometry, fixed at init.
	totalMemory uint32
	kernelStart uint32
	kernelEnd   uint32
	userStart   uint32

	// Descriptor arena. Records are addressed by handle; slotFree chains
	// recycled records through next.
	arena     []blockDesc
	slotFree  handle
	freeHead  handle
	allocHead handle

	// Block accounting.
	available  uint32
	allocCount uint64
	freeCount  uint64
	fragCount  uint64

	// Page frames, parallel to the block lists. frames[i] true = in use.
	frames    []bool
	freePages uint32

	procs       [layout.MaxProcesses]procContext
	activeProcs int

	initialized bool
}

// New boots a manager over totalMemory bytes with the stock configuration.
// The kernel region starts at kernelStart and the user region fills the
// remainder; see NewWithConfig for the geometry knobs.
func New(totalMemory, kernelStart uint32) (*Manager, error) {
	return NewWithConfig(totalMemory, kernelStart, DefaultConfig)
}

// NewWithConfig boots a manager with explicit geometry. It fails with
// ErrInvalidSize when the regions cannot fit: zero total memory, a kernel
// region that overflows or reaches past the end, or an empty user region.
func NewWithConfig(totalMemory, kernelStart uint32, cfg Config) (*Manager, error) {
	cfg = cfg.normalize()

	if totalMemory == 0 {
		return nil, fmt.Errorf("%w: zero total memory", ErrInvalidSize)
	}
	kernelEnd := kernelStart + cfg.KernelHeapSize
	if kernelEnd < kernelStart {
		return nil, fmt.Errorf("%w: kernel region overflows", ErrInvalidSize)
	}
	if kernelEnd >= totalMemory {
		return nil, fmt.Errorf("%w: kernel region [%#x,%#x) leaves no user region in %d bytes",
			ErrInvalidSize, kernelStart, kernelEnd, totalMemory)
	}

	data, release, err := membuf.Map(int(totalMemory))
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:         cfg,
		data:        data,
		release:     release,
		totalMemory: totalMemory,
		kernelStart: kernelStart,
		kernelEnd:   kernelEnd,
		userStart:   kernelEnd,
		slotFree:    nilHandle,
		freeHead:    nilHandle,
		allocHead:   nilHandle,
		frames:      make([]bool, totalMemory/layout.PageSize),
		initialized: true,
	}
	m.freePages = uint32(len(m.frames))
	m.available = totalMemory - kernelEnd

	// The user region starts life as one free block.
	h := m.newDesc()
	b := &m.arena[h]
	b.start = m.userStart
	b.size = m.available
	b.free = true
	m.pushFree(h)

	return m, nil
}

// Close releases the backing buffer. The manager must not be used after.
func (m *Manager) Close() error {
	m.initialized = false
	m.data = nil
	if m.release == nil {
		return nil
	}
	release := m.release
	m.release = nil
	return release()
}

// Config returns the geometry the manager was booted with.
func (m *Manager) Config() Config {
	return m.cfg
}

// newDesc returns a zeroed descriptor record, recycling a slot when one
// is available.
func (m *Manager) newDesc() handle {
	if m.slotFree != nilHandle {
		h := m.slotFree
		m.slotFree = m.arena[h].next
		m.arena[h] = blockDesc{prev: nilHandle, next: nilHandle}
		return h
	}
	m.arena = append(m.arena, blockDesc{prev: nilHandle, next: nilHandle})
	return handle(len(m.arena) - 1)
}

// recycleDesc returns a detached record to the slot free-list.
func (m *Manager) recycleDesc(h handle) {
	m.arena[h] = blockDesc{prev: nilHandle, next: m.slotFree}
	m.slotFree = h
}

// pushFree links h at the head of the free list.
func (m *Manager) pushFree(h handle) {
	b := &m.arena[h]
	b.prev = nilHandle
	b.next = m.freeHead
	if m.freeHead != nilHandle {
		m.arena[m.freeHead].prev = h
	}
	m.freeHead = h
}

// pushAlloc links h at the head of the allocated list.
func (m *Manager) pushAlloc(h handle) {
	b := &m.arena[h]
	b.prev = nilHandle
	b.next = m.allocHead
	if m.allocHead != nilHandle {
		m.arena[m.allocHead].prev = h
	}
	m.allocHead = h
}

// unlink detaches h from whichever of the two lists holds it.
func (m *Manager) unlink(h handle) {
	b := &m.arena[h]
	if b.prev != nilHandle {
		m.arena[b.prev].next = b.next
	} else if m.freeHead == h {
		m.freeHead = b.next
	} else if m.allocHead == h {
		m.allocHead = b.next
	}
	if b.next != nilHandle {
		m.arena[b.next].prev = b.prev
	}
	b.prev = nilHandle
	b.next = nilHandle
}

// replaceInList puts repl into old's position in the free list.
func (m *Manager) replaceInList(old, repl handle) {
	ob := &m.arena[old]
	rb := &m.arena[repl]
	rb.prev = ob.prev
	rb.next = ob.next
	if ob.prev != nilHandle {
		m.arena[ob.prev].next = repl
	} else if m.freeHead == old {
		m.freeHead = repl
	}
	if ob.next != nilHandle {
		m.arena[ob.next].prev = repl
	}
	ob.prev = nilHandle
	ob.next = nilHandle
}
