package mem

import "sort"

// Compact relocates every allocated block down toward the user-region
// base, packing them contiguously, and rebuilds the free list as a single
// block covering the tail. Payload bytes move with their blocks.
//
// Every address returned before the call is invalid afterwards: the blocks
// live at new addresses, and a stale address passed to Release or View
// fails with ErrUnknownAddress. Callers re-query via Blocks or Process.
// Alignment stricter than the default is not preserved by relocation.
func (m *Manager) Compact() error {
	if !m.initialized {
		return ErrNotInitialized
	}

	// Move in ascending span order so the packing cursor can never
	// overtake an unmoved source span.
	order := make([]handle, 0, 16)
	for h := m.allocHead; h != nilHandle; h = m.arena[h].next {
		order = append(order, h)
	}
	sort.Slice(order, func(i, j int) bool {
		return m.arena[order[i]].start < m.arena[order[j]].start
	})

	cursor := m.userStart
	for _, h := range order {
		b := &m.arena[h]
		if b.start != cursor {
			oldUser := b.userAddr()
			copy(m.data[cursor:cursor+b.size], m.data[b.start:b.start+b.size])
			b.start = cursor
			m.rebindProcess(b, oldUser)
		}
		cursor += b.size
	}

	// All prior free blocks collapse into one tail block.
	for m.freeHead != nilHandle {
		h := m.freeHead
		m.unlink(h)
		m.recycleDesc(h)
	}
	if cursor < m.totalMemory {
		h := m.newDesc()
		b := &m.arena[h]
		b.start = cursor
		b.size = m.totalMemory - cursor
		b.free = true
		m.pushFree(h)
	}

	m.fragCount++
	return nil
}

// rebindProcess refreshes the owning context's code/stack spans when one
// of them just moved, so Process reports live addresses after a compact.
func (m *Manager) rebindProcess(b *blockDesc, oldUser uint32) {
	if b.owner < 0 || !m.procs[b.owner].active {
		return
	}
	p := &m.procs[b.owner]
	switch oldUser {
	case p.codeStart:
		p.codeStart = b.userAddr()
		heapLen := p.heapEnd - p.heapStart
		p.heapStart = p.codeStart + p.codeSize
		p.heapEnd = p.heapStart + heapLen
	case p.stackStart:
		p.stackStart = b.userAddr()
	}
}
