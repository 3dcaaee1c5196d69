package mem

import "github.com/joshuapare/consolekit/internal/layout"

// Allocate claims size bytes from the user region and returns the block's
// address, aligned to align (0 means the default alignment of 4). The tag
// records what the block is for; owner ties it to a process slot, or
// NoProcess.
//
// Selection is best-fit: the free block with the smallest span that can
// hold the padded request wins, ties going to the earliest block in free
// list order. When the leftover of the chosen span exceeds the configured
// minimum it is split off as a new free block; otherwise the whole span is
// consumed.
//
// When no free block fits, the manager compacts once and retries once
// before reporting ErrOutOfMemory. The fallback carries Compact's address
// invalidation: a failed Allocate can still have moved every live block.
func (m *Manager) Allocate(size, align uint32, tag Tag, owner ProcessID) (Address, error) {
	h, err := m.allocate(size, align, tag, owner)
	if err != nil {
		return 0, err
	}
	return m.arena[h].userAddr(), nil
}

// allocate is Allocate returning the descriptor handle.
func (m *Manager) allocate(size, align uint32, tag Tag, owner ProcessID) (handle, error) {
	if !m.initialized {
		return nilHandle, ErrNotInitialized
	}
	if size == 0 {
		return nilHandle, ErrZeroSize
	}
	if align == 0 {
		align = layout.DefaultAlign
	}
	if !layout.IsPow2(align) {
		return nilHandle, ErrBadAlign
	}
	if owner != NoProcess && (owner < 0 || owner >= layout.MaxProcesses) {
		return nilHandle, ErrBadProcessID
	}

	best, bestPad := m.findBestFit(size, align)
	if best == nilHandle {
		// The free bytes may exist but be scattered. Compact once and
		// retry once; a second miss is a genuine exhaustion.
		if err := m.Compact(); err != nil {
			return nilHandle, err
		}
		best, bestPad = m.findBestFit(size, align)
	}
	if best == nilHandle {
		return nilHandle, ErrOutOfMemory
	}

	b := &m.arena[best]
	used := bestPad + size

	if rem := b.size - used; rem > m.cfg.MinSplitRemainder {
		// Carve the tail into a new free block occupying the chosen
		// block's place in the free list.
		tail := m.newDesc()
		tb := &m.arena[tail]
		b = &m.arena[best] // newDesc may have grown the arena
		tb.start = b.start + used
		tb.size = rem
		tb.free = true
		m.replaceInList(best, tail)
		b.size = used
	} else {
		m.unlink(best)
	}

	b.free = false
	b.tag = tag
	b.owner = owner
	b.userOff = bestPad
	m.pushAlloc(best)

	m.available -= b.size
	m.allocCount++
	return best, nil
}

// findBestFit walks the free list and returns the handle of the smallest
// span that can hold size bytes at the requested alignment, along with the
// padding the span needs. Returns nilHandle when nothing fits.
func (m *Manager) findBestFit(size, align uint32) (handle, uint32) {
	best := nilHandle
	var bestPad uint32
	for h := m.freeHead; h != nilHandle; h = m.arena[h].next {
		b := &m.arena[h]
		aligned := layout.AlignUp(b.start, align)
		if aligned < b.start {
			continue // alignment wrapped the address space
		}
		pad := aligned - b.start
		if uint64(size)+uint64(pad) > uint64(b.size) {
			continue
		}
		if best == nilHandle || b.size < m.arena[best].size {
			best = h
			bestPad = pad
		}
	}
	return best, bestPad
}
