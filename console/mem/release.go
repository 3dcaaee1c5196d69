package mem

// Release returns the block at addr to the free list and merges any
// neighbours that become adjacent. addr must be an address returned by
// Allocate (or ProcessAlloc) that has not been released or invalidated by
// Compact; anything else fails with ErrUnknownAddress.
func (m *Manager) Release(addr Address) error {
	if !m.initialized {
		return ErrNotInitialized
	}
	h := m.findAllocated(addr)
	if h == nilHandle {
		return ErrUnknownAddress
	}
	m.releaseHandle(h)
	return nil
}

// findAllocated walks the allocated list for the block whose user address
// is addr.
func (m *Manager) findAllocated(addr Address) handle {
	for h := m.allocHead; h != nilHandle; h = m.arena[h].next {
		if m.arena[h].userAddr() == addr {
			return h
		}
	}
	return nilHandle
}

// releaseHandle detaches an allocated descriptor, resets it, reenters it
// at the free list head, and coalesces.
func (m *Manager) releaseHandle(h handle) {
	m.unlink(h)
	b := &m.arena[h]
	m.available += b.size
	b.free = true
	b.tag = TagFree
	b.owner = NoProcess
	b.userOff = 0
	m.pushFree(h)
	m.freeCount++
	m.coalesce()
}

// coalesce merges address-adjacent free blocks until none remain.
// The sweep restarts after every merge.
func (m *Manager) coalesce() {
	for merged := true; merged; {
		merged = false
	scan:
		for a := m.freeHead; a != nilHandle; a = m.arena[a].next {
			for b := m.freeHead; b != nilHandle; b = m.arena[b].next {
				if a == b {
					continue
				}
				if m.arena[a].end() == m.arena[b].start {
					m.arena[a].size += m.arena[b].size
					m.unlink(b)
					m.recycleDesc(b)
					merged = true
					break scan
				}
			}
		}
	}
}
