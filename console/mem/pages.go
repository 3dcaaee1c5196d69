package mem

import "github.com/joshuapare/consolekit/internal/layout"

// AllocPage claims the lowest free page frame and returns its base
// address. The frame table spans the whole physical space and is tracked
// independently of the block lists; neither consults the other.
func (m *Manager) AllocPage() (Address, error) {
	if !m.initialized {
		return 0, ErrNotInitialized
	}
	for i, used := range m.frames {
		if !used {
			m.frames[i] = true
			m.freePages--
			return uint32(i) * layout.PageSize, nil
		}
	}
	return 0, ErrOutOfMemory
}

// FreePage releases the frame containing addr. Addresses inside a frame
// round down to its base. The call is deliberately permissive: an address
// outside the frame table or a frame that is already free is ignored
// without any signal, so callers get no report of double or wild frees.
func (m *Manager) FreePage(addr Address) {
	if !m.initialized {
		return
	}
	idx := layout.PageIndex(addr)
	if int(idx) >= len(m.frames) || !m.frames[idx] {
		return
	}
	m.frames[idx] = false
	m.freePages++
}

// PageInUse reports whether the frame containing addr is claimed.
func (m *Manager) PageInUse(addr Address) bool {
	idx := layout.PageIndex(addr)
	return int(idx) < len(m.frames) && m.frames[idx]
}
