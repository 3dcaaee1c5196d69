package mem

// View returns the payload bytes [addr, addr+size) of a live allocated
// block. The range must sit inside a single block's usable span, from its
// user address to its end. The returned slice aliases the backing buffer
// and goes stale on Compact, the same way the address does.
func (m *Manager) View(addr Address, size uint32) ([]byte, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	for h := m.allocHead; h != nilHandle; h = m.arena[h].next {
		b := &m.arena[h]
		if addr < b.userAddr() || addr >= b.end() {
			continue
		}
		if uint64(addr)+uint64(size) > uint64(b.end()) {
			return nil, ErrUnknownAddress
		}
		return m.data[addr : addr+size], nil
	}
	return nil, ErrUnknownAddress
}

// Write copies p into a live allocated block at addr.
func (m *Manager) Write(addr Address, p []byte) error {
	dst, err := m.View(addr, uint32(len(p)))
	if err != nil {
		return err
	}
	copy(dst, p)
	return nil
}

// Read copies len(p) bytes out of a live allocated block at addr.
func (m *Manager) Read(addr Address, p []byte) error {
	src, err := m.View(addr, uint32(len(p)))
	if err != nil {
		return err
	}
	copy(p, src)
	return nil
}
