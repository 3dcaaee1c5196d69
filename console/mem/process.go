package mem

import "github.com/joshuapare/consolekit/internal/layout"

// ProcessCreate activates a slot in the process table and gives it a code
// block of codeSize bytes plus a stack block of the configured stack size,
// both tagged TagUser and owned by pid. If the stack cannot be allocated
// the code block is rolled back and nothing changes.
func (m *Manager) ProcessCreate(pid ProcessID, codeSize uint32) error {
	if !m.initialized {
		return ErrNotInitialized
	}
	if pid < 0 || pid >= layout.MaxProcesses {
		return ErrBadProcessID
	}
	if m.procs[pid].active {
		return ErrProcessActive
	}
	if codeSize == 0 {
		return ErrZeroSize
	}

	code, err := m.allocate(codeSize, 0, TagUser, pid)
	if err != nil {
		return err
	}
	stack, err := m.allocate(m.cfg.StackSize, 0, TagUser, pid)
	if err != nil {
		m.releaseHandle(code)
		return err
	}

	codeAddr := m.arena[code].userAddr()
	m.procs[pid] = procContext{
		active:     true,
		codeStart:  codeAddr,
		codeSize:   codeSize,
		stackStart: m.arena[stack].userAddr(),
		stackSize:  m.cfg.StackSize,
		heapStart:  codeAddr + codeSize,
		heapEnd:    codeAddr + codeSize,
	}
	m.activeProcs++
	return nil
}

// ProcessDestroy releases every allocated block owned by pid and clears
// the slot.
func (m *Manager) ProcessDestroy(pid ProcessID) error {
	if !m.initialized {
		return ErrNotInitialized
	}
	if pid < 0 || pid >= layout.MaxProcesses || !m.procs[pid].active {
		return ErrUnknownProcess
	}

	// Capture each successor before releasing: releaseHandle unlinks the
	// current node and may recycle free-list records, never other
	// allocated nodes.
	h := m.allocHead
	for h != nilHandle {
		next := m.arena[h].next
		if m.arena[h].owner == pid {
			m.releaseHandle(h)
		}
		h = next
	}

	m.procs[pid] = procContext{}
	m.activeProcs--
	return nil
}

// ProcessAlloc claims size bytes for pid's heap and adds the request to
// the context's cumulative counter.
func (m *Manager) ProcessAlloc(pid ProcessID, size uint32) (Address, error) {
	if !m.initialized {
		return 0, ErrNotInitialized
	}
	if pid < 0 || pid >= layout.MaxProcesses || !m.procs[pid].active {
		return 0, ErrUnknownProcess
	}
	h, err := m.allocate(size, 0, TagUser, pid)
	if err != nil {
		return 0, err
	}
	m.procs[pid].totalAllocated += uint64(size)
	return m.arena[h].userAddr(), nil
}

// ProcessFree releases the block at addr, which must be owned by pid.
func (m *Manager) ProcessFree(pid ProcessID, addr Address) error {
	if !m.initialized {
		return ErrNotInitialized
	}
	if pid < 0 || pid >= layout.MaxProcesses || !m.procs[pid].active {
		return ErrUnknownProcess
	}
	h := m.findAllocated(addr)
	if h == nilHandle || m.arena[h].owner != pid {
		return ErrUnknownAddress
	}
	m.releaseHandle(h)
	return nil
}

// Process reports one slot of the process table.
func (m *Manager) Process(pid ProcessID) (ProcessInfo, error) {
	if pid < 0 || pid >= layout.MaxProcesses {
		return ProcessInfo{}, ErrBadProcessID
	}
	p := &m.procs[pid]
	info := ProcessInfo{
		ID:             pid,
		Active:         p.active,
		CodeStart:      p.codeStart,
		CodeSize:       p.codeSize,
		StackStart:     p.stackStart,
		StackSize:      p.stackSize,
		HeapStart:      p.heapStart,
		HeapEnd:        p.heapEnd,
		TotalAllocated: p.totalAllocated,
	}
	for h := m.allocHead; h != nilHandle; h = m.arena[h].next {
		if m.arena[h].owner == pid {
			info.LiveBlocks++
		}
	}
	return info, nil
}
