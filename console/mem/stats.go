package mem

// Stats summarizes the manager: geometry, counters, list and frame
// occupancy.
func (m *Manager) Stats() Stats {
	s := Stats{
		TotalMemory:        m.totalMemory,
		AvailableMemory:    m.available,
		KernelStart:        m.kernelStart,
		KernelEnd:          m.kernelEnd,
		UserStart:          m.userStart,
		AllocationCount:    m.allocCount,
		DeallocationCount:  m.freeCount,
		FragmentationCount: m.fragCount,
		TotalPages:         uint32(len(m.frames)),
		FreePages:          m.freePages,
		ActiveProcesses:    m.activeProcs,
	}
	for h := m.freeHead; h != nilHandle; h = m.arena[h].next {
		s.FreeBlocks++
	}
	for h := m.allocHead; h != nilHandle; h = m.arena[h].next {
		s.AllocatedBlocks++
		s.UsedMemory += m.arena[h].size
	}
	return s
}

// Blocks snapshots every live descriptor: free list first, then allocated
// list, each in list order.
func (m *Manager) Blocks() []BlockInfo {
	var out []BlockInfo
	for h := m.freeHead; h != nilHandle; h = m.arena[h].next {
		out = append(out, m.blockInfo(h))
	}
	for h := m.allocHead; h != nilHandle; h = m.arena[h].next {
		out = append(out, m.blockInfo(h))
	}
	return out
}

func (m *Manager) blockInfo(h handle) BlockInfo {
	b := &m.arena[h]
	return BlockInfo{
		Start: b.start,
		Addr:  b.userAddr(),
		Size:  b.size,
		Tag:   b.tag,
		Owner: b.owner,
		Free:  b.free,
	}
}

// Processes returns info for every active slot of the process table,
// in pid order.
func (m *Manager) Processes() []ProcessInfo {
	var out []ProcessInfo
	for pid := range m.procs {
		if !m.procs[pid].active {
			continue
		}
		info, err := m.Process(ProcessID(pid))
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out
}

// Snapshot captures stats and blocks together for checkers and renderers.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Stats:  m.Stats(),
		Blocks: m.Blocks(),
	}
}
