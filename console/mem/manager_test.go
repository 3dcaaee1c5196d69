package mem

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestManager boots a 1 MiB console with the compact geometry
// (64 KiB kernel heap, 4 KiB stacks) used throughout these tests.
func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewWithConfig(1<<20, 0, ConfigCompact)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, m.Close())
	})
	return m
}

// assertInvariants checks the structural rules that must hold after any
// sequence of operations: spans partition the user region exactly, free
// space accounting is conserved, no two free blocks stay adjacent, and
// the lists agree with the counters.
func assertInvariants(t *testing.T, m *Manager) {
	t.Helper()
	s := m.Stats()
	blocks := m.Blocks()

	userSize := uint64(s.TotalMemory - s.UserStart)
	var freeSum, allocSum uint64
	for _, b := range blocks {
		require.GreaterOrEqual(t, b.Start, s.UserStart, "span below user region")
		require.LessOrEqual(t, uint64(b.Start)+uint64(b.Size), uint64(s.TotalMemory), "span past end")
		if b.Free {
			freeSum += uint64(b.Size)
		} else {
			allocSum += uint64(b.Size)
		}
	}

	// Conservation: available + allocated spans == user region, and the
	// free list carries exactly the available bytes.
	assert.Equal(t, userSize, uint64(s.AvailableMemory)+allocSum, "conservation violated")
	assert.Equal(t, uint64(s.AvailableMemory), freeSum, "free list does not match available")

	// Spans cover the user region with no overlap and no gaps.
	sorted := append([]BlockInfo(nil), blocks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	if len(sorted) > 0 {
		assert.Equal(t, s.UserStart, sorted[0].Start, "first span must start at user base")
		assert.Equal(t, uint64(s.TotalMemory), uint64(sorted[len(sorted)-1].Start)+uint64(sorted[len(sorted)-1].Size),
			"last span must end at the top of memory")
	}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		assert.Equal(t, prev.Start+prev.Size, cur.Start,
			"spans must tile: [%#x,+%d) then [%#x,+%d)", prev.Start, prev.Size, cur.Start, cur.Size)
		assert.False(t, prev.Free && cur.Free, "adjacent free blocks survived coalescing at %#x", cur.Start)
	}

	assert.LessOrEqual(t, s.FreePages, s.TotalPages)
}

func TestNew_PartitionsRegions(t *testing.T) {
	m, err := NewWithConfig(1<<20, 0, ConfigCompact)
	require.NoError(t, err)
	defer m.Close()

	s := m.Stats()
	assert.Equal(t, uint32(1<<20), s.TotalMemory)
	assert.Equal(t, uint32(0), s.KernelStart)
	assert.Equal(t, uint32(64<<10), s.KernelEnd)
	assert.Equal(t, uint32(64<<10), s.UserStart)
	assert.Equal(t, uint32(1<<20-64<<10), s.AvailableMemory, "available seeds to the user region size")
	assert.Equal(t, uint32(1<<20/4096), s.TotalPages)
	assert.Equal(t, s.TotalPages, s.FreePages)
	assert.Equal(t, 1, s.FreeBlocks, "user region starts as one free block")
	assert.Equal(t, 0, s.AllocatedBlocks)

	assertInvariants(t, m)
}

func TestNew_KernelBaseOffset(t *testing.T) {
	// The shipped console boots with the kernel at 1 MiB.
	m, err := New(128<<20, 1<<20)
	require.NoError(t, err)
	defer m.Close()

	s := m.Stats()
	assert.Equal(t, uint32(1<<20), s.KernelStart)
	assert.Equal(t, uint32(1<<20+8<<20), s.KernelEnd, "stock kernel heap is 8 MiB")
	assert.Equal(t, s.KernelEnd, s.UserStart)
	assertInvariants(t, m)
}

func TestNew_RejectsImpossibleRegions(t *testing.T) {
	_, err := New(0, 0)
	require.ErrorIs(t, err, ErrInvalidSize, "zero total")

	// Stock 8 MiB kernel heap cannot fit in 1 MiB.
	_, err = New(1<<20, 0)
	require.ErrorIs(t, err, ErrInvalidSize, "kernel heap past the end")

	// Kernel region consumes everything, empty user region.
	_, err = NewWithConfig(64<<10, 0, ConfigCompact)
	require.ErrorIs(t, err, ErrInvalidSize, "no user region left")

	// Kernel base so high the region wraps.
	_, err = NewWithConfig(1<<20, 0xFFFFF000, ConfigCompact)
	require.ErrorIs(t, err, ErrInvalidSize, "kernel region overflow")
}

func TestManager_ZeroValueRejected(t *testing.T) {
	var m Manager
	_, err := m.Allocate(16, 0, TagUser, NoProcess)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = m.AllocPage()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, m.Release(0), ErrNotInitialized)
	assert.ErrorIs(t, m.Compact(), ErrNotInitialized)
}

func TestManager_UseAfterClose(t *testing.T) {
	m, err := NewWithConfig(1<<20, 0, ConfigCompact)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	_, err = m.Allocate(16, 0, TagUser, NoProcess)
	assert.ErrorIs(t, err, ErrNotInitialized)

	// Double close is tolerated.
	assert.NoError(t, m.Close())
}

func TestBlocks_ListOrder(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Allocate(100, 0, TagUser, NoProcess)
	require.NoError(t, err)
	b, err := m.Allocate(200, 0, TagGame, NoProcess)
	require.NoError(t, err)

	blocks := m.Blocks()
	require.Len(t, blocks, 3)

	// Free list first (the remaining tail), then allocated in LIFO order.
	assert.True(t, blocks[0].Free)
	assert.Equal(t, b, blocks[1].Addr)
	assert.Equal(t, TagGame, blocks[1].Tag)
	assert.Equal(t, a, blocks[2].Addr)
	assert.Equal(t, TagUser, blocks[2].Tag)

	assertInvariants(t, m)
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "FREE", TagFree.String())
	assert.Equal(t, "GAME", TagGame.String())
	assert.Equal(t, "GRAPHICS", TagGraphics.String())
	assert.Equal(t, "TAG(99)", Tag(99).String())
}
