package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustAlloc is shorthand for allocations the test scenario requires.
func mustAlloc(t *testing.T, m *Manager, size, align uint32, tag Tag) Address {
	t.Helper()
	addr, err := m.Allocate(size, align, tag, NoProcess)
	require.NoError(t, err)
	return addr
}

func TestAllocate_FirstBlockAtUserBase(t *testing.T) {
	m := newTestManager(t)

	addr := mustAlloc(t, m, 100, 0, TagUser)
	assert.Equal(t, m.Stats().UserStart, addr, "first allocation starts the user region")

	s := m.Stats()
	assert.Equal(t, uint32(983040-100), s.AvailableMemory)
	assert.Equal(t, uint64(1), s.AllocationCount)
	assert.Equal(t, 1, s.AllocatedBlocks)
	assertInvariants(t, m)
}

// TestBestFit_PicksSmallestBlock carves free spans of 100, 50, and 200
// bytes (kept apart by small live guards) and verifies a 40-byte request
// lands in the 50-byte span, not the first or largest fit.
func TestBestFit_PicksSmallestBlock(t *testing.T) {
	m := newTestManager(t)

	a := mustAlloc(t, m, 100, 0, TagUser)
	mustAlloc(t, m, 8, 0, TagUser) // guard
	b := mustAlloc(t, m, 50, 0, TagUser)
	mustAlloc(t, m, 8, 0, TagUser) // guard
	c := mustAlloc(t, m, 200, 0, TagUser)
	mustAlloc(t, m, 8, 0, TagUser) // guard

	require.NoError(t, m.Release(a))
	require.NoError(t, m.Release(b))
	require.NoError(t, m.Release(c))

	got, err := m.Allocate(40, 0, TagUser, NoProcess)
	require.NoError(t, err)
	assert.Equal(t, b, got, "best fit should reuse the 50-byte span")

	// 40 into 50 leaves 10, below the split minimum: the block keeps
	// the whole span.
	var found bool
	for _, blk := range m.Blocks() {
		if !blk.Free && blk.Addr == got {
			found = true
			assert.Equal(t, uint32(50), blk.Size, "remainder is absorbed, not split")
		}
	}
	require.True(t, found)

	// The 100 and 200 byte spans are still free.
	var freeSizes []uint32
	for _, blk := range m.Blocks() {
		if blk.Free && blk.Size <= 200 {
			freeSizes = append(freeSizes, blk.Size)
		}
	}
	assert.ElementsMatch(t, []uint32{100, 200}, freeSizes)

	assertInvariants(t, m)
}

func TestAllocate_SplitsLargeBlock(t *testing.T) {
	m := newTestManager(t)
	base := m.Stats().UserStart

	addr := mustAlloc(t, m, 100, 0, TagGame)
	assert.Equal(t, base, addr)

	blocks := m.Blocks()
	require.Len(t, blocks, 2, "split leaves one free tail plus the allocation")
	assert.True(t, blocks[0].Free)
	assert.Equal(t, base+100, blocks[0].Start, "tail begins where the allocation ends")
	assert.Equal(t, uint32(983040-100), blocks[0].Size)

	assertInvariants(t, m)
}

func TestAllocate_AbsorbsSmallRemainder(t *testing.T) {
	m := newTestManager(t)

	a := mustAlloc(t, m, 120, 0, TagUser)
	mustAlloc(t, m, 8, 0, TagUser) // guard
	require.NoError(t, m.Release(a))

	avail := m.Stats().AvailableMemory
	got, err := m.Allocate(100, 0, TagUser, NoProcess)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	// 120-byte span, 100 requested: the 20-byte leftover rides along.
	s := m.Stats()
	assert.Equal(t, avail-120, s.AvailableMemory, "accounting uses the full span")
	assertInvariants(t, m)
}

func TestAllocate_AlignmentPadding(t *testing.T) {
	m := newTestManager(t)

	// Push the free list head to a non-aligned start.
	mustAlloc(t, m, 10, 0, TagUser)

	addr, err := m.Allocate(100, 64, TagGraphics, NoProcess)
	require.NoError(t, err)
	assert.Zero(t, addr%64, "returned address must honor the alignment")

	// The padded span releases as one unit through the user address.
	require.NoError(t, m.Release(addr))
	assertInvariants(t, m)
}

func TestAllocate_PageAlignedRequest(t *testing.T) {
	m := newTestManager(t)

	addr, err := m.Allocate(8192, 4096, TagGraphics, NoProcess)
	require.NoError(t, err)
	assert.Zero(t, addr%4096)
	assertInvariants(t, m)
}

func TestAllocate_Errors(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Allocate(0, 0, TagUser, NoProcess)
	assert.ErrorIs(t, err, ErrZeroSize)

	_, err = m.Allocate(16, 3, TagUser, NoProcess)
	assert.ErrorIs(t, err, ErrBadAlign)

	_, err = m.Allocate(16, 0, TagUser, ProcessID(64))
	assert.ErrorIs(t, err, ErrBadProcessID)

	_, err = m.Allocate(m.Stats().AvailableMemory+1, 0, TagUser, NoProcess)
	assert.ErrorIs(t, err, ErrOutOfMemory)

	// Failures leave no trace.
	s := m.Stats()
	assert.Zero(t, s.AllocationCount)
	assert.Equal(t, 1, s.FreeBlocks)
	assertInvariants(t, m)
}

func TestAllocate_ExhaustsExactly(t *testing.T) {
	m := newTestManager(t)
	user := m.Stats().AvailableMemory

	addr, err := m.Allocate(user, 0, TagUser, NoProcess)
	require.NoError(t, err)

	s := m.Stats()
	assert.Zero(t, s.AvailableMemory)
	assert.Zero(t, s.FreeBlocks)

	_, err = m.Allocate(1, 0, TagUser, NoProcess)
	assert.ErrorIs(t, err, ErrOutOfMemory)

	require.NoError(t, m.Release(addr))
	assert.Equal(t, user, m.Stats().AvailableMemory)
	assertInvariants(t, m)
}

// TestAllocate_CompactsWhenFragmented leaves enough free bytes scattered
// across two holes that no single block fits, and verifies the allocator
// compacts once and satisfies the request from the merged tail.
func TestAllocate_CompactsWhenFragmented(t *testing.T) {
	m := newTestManager(t)
	user := m.Stats().AvailableMemory

	a := mustAlloc(t, m, 400000, 0, TagUser)
	b := mustAlloc(t, m, 300000, 0, TagUser)
	c := mustAlloc(t, m, user-700000, 0, TagUser)

	require.NoError(t, m.Release(a))
	require.NoError(t, m.Release(c))

	// 683040 bytes free, largest hole 400000: only compaction can serve.
	got, err := m.Allocate(500000, 0, TagUser, NoProcess)
	require.NoError(t, err)

	s := m.Stats()
	assert.Equal(t, uint64(1), s.FragmentationCount, "exactly one compaction ran")
	assert.Equal(t, s.UserStart+300000, got, "request lands right after the surviving block")

	// b was relocated to the user base; its old address is stale.
	assert.ErrorIs(t, m.Release(b), ErrUnknownAddress)
	require.NoError(t, m.Release(m.Stats().UserStart))
	assertInvariants(t, m)
}

func BenchmarkAllocateRelease(b *testing.B) {
	m, err := NewWithConfig(16<<20, 0, ConfigCompact)
	if err != nil {
		b.Fatal(err)
	}
	defer m.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		addr, err := m.Allocate(256, 0, TagUser, NoProcess)
		if err != nil {
			b.Fatal(err)
		}
		if err := m.Release(addr); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBestFitFragmented(b *testing.B) {
	m, err := NewWithConfig(16<<20, 0, ConfigCompact)
	if err != nil {
		b.Fatal(err)
	}
	defer m.Close()

	// Fragment the free list with alternating holes.
	var addrs []Address
	for i := 0; i < 256; i++ {
		a, err := m.Allocate(512, 0, TagUser, NoProcess)
		if err != nil {
			b.Fatal(err)
		}
		addrs = append(addrs, a)
	}
	for i := 0; i < len(addrs); i += 2 {
		if err := m.Release(addrs[i]); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a, err := m.Allocate(384, 0, TagUser, NoProcess)
		if err != nil {
			b.Fatal(err)
		}
		if err := m.Release(a); err != nil {
			b.Fatal(err)
		}
	}
}
