package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelease_UnknownAddress(t *testing.T) {
	m := newTestManager(t)

	assert.ErrorIs(t, m.Release(12345), ErrUnknownAddress)

	// A span start is not a valid handle when padding shifted the user
	// address; only the address the caller was given releases the block.
	mustAlloc(t, m, 10, 0, TagUser)
	padded, err := m.Allocate(100, 64, TagUser, NoProcess)
	require.NoError(t, err)
	spanStart := Address(0)
	for _, b := range m.Blocks() {
		if !b.Free && b.Addr == padded {
			spanStart = b.Start
		}
	}
	require.NotZero(t, spanStart)
	require.NotEqual(t, spanStart, padded)
	assert.ErrorIs(t, m.Release(spanStart), ErrUnknownAddress)
	assert.NoError(t, m.Release(padded))
	assertInvariants(t, m)
}

func TestRelease_DoubleFails(t *testing.T) {
	m := newTestManager(t)

	a := mustAlloc(t, m, 100, 0, TagUser)
	require.NoError(t, m.Release(a))
	assert.ErrorIs(t, m.Release(a), ErrUnknownAddress)

	s := m.Stats()
	assert.Equal(t, uint64(1), s.DeallocationCount, "failed release must not count")
	assertInvariants(t, m)
}

// TestRelease_CoalescesToClosure frees three contiguous blocks in an
// order that only becomes fully mergeable at the last step, and expects
// the free list to collapse back to a single block.
func TestRelease_CoalescesToClosure(t *testing.T) {
	m := newTestManager(t)
	user := m.Stats().AvailableMemory

	a := mustAlloc(t, m, 100, 0, TagUser)
	b := mustAlloc(t, m, 200, 0, TagUser)
	c := mustAlloc(t, m, 300, 0, TagUser)

	require.NoError(t, m.Release(a))
	require.NoError(t, m.Release(c))
	assert.Equal(t, 2, m.Stats().FreeBlocks, "hole at a, c merged into the tail")

	require.NoError(t, m.Release(b))
	s := m.Stats()
	assert.Equal(t, 1, s.FreeBlocks, "all holes and the tail merge into one block")
	assert.Equal(t, user, s.AvailableMemory)
	assertInvariants(t, m)
}

func TestRelease_ResetsDescriptor(t *testing.T) {
	m := newTestManager(t)

	a := mustAlloc(t, m, 100, 0, TagGame)
	mustAlloc(t, m, 8, 0, TagUser) // guard keeps the hole from merging
	require.NoError(t, m.Release(a))

	for _, b := range m.Blocks() {
		if b.Free && b.Size == 100 {
			assert.Equal(t, TagFree, b.Tag)
			assert.Equal(t, NoProcess, b.Owner)
			return
		}
	}
	t.Fatal("freed block not found")
}

// TestScenario_FreedBlockReuse drives the canonical boot script: two
// allocations, a release, then a smaller request that must land on the
// freed address.
func TestScenario_FreedBlockReuse(t *testing.T) {
	m, err := NewWithConfig(1_048_576, 0, ConfigCompact)
	require.NoError(t, err)
	defer m.Close()

	a, err := m.Allocate(100, 0, TagUser, NoProcess)
	require.NoError(t, err)
	b, err := m.Allocate(200, 0, TagUser, NoProcess)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	require.NoError(t, m.Release(a))

	c, err := m.Allocate(50, 0, TagUser, NoProcess)
	require.NoError(t, err)
	assert.Equal(t, a, c, "the 50-byte request reuses the freed 100-byte block")

	assertInvariants(t, m)
}
