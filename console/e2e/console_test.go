// Package e2e drives the whole console through boot, play, save, and
// teardown flows, checking the memory manager's invariants at every
// stage.
package e2e

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/consolekit/console/fs"
	"github.com/joshuapare/consolekit/console/game"
	"github.com/joshuapare/consolekit/console/mem"
	"github.com/joshuapare/consolekit/console/verify"
)

// bootConsole brings up the shipped geometry: 128 MiB with the kernel at
// 1 MiB, a 10000-block volume, and the game layer with builtins.
func bootConsole(t *testing.T) (*mem.Manager, *fs.Volume, *game.System) {
	t.Helper()
	m, err := mem.New(128<<20, 1<<20)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, m.Close()) })

	vol, err := fs.New(m, 10000)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, vol.Unmount()) })
	require.NoError(t, vol.Format("GameOS"))

	sys, err := game.NewSystem(m, vol)
	require.NoError(t, err)
	require.NoError(t, sys.RegisterBuiltins())
	return m, vol, sys
}

func checkInvariants(t *testing.T, m *mem.Manager) {
	t.Helper()
	require.NoError(t, verify.AllInvariants(m.Snapshot()))
}

// TestBootPlaySaveShutdown is the original demo session: play every
// builtin, save slot 0, stop, then shut the system down and verify the
// console is back to its boot footprint.
func TestBootPlaySaveShutdown(t *testing.T) {
	m, _, sys := bootConsole(t)
	checkInvariants(t, m)

	afterBoot := m.Stats().AvailableMemory
	for i, entry := range sys.Games() {
		name := entry.Header.Name
		require.NoError(t, sys.Launch(name), "launching %s", name)
		checkInvariants(t, m)

		require.NoError(t, sys.SetProgress(uint32(i+1), uint32(100*(i+1))))
		require.NoError(t, sys.Save(0, []byte(name+" state")))
		require.NoError(t, sys.Stop())
		checkInvariants(t, m)

		saves, err := sys.Saves(name)
		require.NoError(t, err)
		require.Len(t, saves, 1)
		assert.Equal(t, uint32(100*(i+1)), saves[0].Score)
	}

	assert.Equal(t, afterBoot, m.Stats().AvailableMemory,
		"each session must return every byte it took")
	st := sys.Stats()
	assert.Equal(t, uint32(3), st.GamesPlayed)

	require.NoError(t, sys.Shutdown())
	checkInvariants(t, m)
}

// TestInstallFromStoreAndRun authors a game image into /games, installs
// it by scanning, launches it, and verifies the code made it into the
// session's code block.
func TestInstallFromStoreAndRun(t *testing.T) {
	m, vol, sys := bootConsole(t)

	h := game.Header{
		Version:        1,
		Name:           "Cave Runner",
		Author:         "E2E",
		Type:           game.TypePlatform,
		CodeSize:       3000,
		DataSize:       1500,
		RequiredMemory: 1 << 20,
		SaveDataSize:   128,
	}
	raw, err := h.Encode()
	require.NoError(t, err)
	code := bytes.Repeat([]byte{0xEB}, int(h.CodeSize))

	fd, err := vol.CreateTyped("/games/cave.bin", fs.TypeGame)
	require.NoError(t, err)
	_, err = vol.Write(fd, raw)
	require.NoError(t, err)
	_, err = vol.Write(fd, code)
	require.NoError(t, err)
	require.NoError(t, vol.Close(fd))

	installed, skipped, err := sys.Scan(game.GamesDir)
	require.NoError(t, err)
	assert.Equal(t, 1, installed)
	assert.Zero(t, skipped)

	require.NoError(t, sys.Launch("Cave Runner"))
	checkInvariants(t, m)

	// The loaded image is byte-for-byte the authored one.
	var proc mem.ProcessInfo
	for pid := mem.ProcessID(1); pid < 64; pid++ {
		info, err := m.Process(pid)
		require.NoError(t, err)
		if info.Active {
			proc = info
			break
		}
	}
	require.True(t, proc.Active, "the session process must be bound")
	got := make([]byte, h.CodeSize)
	require.NoError(t, m.Read(proc.CodeStart, got))
	assert.Equal(t, code, got)

	require.NoError(t, sys.Stop())
	checkInvariants(t, m)
}

// TestFragmentationRecovery fragments the user region with interleaved
// churn, then proves a large request still lands via the allocator's
// compaction fallback while the store and session layers stay intact.
func TestFragmentationRecovery(t *testing.T) {
	m, _, sys := bootConsole(t)

	var addrs []mem.Address
	for i := 0; i < 64; i++ {
		a, err := m.Allocate(256<<10, 0, mem.TagUser, mem.NoProcess)
		require.NoError(t, err)
		addrs = append(addrs, a)
	}
	for i := 0; i < len(addrs); i += 2 {
		require.NoError(t, m.Release(addrs[i]))
	}
	checkInvariants(t, m)

	// Larger than any single hole; the fallback compacts and serves it.
	avail := m.Stats().AvailableMemory
	big, err := m.Allocate(avail-(4<<20), 0, mem.TagUser, mem.NoProcess)
	require.NoError(t, err)
	assert.NotZero(t, m.Stats().FragmentationCount)
	checkInvariants(t, m)

	// The game layer still works after wholesale relocation.
	require.NoError(t, sys.Launch("Pong"))
	require.NoError(t, sys.Stop())
	require.NoError(t, m.Release(big))
	checkInvariants(t, m)
}

// TestSavesSurviveSessions re-launches the same game repeatedly to prove
// save slots persist across sessions.
func TestSavesSurviveSessions(t *testing.T) {
	_, _, sys := bootConsole(t)

	for round := 0; round < 3; round++ {
		require.NoError(t, sys.Launch("Tetris"))
		require.NoError(t, sys.SetProgress(uint32(round), uint32(round*1000)))
		require.NoError(t, sys.Save(round, nil))
		require.NoError(t, sys.Stop())
	}

	saves, err := sys.Saves("Tetris")
	require.NoError(t, err)
	require.Len(t, saves, 3)
	assert.Equal(t, uint32(2000), saves[2].Score)
}

// TestPageAllocatorIndependence exhausts and refills page frames while
// the block allocator is under load; neither side may disturb the other.
func TestPageAllocatorIndependence(t *testing.T) {
	m, _, sys := bootConsole(t)
	require.NoError(t, sys.Launch("Snake"))

	before := m.Stats()
	var pages []mem.Address
	for i := 0; i < 100; i++ {
		p, err := m.AllocPage()
		require.NoError(t, err)
		pages = append(pages, p)
	}
	assert.Equal(t, before.FreePages-100, m.Stats().FreePages)
	assert.Equal(t, before.AvailableMemory, m.Stats().AvailableMemory,
		"page traffic must not touch block accounting")

	for _, p := range pages {
		m.FreePage(p)
	}
	assert.Equal(t, before.FreePages, m.Stats().FreePages)
	require.NoError(t, sys.Stop())
	checkInvariants(t, m)
}

// TestLongSession exercises a minute-long mixed workload at every layer.
func TestLongSession(t *testing.T) {
	if testing.Short() {
		t.Skip("long mixed workload")
	}
	m, vol, sys := bootConsole(t)

	live := map[mem.Address]bool{}
	for i := 0; i < 500; i++ {
		switch i % 5 {
		case 0, 1, 2:
			a, err := m.Allocate(uint32(512+(i%13)*4096), 0, mem.TagUser, mem.NoProcess)
			if err == nil {
				live[a] = true
			}
		case 3:
			for a := range live {
				require.NoError(t, m.Release(a))
				delete(live, a)
				break
			}
		case 4:
			if i%50 == 4 {
				require.NoError(t, m.Compact())
				// All outstanding addresses are invalid now.
				live = map[mem.Address]bool{}
			}
		}
		if i%100 == 99 {
			checkInvariants(t, m)
		}
	}

	// Store churn alongside.
	for i := 0; i < 10; i++ {
		fd, err := vol.Create("/tmp_" + string(rune('a'+i)))
		require.NoError(t, err)
		_, err = vol.Write(fd, bytes.Repeat([]byte{byte(i)}, 1000))
		require.NoError(t, err)
		require.NoError(t, vol.Close(fd))
	}
	require.NoError(t, sys.Launch("Pong"))
	require.NoError(t, sys.Stop())
	checkInvariants(t, m)
}
