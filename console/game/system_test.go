package game

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/consolekit/console/fs"
	"github.com/joshuapare/consolekit/console/mem"
)

// newTestSystem boots a full console: 32 MiB manager, 2000-block volume,
// game layer with a deterministic clock.
func newTestSystem(t *testing.T) (*System, *mem.Manager, *fs.Volume) {
	t.Helper()
	m, err := mem.NewWithConfig(32<<20, 0, mem.ConfigCompact)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, m.Close()) })

	vol, err := fs.New(m, 2000)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, vol.Unmount()) })
	require.NoError(t, vol.Format("GameOS"))

	sys, err := NewSystem(m, vol)
	require.NoError(t, err)
	clock := time.Unix(1_700_000_000, 0)
	sys.now = func() time.Time { return clock }
	return sys, m, vol
}

// writeGameFile authors a game image (header, code, data) into the store.
func writeGameFile(t *testing.T, vol *fs.Volume, path string, h Header, code []byte) {
	t.Helper()
	raw, err := h.Encode()
	require.NoError(t, err)

	fd, err := vol.CreateTyped(path, fs.TypeGame)
	require.NoError(t, err)
	_, err = vol.Write(fd, raw)
	require.NoError(t, err)
	if len(code) > 0 {
		_, err = vol.Write(fd, code)
		require.NoError(t, err)
	}
	require.NoError(t, vol.Close(fd))
}

// smallGame is a header whose images fit comfortably in the test console.
func smallGame(name string) Header {
	return Header{
		Version:        1,
		Name:           name,
		Author:         "Test Author",
		Type:           TypePlatform,
		CodeSize:       1024,
		DataSize:       512,
		RequiredMemory: 16 * 1024,
		SaveDataSize:   256,
	}
}

func TestNewSystem_ClaimsSystemResources(t *testing.T) {
	sys, m, _ := newTestSystem(t)

	// Framebuffer and audio ring are live blocks owned by process 0.
	var gotGraphics, gotAudio bool
	for _, b := range m.Blocks() {
		if b.Free || b.Owner != SystemPID {
			continue
		}
		switch b.Tag {
		case mem.TagGraphics:
			gotGraphics = true
			assert.Equal(t, uint32(ScreenWidth*ScreenHeight*4), b.Size)
			assert.Equal(t, sys.Framebuffer(), b.Addr)
		case mem.TagAudio:
			gotAudio = true
		}
	}
	assert.True(t, gotGraphics, "framebuffer must be allocated")
	assert.True(t, gotAudio, "audio ring must be allocated")

	require.NoError(t, sys.Shutdown())
	for _, b := range m.Blocks() {
		assert.True(t, b.Free || b.Owner != SystemPID, "shutdown releases system blocks")
	}
}

func TestNewSystem_CreatesDirectories(t *testing.T) {
	_, _, vol := newTestSystem(t)

	for _, dir := range []string{GamesDir, SavesDir} {
		info, err := vol.Stat(dir)
		require.NoError(t, err)
		assert.Equal(t, fs.TypeDirectory, info.Type)
	}
}

func TestRegisterBuiltins_InstallsDemoCatalog(t *testing.T) {
	sys, _, _ := newTestSystem(t)

	require.NoError(t, sys.RegisterBuiltins())
	games := sys.Games()
	require.Len(t, games, 3)

	names := []string{games[0].Header.Name, games[1].Header.Name, games[2].Header.Name}
	assert.Equal(t, []string{"Pong", "Tetris", "Snake"}, names)
	for _, g := range games {
		assert.NotZero(t, g.Header.Checksum, "builtin headers carry real checksums")
	}

	// Idempotent: a second call adds nothing.
	require.NoError(t, sys.RegisterBuiltins())
	assert.Len(t, sys.Games(), 3)
}

func TestInstall_FromFileStore(t *testing.T) {
	sys, _, vol := newTestSystem(t)

	h := smallGame("Moon Miner")
	writeGameFile(t, vol, "/games/moonminer.bin", h, bytes.Repeat([]byte{0xAA}, int(h.CodeSize)))

	entry, err := sys.Install("/games/moonminer.bin")
	require.NoError(t, err)
	assert.Equal(t, "Moon Miner", entry.Header.Name)
	assert.Equal(t, TypePlatform, entry.Header.Type)

	_, err = sys.Install("/games/moonminer.bin")
	assert.ErrorIs(t, err, ErrGameExists)

	found, ok := sys.Find("Moon Miner")
	require.True(t, ok)
	assert.Equal(t, entry.Header.Checksum, found.Header.Checksum)
}

func TestInstall_RejectsGarbage(t *testing.T) {
	sys, _, vol := newTestSystem(t)

	fd, err := vol.Create("/games/noise.bin")
	require.NoError(t, err)
	_, err = vol.Write(fd, bytes.Repeat([]byte{0x5A}, 200))
	require.NoError(t, err)
	require.NoError(t, vol.Close(fd))

	_, err = sys.Install("/games/noise.bin")
	assert.ErrorIs(t, err, ErrBadHeader)

	_, err = sys.Install("/games/absent.bin")
	assert.ErrorIs(t, err, fs.ErrNotFound)
}

func TestScan_InstallsValidSkipsInvalid(t *testing.T) {
	sys, _, vol := newTestSystem(t)

	writeGameFile(t, vol, "/games/good.bin", smallGame("Good Game"), make([]byte, 1024))
	writeGameFile(t, vol, "/games/other.bin", smallGame("Other Game"), make([]byte, 1024))

	fd, err := vol.Create("/games/bad.bin")
	require.NoError(t, err)
	_, err = vol.Write(fd, []byte("not a game"))
	require.NoError(t, err)
	require.NoError(t, vol.Close(fd))

	fd, err = vol.Create("/games/readme.txt")
	require.NoError(t, err)
	require.NoError(t, vol.Close(fd))

	installed, skipped, err := sys.Scan(GamesDir)
	require.NoError(t, err)
	assert.Equal(t, 2, installed)
	assert.Equal(t, 1, skipped, "the .txt file is not scanned at all")
	assert.Len(t, sys.Games(), 2)
}

func TestUninstall(t *testing.T) {
	sys, _, _ := newTestSystem(t)
	require.NoError(t, sys.RegisterBuiltins())

	require.NoError(t, sys.Uninstall("Tetris"))
	assert.Len(t, sys.Games(), 2)
	assert.ErrorIs(t, sys.Uninstall("Tetris"), ErrGameNotFound)

	require.NoError(t, sys.Launch("Pong"))
	assert.ErrorIs(t, sys.Uninstall("Pong"), ErrGameRunning)
	require.NoError(t, sys.Stop())
	require.NoError(t, sys.Uninstall("Pong"))
}
