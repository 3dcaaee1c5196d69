package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/joshuapare/consolekit/console/fs"
	"github.com/joshuapare/consolekit/console/mem"
	"github.com/joshuapare/consolekit/internal/layout"
)

const (
	// SystemPID is the process slot owning console-wide resources: the
	// framebuffer and the audio ring.
	SystemPID mem.ProcessID = 0

	// systemCodeSize is the nominal code block backing the system
	// process context.
	systemCodeSize = layout.PageSize

	// Display and audio geometry.
	ScreenWidth   = 800
	ScreenHeight  = 600
	bytesPerPixel = 4
	audioRingSize = 64 * 1024

	// GamesDir and SavesDir are created at system init.
	GamesDir = "/games"
	SavesDir = "/saves"
)

// System is the console's catalog and session layer. A System owns
// process slot 0 and one live session at most; it is not safe for
// concurrent use.
type System struct {
	m   *mem.Manager
	vol *fs.Volume

	registry []Entry

	session *session

	framebuffer mem.Address
	audioRing   mem.Address

	gamesPlayed   uint32
	totalPlayTime uint32

	now func() time.Time
}

// session is the one live game.
type session struct {
	entry    *Entry
	pid      mem.ProcessID
	state    State
	dataAddr mem.Address
	saveAddr mem.Address // zero when the game declares no save data
	started  time.Time
	paused   time.Duration
	pausedAt time.Time
	level    uint32
	score    uint32
}

// NewSystem boots the game layer over an initialized manager and a
// formatted volume: binds the system process, allocates the framebuffer
// and the audio ring against it, and ensures the /games and /saves
// directories exist.
func NewSystem(m *mem.Manager, vol *fs.Volume) (*System, error) {
	s := &System{m: m, vol: vol, now: time.Now}

	if err := m.ProcessCreate(SystemPID, systemCodeSize); err != nil {
		return nil, fmt.Errorf("game: binding system process: %w", err)
	}
	fb, err := m.Allocate(ScreenWidth*ScreenHeight*bytesPerPixel, 0, mem.TagGraphics, SystemPID)
	if err != nil {
		m.ProcessDestroy(SystemPID)
		return nil, fmt.Errorf("game: allocating framebuffer: %w", err)
	}
	ring, err := m.Allocate(audioRingSize, 0, mem.TagAudio, SystemPID)
	if err != nil {
		m.ProcessDestroy(SystemPID)
		return nil, fmt.Errorf("game: allocating audio ring: %w", err)
	}
	s.framebuffer = fb
	s.audioRing = ring

	for _, dir := range []string{GamesDir, SavesDir} {
		if err := vol.Mkdir(dir); err != nil && !errors.Is(err, fs.ErrExists) {
			m.ProcessDestroy(SystemPID)
			return nil, fmt.Errorf("game: creating %s: %w", dir, err)
		}
	}
	return s, nil
}

// Shutdown stops any live session and releases the system process and
// everything it owns.
func (s *System) Shutdown() error {
	if s.session != nil {
		if err := s.Stop(); err != nil {
			return err
		}
	}
	return s.m.ProcessDestroy(SystemPID)
}

// Framebuffer returns the display buffer's current address. Like every
// block address it goes stale when the manager compacts.
func (s *System) Framebuffer() mem.Address {
	return s.framebuffer
}

// Stats summarizes the catalog and the live session.
func (s *System) Stats() Stats {
	st := Stats{
		Installed:     len(s.registry),
		State:         StateStopped,
		GamesPlayed:   s.gamesPlayed,
		TotalPlayTime: s.totalPlayTime,
	}
	if s.session != nil {
		st.Running = s.session.entry.Header.Name
		st.State = s.session.state
		for _, b := range s.m.Blocks() {
			if !b.Free && b.Owner == s.session.pid {
				st.BytesInFlight += uint64(b.Size)
			}
		}
	}
	return st
}
