package game

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joshuapare/consolekit/console/fs"
	"github.com/joshuapare/consolekit/console/mem"
	"github.com/joshuapare/consolekit/internal/layout"
)

// Launch starts the named game: binds a fresh process (code block plus
// stack), claims the data segment and, when the header declares save
// data, a save buffer, then streams the code image from the file store
// into the code block. Any failure rolls the whole session back. One game
// runs at a time.
func (s *System) Launch(name string) error {
	if s.session != nil {
		return fmt.Errorf("%w: %q", ErrGameRunning, s.session.entry.Header.Name)
	}
	entry, ok := s.Find(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrGameNotFound, name)
	}
	h := entry.Header
	if h.RequiredMemory > layout.MaxGameMemory {
		return fmt.Errorf("%w: %q wants %d bytes", ErrGameTooBig, name, h.RequiredMemory)
	}

	pid, err := s.pickPID()
	if err != nil {
		return err
	}
	if err := s.m.ProcessCreate(pid, h.CodeSize); err != nil {
		return fmt.Errorf("game: binding process for %q: %w", name, err)
	}

	sess := &session{entry: entry, pid: pid, state: StateLoading, started: s.now()}

	sess.dataAddr, err = s.m.Allocate(h.DataSize, 0, mem.TagGame, pid)
	if err != nil {
		s.m.ProcessDestroy(pid)
		return fmt.Errorf("game: data segment for %q: %w", name, err)
	}
	if h.SaveDataSize > 0 {
		sess.saveAddr, err = s.m.ProcessAlloc(pid, h.SaveDataSize)
		if err != nil {
			s.m.ProcessDestroy(pid)
			return fmt.Errorf("game: save buffer for %q: %w", name, err)
		}
	}

	if err := s.loadCode(sess); err != nil {
		s.m.ProcessDestroy(pid)
		return err
	}

	sess.state = StateRunning
	s.session = sess
	return nil
}

// loadCode copies the game's code image into the session's code block.
// Builtin entries have no backing file; their code block stays zeroed.
func (s *System) loadCode(sess *session) error {
	entry := sess.entry
	if strings.HasPrefix(entry.Path, builtinPrefix) {
		return nil
	}
	fd, err := s.vol.Open(entry.Path, fs.ModeRead)
	if err != nil {
		return fmt.Errorf("game: opening %s: %w", entry.Path, err)
	}
	defer s.vol.Close(fd)

	// Code image follows the header.
	if _, err := s.vol.Seek(fd, layout.GameHeaderSize, io.SeekStart); err != nil {
		return err
	}
	proc, err := s.m.Process(sess.pid)
	if err != nil {
		return err
	}
	code := make([]byte, entry.Header.CodeSize)
	n, err := s.vol.Read(fd, code)
	if err != nil {
		return fmt.Errorf("game: reading code image: %w", err)
	}
	if uint32(n) < entry.Header.CodeSize {
		return fmt.Errorf("%w: code image truncated at %d of %d bytes",
			ErrBadHeader, n, entry.Header.CodeSize)
	}
	return s.m.Write(proc.CodeStart, code)
}

// pickPID returns the lowest inactive process slot above the system's.
func (s *System) pickPID() (mem.ProcessID, error) {
	for pid := mem.ProcessID(1); pid < layout.MaxProcesses; pid++ {
		info, err := s.m.Process(pid)
		if err != nil {
			return 0, err
		}
		if !info.Active {
			return pid, nil
		}
	}
	return 0, fmt.Errorf("game: no free process slot: %w", mem.ErrOutOfMemory)
}

// Pause suspends the running game's play clock.
func (s *System) Pause() error {
	if s.session == nil {
		return ErrNoGameRunning
	}
	if s.session.state != StateRunning {
		return fmt.Errorf("%w: pause from %s", ErrBadState, s.session.state)
	}
	s.session.state = StatePaused
	s.session.pausedAt = s.now()
	return nil
}

// Resume restarts a paused game.
func (s *System) Resume() error {
	if s.session == nil {
		return ErrNoGameRunning
	}
	if s.session.state != StatePaused {
		return fmt.Errorf("%w: resume from %s", ErrBadState, s.session.state)
	}
	s.session.paused += s.now().Sub(s.session.pausedAt)
	s.session.state = StateRunning
	return nil
}

// Stop tears the session down. Every block the session's process owns,
// the code and stack bound at launch included, is bulk-released through
// the process binder.
func (s *System) Stop() error {
	if s.session == nil {
		return ErrNoGameRunning
	}
	sess := s.session

	s.gamesPlayed++
	s.totalPlayTime += sess.playSeconds(s.now())

	if err := s.m.ProcessDestroy(sess.pid); err != nil {
		return fmt.Errorf("game: tearing down %q: %w", sess.entry.Header.Name, err)
	}
	s.session = nil
	return nil
}

// SetProgress records the running game's level and score, carried into
// save records.
func (s *System) SetProgress(level, score uint32) error {
	if s.session == nil {
		return ErrNoGameRunning
	}
	s.session.level = level
	s.session.score = score
	return nil
}

// playSeconds is the session's accumulated play time, pauses excluded.
func (sess *session) playSeconds(now time.Time) uint32 {
	elapsed := now.Sub(sess.started) - sess.paused
	if sess.state == StatePaused {
		elapsed -= now.Sub(sess.pausedAt)
	}
	if elapsed < 0 {
		return 0
	}
	return uint32(elapsed / time.Second)
}
