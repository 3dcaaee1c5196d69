package game

import (
	"errors"
	"fmt"

	"github.com/joshuapare/consolekit/console/fs"
	"github.com/joshuapare/consolekit/internal/layout"
)

// savePath is the fixed slot file for one game, under /saves.
func savePath(name string, slot int) string {
	return fmt.Sprintf("%s/%s_slot_%d.sav", SavesDir, name, slot)
}

// Save writes the running game's state to a slot file: signature, the
// game's header checksum as a binding, wall and play clocks, progress,
// and up to 4 KiB of opaque game data. An occupied slot is overwritten.
func (s *System) Save(slot int, data []byte) error {
	if s.session == nil {
		return ErrNoGameRunning
	}
	if slot < 0 || slot >= layout.MaxSaveSlots {
		return fmt.Errorf("%w: %d", ErrBadSlot, slot)
	}
	if len(data) > layout.MaxSaveData {
		return fmt.Errorf("%w: %d bytes of save data", ErrBadSave, len(data))
	}
	sess := s.session
	prev := sess.state
	sess.state = StateSaving
	defer func() { sess.state = prev }()

	now := s.now()
	buf := make([]byte, layout.SaveHeaderSize+len(data))
	copy(buf[layout.SaveOffSignature:], layout.SaveSignature)
	layout.PutU32(buf, layout.SaveOffGameSum, sess.entry.Header.Checksum)
	layout.PutU32(buf, layout.SaveOffSaveTime, uint32(now.Unix()))
	layout.PutU32(buf, layout.SaveOffPlayTime, sess.playSeconds(now))
	layout.PutU32(buf, layout.SaveOffLevel, sess.level)
	layout.PutU32(buf, layout.SaveOffScore, sess.score)
	layout.PutU32(buf, layout.SaveOffDataSize, uint32(len(data)))
	copy(buf[layout.SaveOffData:], data)

	path := savePath(sess.entry.Header.Name, slot)
	s.vol.Delete(path) // overwrite an occupied slot
	fd, err := s.vol.CreateTyped(path, fs.TypeSave)
	if err != nil {
		return fmt.Errorf("game: creating %s: %w", path, err)
	}
	defer s.vol.Close(fd)
	if _, err := s.vol.Write(fd, buf); err != nil {
		return fmt.Errorf("game: writing %s: %w", path, err)
	}
	return nil
}

// LoadSave reads one slot of the named game, checking the record's
// signature and that it belongs to the installed game with that name.
func (s *System) LoadSave(name string, slot int) (SaveInfo, error) {
	if slot < 0 || slot >= layout.MaxSaveSlots {
		return SaveInfo{}, fmt.Errorf("%w: %d", ErrBadSlot, slot)
	}
	entry, ok := s.Find(name)
	if !ok {
		return SaveInfo{}, fmt.Errorf("%w: %q", ErrGameNotFound, name)
	}

	path := savePath(name, slot)
	fd, err := s.vol.Open(path, fs.ModeRead)
	if errors.Is(err, fs.ErrNotFound) {
		return SaveInfo{}, fmt.Errorf("%w: slot %d", ErrNoSave, slot)
	}
	if err != nil {
		return SaveInfo{}, err
	}
	defer s.vol.Close(fd)

	buf := make([]byte, layout.SaveHeaderSize+layout.MaxSaveData)
	n, err := s.vol.Read(fd, buf)
	if err != nil {
		return SaveInfo{}, err
	}
	if n < layout.SaveHeaderSize {
		return SaveInfo{}, fmt.Errorf("%w: %d bytes", ErrBadSave, n)
	}
	buf = buf[:n]

	if layout.ReadU32(buf, layout.SaveOffSignature) != layout.SaveMagic {
		return SaveInfo{}, fmt.Errorf("%w: bad signature", ErrBadSave)
	}
	if layout.ReadU32(buf, layout.SaveOffGameSum) != entry.Header.Checksum {
		return SaveInfo{}, fmt.Errorf("%w: %q", ErrWrongGame, name)
	}
	size := layout.ReadU32(buf, layout.SaveOffDataSize)
	if size > layout.MaxSaveData || layout.SaveHeaderSize+size > uint32(n) {
		return SaveInfo{}, fmt.Errorf("%w: declared %d data bytes in %d", ErrBadSave, size, n)
	}

	return SaveInfo{
		Slot:     slot,
		SaveTime: layout.ReadU32(buf, layout.SaveOffSaveTime),
		PlayTime: layout.ReadU32(buf, layout.SaveOffPlayTime),
		Level:    layout.ReadU32(buf, layout.SaveOffLevel),
		Score:    layout.ReadU32(buf, layout.SaveOffScore),
		Data:     append([]byte(nil), buf[layout.SaveOffData:layout.SaveOffData+size]...),
	}, nil
}

// Saves lists the occupied slots of the named game.
func (s *System) Saves(name string) ([]SaveInfo, error) {
	if _, ok := s.Find(name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrGameNotFound, name)
	}
	var out []SaveInfo
	for slot := 0; slot < layout.MaxSaveSlots; slot++ {
		info, err := s.LoadSave(name, slot)
		if errors.Is(err, ErrNoSave) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}
