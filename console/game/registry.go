package game

import (
	"fmt"
	"strings"

	"github.com/joshuapare/consolekit/console/fs"
	"github.com/joshuapare/consolekit/internal/layout"
)

// builtinPrefix marks registry entries with no backing file; their code
// block is zero-filled at launch.
const builtinPrefix = "builtin://"

// Install reads a game header from path, validates it, and registers the
// game under its header name.
func (s *System) Install(path string) (*Entry, error) {
	if len(s.registry) >= layout.MaxGames {
		return nil, ErrRegistryFull
	}
	h, err := s.readHeader(path)
	if err != nil {
		return nil, err
	}
	if _, ok := s.Find(h.Name); ok {
		return nil, fmt.Errorf("%w: %q", ErrGameExists, h.Name)
	}
	s.registry = append(s.registry, Entry{
		Header:    h,
		Path:      path,
		Installed: uint32(s.now().Unix()),
	})
	return &s.registry[len(s.registry)-1], nil
}

// readHeader loads and decodes the header at the start of a game file.
func (s *System) readHeader(path string) (Header, error) {
	fd, err := s.vol.Open(path, fs.ModeRead)
	if err != nil {
		return Header{}, fmt.Errorf("game: opening %s: %w", path, err)
	}
	defer s.vol.Close(fd)

	buf := make([]byte, layout.GameHeaderSize)
	n, err := s.vol.Read(fd, buf)
	if err != nil {
		return Header{}, fmt.Errorf("game: reading %s: %w", path, err)
	}
	if n < layout.GameHeaderSize {
		return Header{}, fmt.Errorf("%w: %s holds %d bytes", ErrBadHeader, path, n)
	}
	return DecodeHeader(buf)
}

// Uninstall removes a game from the registry. The running game cannot be
// uninstalled.
func (s *System) Uninstall(name string) error {
	if s.session != nil && s.session.entry.Header.Name == name {
		return ErrGameRunning
	}
	for i := range s.registry {
		if s.registry[i].Header.Name == name {
			s.registry = append(s.registry[:i], s.registry[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrGameNotFound, name)
}

// Scan installs every .bin file in dir that carries a valid header,
// skipping files that do not parse. It returns the number installed and
// the number skipped.
func (s *System) Scan(dir string) (installed, skipped int, err error) {
	entries, err := s.vol.List(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("game: scanning %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.Type == fs.TypeDirectory || !strings.HasSuffix(e.Name, ".bin") {
			continue
		}
		if _, err := s.Install(dir + "/" + e.Name); err != nil {
			skipped++
			continue
		}
		installed++
	}
	return installed, skipped, nil
}

// Games returns the registry in install order.
func (s *System) Games() []Entry {
	out := make([]Entry, len(s.registry))
	copy(out, s.registry)
	return out
}

// Find returns the entry registered under name.
func (s *System) Find(name string) (*Entry, bool) {
	for i := range s.registry {
		if s.registry[i].Header.Name == name {
			return &s.registry[i], true
		}
	}
	return nil, false
}

// RegisterBuiltins installs the console's demo catalog: Pong, Tetris,
// and Snake, with synthesized headers and no backing files.
func (s *System) RegisterBuiltins() error {
	builtins := []Header{
		{Name: "Pong", Type: TypeArcade},
		{Name: "Tetris", Type: TypePuzzle},
		{Name: "Snake", Type: TypeArcade},
	}
	for _, h := range builtins {
		h.Version = layout.GameVersion
		h.Author = "Built-in"
		h.CodeSize = layout.PageSize
		h.DataSize = 1024
		h.RequiredMemory = 64 * 1024
		h.SaveDataSize = 512

		// Round-trip through the codec so the checksum is stamped the
		// same way a file install would see it.
		raw, err := h.Encode()
		if err != nil {
			return err
		}
		decoded, err := DecodeHeader(raw)
		if err != nil {
			return err
		}
		if _, ok := s.Find(decoded.Name); ok {
			continue
		}
		if len(s.registry) >= layout.MaxGames {
			return ErrRegistryFull
		}
		s.registry = append(s.registry, Entry{
			Header:    decoded,
			Path:      builtinPrefix + strings.ToLower(decoded.Name),
			Installed: uint32(s.now().Unix()),
		})
	}
	return nil
}
