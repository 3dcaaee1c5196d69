package game

import "errors"

var (
	// ErrBadHeader indicates a game header that fails validation:
	// wrong signature, zero version, empty name, no code or data, or a
	// memory requirement smaller than the images it describes.
	ErrBadHeader = errors.New("game: invalid game header")

	// ErrBadChecksum indicates a header whose stored checksum does not
	// match its bytes.
	ErrBadChecksum = errors.New("game: header checksum mismatch")

	// ErrGameExists indicates an install colliding with a registered name.
	ErrGameExists = errors.New("game: already installed")

	// ErrGameNotFound indicates a name with no registry entry.
	ErrGameNotFound = errors.New("game: not installed")

	// ErrGameRunning indicates an operation that needs the console idle
	// while a session is live.
	ErrGameRunning = errors.New("game: a game is already running")

	// ErrNoGameRunning indicates a session operation with no session.
	ErrNoGameRunning = errors.New("game: no game running")

	// ErrBadState indicates a lifecycle transition the current state
	// does not allow.
	ErrBadState = errors.New("game: invalid state transition")

	// ErrGameTooBig indicates a header demanding more than the per-game
	// memory ceiling.
	ErrGameTooBig = errors.New("game: exceeds per-game memory limit")

	// ErrRegistryFull indicates the installed-game table is full.
	ErrRegistryFull = errors.New("game: registry full")

	// ErrBadSlot indicates a save slot outside 0-9.
	ErrBadSlot = errors.New("game: save slot out of range")

	// ErrNoSave indicates an empty save slot.
	ErrNoSave = errors.New("game: save slot empty")

	// ErrBadSave indicates a save record that is truncated or carries
	// the wrong signature.
	ErrBadSave = errors.New("game: invalid save record")

	// ErrWrongGame indicates a save record bound to a different game.
	ErrWrongGame = errors.New("game: save belongs to another game")
)
