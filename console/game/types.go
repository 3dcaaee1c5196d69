package game

// Type classifies a game image. Values match the console's catalog codes.
type Type uint32

const (
	TypeArcade   Type = 0
	TypePuzzle   Type = 1
	TypePlatform Type = 2
	TypeShooter  Type = 3
	TypeRPG      Type = 4
	TypeHomebrew Type = 5
)

func (t Type) String() string {
	switch t {
	case TypeArcade:
		return "arcade"
	case TypePuzzle:
		return "puzzle"
	case TypePlatform:
		return "platform"
	case TypeShooter:
		return "shooter"
	case TypeRPG:
		return "rpg"
	case TypeHomebrew:
		return "homebrew"
	}
	return "unknown"
}

// State is a session's lifecycle position.
type State uint8

const (
	StateStopped State = 0
	StateLoading State = 1
	StateRunning State = 2
	StatePaused  State = 3
	StateSaving  State = 4
	StateError   State = 5
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateLoading:
		return "loading"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateSaving:
		return "saving"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Header describes one game image. Encode and DecodeHeader carry it to
// and from the fixed 132-byte binary form.
type Header struct {
	Version        uint32
	Name           string
	Author         string
	Type           Type
	CodeSize       uint32
	DataSize       uint32
	RequiredMemory uint32
	EntryPoint     uint32
	SaveDataSize   uint32
	Checksum       uint32
}

// Entry is one registry row: an installed game and where it came from.
type Entry struct {
	Header    Header
	Path      string // fs path, or a builtin:// pseudo-path
	Installed uint32 // unix seconds
}

// SaveInfo is a decoded save record.
type SaveInfo struct {
	Slot     int
	SaveTime uint32 // unix seconds
	PlayTime uint32 // accumulated seconds
	Level    uint32
	Score    uint32
	Data     []byte
}

// Stats summarizes the catalog and the live session.
type Stats struct {
	Installed     int
	Running       string // empty when idle
	State         State
	GamesPlayed   uint32
	TotalPlayTime uint32 // seconds across finished sessions
	BytesInFlight uint64 // memory owned by the live session's process
}
