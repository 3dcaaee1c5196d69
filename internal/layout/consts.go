// Package layout houses the low-level constants and codecs shared by the
// console subsystems: memory-region geometry, the file-store block format,
// and the game header/save formats. The goal is to keep every on-wire and
// in-table constant in one place, independent from the public API, so the
// higher-level packages can stay focused on behavior.
package layout

var (
	// FSSignature is the four-byte magic at the start of a formatted volume.
	// Layout (little-endian u32 0x434F4E53):
	//   0x00  'S' 'N' 'O' 'C'
	FSSignature = []byte{'S', 'N', 'O', 'C'}

	// GameSignature identifies a game image header.
	// Little-endian u32 0x47414D45 ("GAME" read big-endian).
	GameSignature = []byte{'E', 'M', 'A', 'G'}

	// SaveSignature identifies a save-game record.
	// Little-endian u32 0x53415645 ("SAVE" read big-endian).
	SaveSignature = []byte{'E', 'V', 'A', 'S'}
)

const (
	// FSMagic is the volume signature as an integer ("CONS").
	FSMagic = 0x434F4E53

	// GameMagic is the game header signature as an integer ("GAME").
	GameMagic = 0x47414D45

	// SaveMagic is the save record signature as an integer ("SAVE").
	SaveMagic = 0x53415645
)

const (
	// PageSize is the size of one physical page frame.
	PageSize = 4096

	// PageMask is the bitmask for page-boundary alignment (PageSize - 1).
	PageMask = PageSize - 1

	// DefaultAlign is the alignment applied to block requests that do not
	// ask for one.
	DefaultAlign = 4

	// MaxProcesses is the size of the fixed process context table.
	MaxProcesses = 64

	// KernelHeapSize is the default span reserved for the kernel region.
	KernelHeapSize = 8 * 1024 * 1024

	// StackSize is the default stack block allocated per process.
	StackSize = 1024 * 1024

	// MinSplitRemainder is the smallest remainder worth carving into its
	// own free block. Remainders at or below this are absorbed into the
	// allocation. Sized to the original descriptor footprint.
	MinSplitRemainder = 32
)

const (
	// FSBlockSize is the size of one file-store block.
	FSBlockSize = 512

	// FSMaxFiles is the size of the inode table.
	FSMaxFiles = 1024

	// FSMaxFilename bounds one path component, NUL padding included.
	FSMaxFilename = 64

	// FSMaxPath bounds a full path.
	FSMaxPath = 256

	// FSDirectBlocks is the number of direct block pointers per inode.
	// It also bounds file size: FSDirectBlocks * FSBlockSize bytes.
	FSDirectBlocks = 12

	// FSMaxOpenFiles is the size of the open-descriptor table.
	FSMaxOpenFiles = 64

	// FSVersion is the volume format version written by Format.
	FSVersion = 1

	// FSDirEntrySize is the fixed size of one directory entry on a data
	// block: a u32 inode index followed by a NUL-padded name.
	FSDirEntrySize = 4 + FSMaxFilename

	// FSInodeSize is the on-disk footprint of one inode record, used to
	// size the inode table region: inode number, attribute block, twelve
	// direct pointers, two indirect pointers, block count.
	FSInodeSize = 84

	// FSMaxFileSize bounds one file: direct pointers only.
	FSMaxFileSize = FSDirectBlocks * FSBlockSize
)

const (
	// GameHeaderSize is the encoded size of a game image header.
	GameHeaderSize = 132

	// GameMaxName and GameMaxAuthor bound the fixed-width text fields.
	GameMaxName   = 64
	GameMaxAuthor = 32

	// MaxGames is the size of the installed-game registry.
	MaxGames = 256

	// MaxSaveSlots is the number of save slots per game.
	MaxSaveSlots = 10

	// MaxSaveData bounds the opaque payload of one save record.
	MaxSaveData = 4096

	// SaveHeaderSize is the encoded size of a save record before its
	// payload bytes.
	SaveHeaderSize = 28

	// MaxGameMemory caps the memory a single game may declare.
	MaxGameMemory = 16 * 1024 * 1024

	// GameVersion is the current header version.
	GameVersion = 1
)

// Game header field offsets within the encoded structure.
const (
	GameOffSignature    = 0x00 // 4
	GameOffVersion      = 0x04 // 4
	GameOffName         = 0x08 // 64
	GameOffAuthor       = 0x48 // 32
	GameOffType         = 0x68 // 4
	GameOffCodeSize     = 0x6C // 4
	GameOffDataSize     = 0x70 // 4
	GameOffRequired     = 0x74 // 4
	GameOffEntryPoint   = 0x78 // 4
	GameOffSaveDataSize = 0x7C // 4
	GameOffChecksum     = 0x80 // 4, last field
)

// Save record field offsets.
const (
	SaveOffSignature = 0x00 // 4
	SaveOffGameSum   = 0x04 // 4
	SaveOffSaveTime  = 0x08 // 4, unix seconds
	SaveOffPlayTime  = 0x0C // 4, accumulated seconds
	SaveOffLevel     = 0x10 // 4
	SaveOffScore     = 0x14 // 4
	SaveOffDataSize  = 0x18 // 4
	SaveOffData      = 0x1C // MaxSaveData max
)
