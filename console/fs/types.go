package fs

import "github.com/joshuapare/consolekit/internal/layout"

// FileType classifies an inode. Values match the console's historical
// type codes.
type FileType uint8

const (
	TypeRegular   FileType = 0
	TypeDirectory FileType = 1
	TypeGame      FileType = 2
	TypeSave      FileType = 3
)

func (t FileType) String() string {
	switch t {
	case TypeRegular:
		return "file"
	case TypeDirectory:
		return "dir"
	case TypeGame:
		return "game"
	case TypeSave:
		return "save"
	}
	return "unknown"
}

// OpenMode selects the access a descriptor grants.
type OpenMode uint8

const (
	ModeRead  OpenMode = 0x01
	ModeWrite OpenMode = 0x02
)

// inode is one slot of the inode table. Zero block pointers past
// blockCount are meaningless; the root directory is always inode 0.
type inode struct {
	num      uint32
	size     uint32
	created  uint32
	modified uint32
	accessed uint32
	perm     uint16
	ftype    FileType
	blocks   [layout.FSDirectBlocks]uint32
	blockCnt uint32
}

// fileHandle is one slot of the open-file table.
type fileHandle struct {
	inode uint32
	pos   uint32
	mode  OpenMode
	open  bool
}

// DirEntry is one row of a directory listing.
type DirEntry struct {
	Name  string
	Inode uint32
	Type  FileType
	Size  uint32
}

// FileInfo is the result of Stat.
type FileInfo struct {
	Name     string
	Inode    uint32
	Type     FileType
	Size     uint32
	Blocks   uint32
	Created  uint32 // unix seconds
	Modified uint32
}

// Geometry describes a volume's derived layout.
type Geometry struct {
	BlockSize        uint32
	TotalBlocks      uint32
	BitmapBlocks     uint32
	InodeTableBlocks uint32
	FirstDataBlock   uint32
	TotalInodes      uint32
}

// Stats is a point-in-time summary of the volume.
type Stats struct {
	TotalBlocks uint32
	FreeBlocks  uint32
	TotalInodes uint32
	FreeInodes  uint32
	OpenFiles   int
	Volume      string
}
