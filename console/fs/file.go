package fs

import (
	"errors"
	"io"

	"github.com/joshuapare/consolekit/internal/layout"
)

// Create makes an empty regular file and returns a write descriptor.
// The parent directory must exist; creating over an existing name fails
// with ErrExists.
func (v *Volume) Create(path string) (int, error) {
	return v.CreateTyped(path, TypeRegular)
}

// CreateTyped is Create with an explicit file type, used by the game
// layer to mark game images and save files.
func (v *Volume) CreateTyped(path string, ftype FileType) (int, error) {
	if !v.formatted {
		return -1, ErrNotFormatted
	}
	if ftype == TypeDirectory {
		return -1, ErrIsDirectory
	}
	parent, name, err := v.resolveParent(path)
	if err != nil {
		return -1, err
	}
	if _, err := v.lookupChild(parent, name); err == nil {
		return -1, ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return -1, err
	}

	ino, err := v.allocInode()
	if err != nil {
		return -1, err
	}
	now := v.now()
	n := &v.inodes[ino]
	n.num = ino
	n.ftype = ftype
	n.perm = 0o644
	n.created = now
	n.modified = now

	if err := v.addDirEntry(&v.inodes[parent], name, ino); err != nil {
		v.freeInode(ino)
		return -1, err
	}
	return v.openHandle(ino, ModeWrite)
}

// Open returns a descriptor for the file at path. Directories cannot be
// opened; use List.
func (v *Volume) Open(path string, mode OpenMode) (int, error) {
	if !v.formatted {
		return -1, ErrNotFormatted
	}
	ino, err := v.resolve(path)
	if err != nil {
		return -1, err
	}
	if v.inodes[ino].ftype == TypeDirectory {
		return -1, ErrIsDirectory
	}
	v.inodes[ino].accessed = v.now()
	return v.openHandle(ino, mode)
}

func (v *Volume) openHandle(ino uint32, mode OpenMode) (int, error) {
	for fd := range v.handles {
		if !v.handles[fd].open {
			v.handles[fd] = fileHandle{inode: ino, mode: mode, open: true}
			return fd, nil
		}
	}
	return -1, ErrTooManyOpen
}

// Close releases a descriptor.
func (v *Volume) Close(fd int) error {
	h, err := v.handle(fd)
	if err != nil {
		return err
	}
	h.open = false
	return nil
}

func (v *Volume) handle(fd int) (*fileHandle, error) {
	if fd < 0 || fd >= len(v.handles) || !v.handles[fd].open {
		return nil, ErrBadDescriptor
	}
	return &v.handles[fd], nil
}

// Read copies up to len(p) bytes from the descriptor's position.
// Returns the byte count; 0 at end of file.
func (v *Volume) Read(fd int, p []byte) (int, error) {
	h, err := v.handle(fd)
	if err != nil {
		return 0, err
	}
	if h.mode&ModeRead == 0 {
		return 0, ErrBadDescriptor
	}
	n := &v.inodes[h.inode]

	read := 0
	for read < len(p) && h.pos < n.size {
		blkIdx := h.pos / layout.FSBlockSize
		blkOff := h.pos % layout.FSBlockSize
		if blkIdx >= n.blockCnt {
			break
		}
		chunk := layout.FSBlockSize - blkOff
		if rem := uint32(len(p) - read); chunk > rem {
			chunk = rem
		}
		if rem := n.size - h.pos; chunk > rem {
			chunk = rem
		}
		src := v.blockSlice(n.blocks[blkIdx])
		copy(p[read:], src[blkOff:blkOff+chunk])
		read += int(chunk)
		h.pos += chunk
	}
	n.accessed = v.now()
	return read, nil
}

// Write copies p at the descriptor's position, growing the file with
// first-fit data blocks. Files are bounded by the twelve direct block
// pointers; writes past that limit fail with ErrFileTooLarge before any
// byte lands.
func (v *Volume) Write(fd int, p []byte) (int, error) {
	h, err := v.handle(fd)
	if err != nil {
		return 0, err
	}
	if h.mode&ModeWrite == 0 {
		return 0, ErrBadDescriptor
	}
	n := &v.inodes[h.inode]

	end := uint64(h.pos) + uint64(len(p))
	if end > layout.FSMaxFileSize {
		return 0, ErrFileTooLarge
	}
	needed := uint32((end + layout.FSBlockSize - 1) / layout.FSBlockSize)
	for n.blockCnt < needed {
		blk, err := v.allocBlock()
		if err != nil {
			return 0, err
		}
		n.blocks[n.blockCnt] = blk
		n.blockCnt++
	}

	written := 0
	for written < len(p) {
		blkIdx := h.pos / layout.FSBlockSize
		blkOff := h.pos % layout.FSBlockSize
		chunk := layout.FSBlockSize - blkOff
		if rem := uint32(len(p) - written); chunk > rem {
			chunk = rem
		}
		dst := v.blockSlice(n.blocks[blkIdx])
		copy(dst[blkOff:], p[written:written+int(chunk)])
		written += int(chunk)
		h.pos += chunk
	}
	if h.pos > n.size {
		n.size = h.pos
	}
	n.modified = v.now()
	return written, nil
}

// Seek repositions the descriptor. Positions past the current size are
// clamped to it; whence follows the io package constants.
func (v *Volume) Seek(fd int, offset int64, whence int) (uint32, error) {
	h, err := v.handle(fd)
	if err != nil {
		return 0, err
	}
	size := int64(v.inodes[h.inode].size)

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(h.pos) + offset
	case io.SeekEnd:
		pos = size + offset
	default:
		return 0, ErrBadDescriptor
	}
	if pos < 0 {
		return 0, ErrBadPath
	}
	if pos > size {
		pos = size
	}
	h.pos = uint32(pos)
	return h.pos, nil
}

// Delete removes a file, returning its blocks and inode to the bitmaps.
// Directories must be empty.
func (v *Volume) Delete(path string) error {
	if !v.formatted {
		return ErrNotFormatted
	}
	parent, name, err := v.resolveParent(path)
	if err != nil {
		return err
	}
	ino, err := v.lookupChild(parent, name)
	if err != nil {
		return err
	}
	n := &v.inodes[ino]
	if n.ftype == TypeDirectory && n.size > 0 {
		return ErrNotEmpty
	}
	for fd := range v.handles {
		if v.handles[fd].open && v.handles[fd].inode == ino {
			v.handles[fd].open = false
		}
	}
	if err := v.removeDirEntry(&v.inodes[parent], name); err != nil {
		return err
	}
	for i := uint32(0); i < n.blockCnt; i++ {
		v.freeBlock(n.blocks[i])
	}
	v.freeInode(ino)
	return nil
}

// Stat reports the file at path.
func (v *Volume) Stat(path string) (FileInfo, error) {
	if !v.formatted {
		return FileInfo{}, ErrNotFormatted
	}
	ino, err := v.resolve(path)
	if err != nil {
		return FileInfo{}, err
	}
	parts, _ := splitPath(path)
	name := "/"
	if len(parts) > 0 {
		name = parts[len(parts)-1]
	}
	n := &v.inodes[ino]
	return FileInfo{
		Name:     name,
		Inode:    ino,
		Type:     n.ftype,
		Size:     n.size,
		Blocks:   n.blockCnt,
		Created:  n.created,
		Modified: n.modified,
	}, nil
}
