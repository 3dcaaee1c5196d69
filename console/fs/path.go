package fs

import (
	"errors"
	"strings"

	"github.com/joshuapare/consolekit/internal/layout"
)

// splitPath validates an absolute path and returns its components.
// "/" resolves to no components (the root itself).
func splitPath(path string) ([]string, error) {
	if path == "" || path[0] != '/' || len(path) > layout.FSMaxPath {
		return nil, ErrBadPath
	}
	var parts []string
	for _, c := range strings.Split(path[1:], "/") {
		if c == "" {
			continue
		}
		if len(c) >= layout.FSMaxFilename {
			return nil, ErrBadPath
		}
		parts = append(parts, c)
	}
	return parts, nil
}

// resolve walks path from the root and returns its inode number.
func (v *Volume) resolve(path string) (uint32, error) {
	parts, err := splitPath(path)
	if err != nil {
		return 0, err
	}
	cur := uint32(0) // root
	for _, name := range parts {
		next, err := v.lookupChild(cur, name)
		if err != nil {
			return 0, err
		}
		cur = next
	}
	return cur, nil
}

// resolveParent resolves everything but the last component and returns
// the parent directory's inode plus the leaf name.
func (v *Volume) resolveParent(path string) (uint32, string, error) {
	parts, err := splitPath(path)
	if err != nil {
		return 0, "", err
	}
	if len(parts) == 0 {
		return 0, "", ErrBadPath
	}
	cur := uint32(0)
	for _, name := range parts[:len(parts)-1] {
		next, err := v.lookupChild(cur, name)
		if err != nil {
			return 0, "", err
		}
		cur = next
	}
	return cur, parts[len(parts)-1], nil
}

// lookupChild finds name inside directory dir.
func (v *Volume) lookupChild(dir uint32, name string) (uint32, error) {
	d := &v.inodes[dir]
	if d.ftype != TypeDirectory {
		return 0, ErrNotDirectory
	}
	var found uint32
	ok := v.walkDir(d, func(entName string, entInode uint32) bool {
		if entName == name {
			found = entInode
			return true
		}
		return false
	})
	if !ok {
		return 0, ErrNotFound
	}
	return found, nil
}

// walkDir visits every entry of d until fn returns true. Reports whether
// the walk was stopped by fn.
func (v *Volume) walkDir(d *inode, fn func(name string, ino uint32) bool) bool {
	count := d.size / layout.FSDirEntrySize
	for i := uint32(0); i < count; i++ {
		raw := v.dirEntryBytes(d, i)
		ino := layout.ReadU32(raw, 0)
		name := string(layout.FieldBytes(raw, 4, layout.FSMaxFilename))
		if fn(name, ino) {
			return true
		}
	}
	return false
}

// dirEntryBytes returns the raw bytes of directory entry i. The per-block
// entry count rounds down, so entries never straddle a block boundary;
// the tail of each block stays unused.
func (v *Volume) dirEntryBytes(d *inode, i uint32) []byte {
	perBlock := uint32(layout.FSBlockSize / layout.FSDirEntrySize)
	blk := d.blocks[i/perBlock]
	off := (i % perBlock) * layout.FSDirEntrySize
	return v.blockSlice(blk)[off : off+layout.FSDirEntrySize]
}

// addDirEntry appends a (name, inode) row to directory d, growing it by a
// block when the last one is full.
func (v *Volume) addDirEntry(d *inode, name string, ino uint32) error {
	perBlock := uint32(layout.FSBlockSize / layout.FSDirEntrySize)
	idx := d.size / layout.FSDirEntrySize
	if idx/perBlock >= d.blockCnt {
		if d.blockCnt >= layout.FSDirectBlocks {
			return ErrFileTooLarge
		}
		blk, err := v.allocBlock()
		if err != nil {
			return err
		}
		d.blocks[d.blockCnt] = blk
		d.blockCnt++
	}
	d.size += layout.FSDirEntrySize
	raw := v.dirEntryBytes(d, idx)
	layout.PutU32(raw, 0, ino)
	layout.PutString(raw, 4, layout.FSMaxFilename, name)
	d.modified = v.now()
	return nil
}

// removeDirEntry deletes the row for name, compacting by moving the last
// entry into the hole.
func (v *Volume) removeDirEntry(d *inode, name string) error {
	count := d.size / layout.FSDirEntrySize
	for i := uint32(0); i < count; i++ {
		raw := v.dirEntryBytes(d, i)
		if string(layout.FieldBytes(raw, 4, layout.FSMaxFilename)) != name {
			continue
		}
		last := v.dirEntryBytes(d, count-1)
		copy(raw, last)
		d.size -= layout.FSDirEntrySize

		// Drop the trailing block once it holds no entries.
		perBlock := uint32(layout.FSBlockSize / layout.FSDirEntrySize)
		needed := (d.size/layout.FSDirEntrySize + perBlock - 1) / perBlock
		if needed == 0 {
			needed = 1 // a directory keeps at least one block
		}
		for d.blockCnt > needed {
			d.blockCnt--
			v.freeBlock(d.blocks[d.blockCnt])
			d.blocks[d.blockCnt] = 0
		}
		d.modified = v.now()
		return nil
	}
	return ErrNotFound
}

// Mkdir creates a directory. Parents must already exist.
func (v *Volume) Mkdir(path string) error {
	if !v.formatted {
		return ErrNotFormatted
	}
	parent, name, err := v.resolveParent(path)
	if err != nil {
		return err
	}
	if _, err := v.lookupChild(parent, name); err == nil {
		return ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	ino, err := v.allocInode()
	if err != nil {
		return err
	}
	blk, err := v.allocBlock()
	if err != nil {
		v.freeInode(ino)
		return err
	}
	now := v.now()
	n := &v.inodes[ino]
	n.num = ino
	n.ftype = TypeDirectory
	n.perm = 0o755
	n.created = now
	n.modified = now
	n.blocks[0] = blk
	n.blockCnt = 1

	if err := v.addDirEntry(&v.inodes[parent], name, ino); err != nil {
		v.freeBlock(blk)
		v.freeInode(ino)
		return err
	}
	return nil
}

// List returns the entries of the directory at path.
func (v *Volume) List(path string) ([]DirEntry, error) {
	if !v.formatted {
		return nil, ErrNotFormatted
	}
	ino, err := v.resolve(path)
	if err != nil {
		return nil, err
	}
	d := &v.inodes[ino]
	if d.ftype != TypeDirectory {
		return nil, ErrNotDirectory
	}
	var out []DirEntry
	v.walkDir(d, func(name string, child uint32) bool {
		c := &v.inodes[child]
		out = append(out, DirEntry{Name: name, Inode: child, Type: c.ftype, Size: c.size})
		return false
	})
	d.accessed = v.now()
	return out, nil
}
