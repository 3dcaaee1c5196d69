package fs

import (
	"fmt"
	"time"

	"github.com/joshuapare/consolekit/console/mem"
	"github.com/joshuapare/consolekit/internal/layout"
)

// Volume is one mounted file store. A Volume is not safe for concurrent
// use, matching the manager it accounts against.
type Volume struct {
	m   *mem.Manager
	geo Geometry

	volumeName string
	formatted  bool

	blockBitmap []byte
	inodeBitmap []byte
	inodes      []inode
	data        []byte // totalBlocks * FSBlockSize

	freeBlocks uint32
	freeInodes uint32

	handles [layout.FSMaxOpenFiles]fileHandle

	// Memory-manager reservations covering the volume's footprint,
	// released by Unmount.
	reservations []reservation

	now func() uint32
}

// New sizes a volume of totalBlocks 512-byte blocks, reserving matching
// spans from the memory manager so the store's capacity is visible in
// memory stats. The volume is unusable until Format.
func New(m *mem.Manager, totalBlocks uint32) (*Volume, error) {
	if totalBlocks == 0 {
		return nil, fmt.Errorf("%w: zero blocks", ErrBadPath)
	}

	geo := Geometry{
		BlockSize:   layout.FSBlockSize,
		TotalBlocks: totalBlocks,
		TotalInodes: layout.FSMaxFiles,
	}
	geo.BitmapBlocks = (totalBlocks + layout.FSBlockSize*8 - 1) / (layout.FSBlockSize * 8)
	geo.InodeTableBlocks = (layout.FSMaxFiles*layout.FSInodeSize + layout.FSBlockSize - 1) / layout.FSBlockSize
	geo.FirstDataBlock = 1 + geo.BitmapBlocks + 1 + geo.InodeTableBlocks
	if geo.FirstDataBlock >= totalBlocks {
		return nil, fmt.Errorf("%w: %d blocks leave no data region", ErrNoSpace, totalBlocks)
	}

	v := &Volume{
		m:   m,
		geo: geo,
		now: func() uint32 { return uint32(time.Now().Unix()) },
	}

	// One reservation per on-disk region: superblock, block bitmap,
	// inode bitmap, inode table, data blocks.
	for _, size := range []uint32{
		layout.FSBlockSize,
		geo.BitmapBlocks * layout.FSBlockSize,
		layout.FSBlockSize,
		geo.InodeTableBlocks * layout.FSBlockSize,
		totalBlocks * layout.FSBlockSize,
	} {
		addr, err := m.Allocate(size, 0, mem.TagReserved, mem.NoProcess)
		if err != nil {
			v.releaseReservations()
			return nil, fmt.Errorf("fs: reserving %d bytes: %w", size, err)
		}
		v.reservations = append(v.reservations, reservation{addr: addr, size: size})
	}

	v.blockBitmap = make([]byte, geo.BitmapBlocks*layout.FSBlockSize)
	v.inodeBitmap = make([]byte, layout.FSBlockSize)
	v.inodes = make([]inode, layout.FSMaxFiles)
	v.data = make([]byte, totalBlocks*layout.FSBlockSize)
	v.freeBlocks = totalBlocks
	v.freeInodes = layout.FSMaxFiles
	return v, nil
}

// Unmount drops every open descriptor and releases the memory-manager
// reservations. The volume must not be used after.
func (v *Volume) Unmount() error {
	for i := range v.handles {
		v.handles[i] = fileHandle{}
	}
	v.formatted = false
	return v.releaseReservations()
}

// reservation remembers one reserved span as it was handed out. The
// address goes stale if the manager compacts in between.
type reservation struct {
	addr mem.Address
	size uint32
}

func (v *Volume) releaseReservations() error {
	var first error
	for _, r := range v.reservations {
		if err := v.releaseSpan(r); err != nil && first == nil {
			first = err
		}
	}
	v.reservations = nil
	return first
}

// releaseSpan frees the reserved span recorded in r. The recorded
// address is trusted only while a reserved block still lives there; a
// compaction moves the span, so it is found again by tag and size. The
// size match allows slack because allocation may have absorbed a small
// remainder into the span.
func (v *Volume) releaseSpan(r reservation) error {
	var best mem.BlockInfo
	found := false
	for _, b := range v.m.Blocks() {
		if b.Free || b.Tag != mem.TagReserved || b.Owner != mem.NoProcess || b.Size < r.size {
			continue
		}
		if b.Addr == r.addr {
			return v.m.Release(b.Addr)
		}
		if !found || b.Size < best.Size {
			best = b
			found = true
		}
	}
	if !found {
		return fmt.Errorf("fs: releasing %d reserved bytes: %w", r.size, mem.ErrUnknownAddress)
	}
	return v.m.Release(best.Addr)
}

// Format writes the volume metadata: clears both bitmaps and the inode
// table, marks the system blocks used, and creates the root directory as
// inode 0 with one data block.
func (v *Volume) Format(volumeName string) error {
	for i := range v.blockBitmap {
		v.blockBitmap[i] = 0
	}
	for i := range v.inodeBitmap {
		v.inodeBitmap[i] = 0
	}
	for i := range v.inodes {
		v.inodes[i] = inode{}
	}
	v.freeBlocks = v.geo.TotalBlocks
	v.freeInodes = v.geo.TotalInodes
	v.volumeName = volumeName
	v.formatted = true

	// System blocks precede the data region and are never allocatable.
	for b := uint32(0); b < v.geo.FirstDataBlock; b++ {
		v.blockBitmap[b/8] |= 1 << (b % 8)
		v.freeBlocks--
	}

	rootInode, err := v.allocInode()
	if err != nil {
		return err
	}
	rootBlock, err := v.allocBlock()
	if err != nil {
		return err
	}
	now := v.now()
	root := &v.inodes[rootInode]
	root.num = rootInode
	root.ftype = TypeDirectory
	root.perm = 0o755
	root.created = now
	root.modified = now
	root.blocks[0] = rootBlock
	root.blockCnt = 1
	return nil
}

// Geometry reports the volume's derived layout.
func (v *Volume) Geometry() Geometry {
	return v.geo
}

// Stats summarizes block, inode, and descriptor occupancy.
func (v *Volume) Stats() Stats {
	s := Stats{
		TotalBlocks: v.geo.TotalBlocks,
		FreeBlocks:  v.freeBlocks,
		TotalInodes: v.geo.TotalInodes,
		FreeInodes:  v.freeInodes,
		Volume:      v.volumeName,
	}
	for i := range v.handles {
		if v.handles[i].open {
			s.OpenFiles++
		}
	}
	return s
}

// allocBlock claims the first free data block. System blocks below
// FirstDataBlock are never returned.
func (v *Volume) allocBlock() (uint32, error) {
	if v.freeBlocks == 0 {
		return 0, ErrNoSpace
	}
	for b := v.geo.FirstDataBlock; b < v.geo.TotalBlocks; b++ {
		if v.blockBitmap[b/8]&(1<<(b%8)) == 0 {
			v.blockBitmap[b/8] |= 1 << (b % 8)
			v.freeBlocks--
			return b, nil
		}
	}
	return 0, ErrNoSpace
}

// freeBlock releases one data block. Out-of-range or already-free blocks
// are ignored.
func (v *Volume) freeBlock(b uint32) {
	if b < v.geo.FirstDataBlock || b >= v.geo.TotalBlocks {
		return
	}
	if v.blockBitmap[b/8]&(1<<(b%8)) != 0 {
		v.blockBitmap[b/8] &^= 1 << (b % 8)
		v.freeBlocks++
	}
}

// allocInode claims the lowest free inode slot.
func (v *Volume) allocInode() (uint32, error) {
	if v.freeInodes == 0 {
		return 0, ErrNoSpace
	}
	for i := uint32(0); i < v.geo.TotalInodes; i++ {
		if v.inodeBitmap[i/8]&(1<<(i%8)) == 0 {
			v.inodeBitmap[i/8] |= 1 << (i % 8)
			v.freeInodes--
			return i, nil
		}
	}
	return 0, ErrNoSpace
}

// freeInode releases one inode slot. Out-of-range or already-free slots
// are ignored.
func (v *Volume) freeInode(i uint32) {
	if i >= v.geo.TotalInodes {
		return
	}
	if v.inodeBitmap[i/8]&(1<<(i%8)) != 0 {
		v.inodeBitmap[i/8] &^= 1 << (i % 8)
		v.freeInodes++
		v.inodes[i] = inode{}
	}
}

// blockSlice returns the bytes of one data block.
func (v *Volume) blockSlice(b uint32) []byte {
	off := b * layout.FSBlockSize
	return v.data[off : off+layout.FSBlockSize]
}
