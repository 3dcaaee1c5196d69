// Package fs implements the console's in-memory block and inode file
// store, used for game binaries and save files.
//
// # Overview
//
// A volume is a flat array of 512-byte blocks with a classic layout:
// superblock, block bitmap, inode bitmap, inode table, then data blocks.
// Files are inodes with twelve direct block pointers, which bounds a
// file at 6 KiB. Directories are ordinary files whose data blocks hold
// fixed 68-byte entries (inode index plus NUL-padded name).
//
// # Memory accounting
//
// The volume does not live inside the memory manager's buffer. New
// reserves spans through the manager (tag RESERVED) sized exactly to the
// volume's tables and data region, so the store's footprint shows up in
// memory stats, while the tables themselves are ordinary Go slices.
// Aliasing them into the managed buffer would break when compaction
// relocates the reserved spans. Unmount releases the reservations.
//
// # Usage
//
//	vol, err := fs.New(m, 10000)
//	if err != nil { ... }
//	defer vol.Unmount()
//	if err := vol.Format("GameOS"); err != nil { ... }
//
//	fd, _ := vol.Create("/games/pong.bin")
//	vol.Write(fd, header)
//	vol.Close(fd)
//
// Blocks and inodes are allocated first-fit from their bitmaps; freeing
// out-of-range or already-free entries is ignored, matching the
// console's permissive low-level conventions.
package fs
