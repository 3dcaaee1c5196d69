// Package game implements the console's catalog and session layer: game
// image headers, the installed-game registry, launch/stop lifecycle over
// the memory manager's process binder, and slot-based save files.
//
// # Overview
//
// A game ships as a 132-byte binary header followed by its code and data
// images. Install reads and validates the header from the file store and
// registers it by name. Launch binds a process (code block plus stack),
// claims the data segment and an optional save buffer, and streams the
// code image into place; every allocation is owned by the session's
// process id so Stop can bulk-release through ProcessDestroy.
//
// One game runs at a time. Saves occupy fixed slots 0-9 per game under
// /saves, bound to their game by the header checksum.
//
// # Header format
//
// Little-endian, fixed offsets (see internal/layout): signature "GAME",
// version, 64-byte name, 32-byte author (both Windows-1252, NUL padded),
// type, code size, data size, required memory, entry point, save-data
// size, and an additive rotate-left checksum computed with the checksum
// field zeroed.
package game
