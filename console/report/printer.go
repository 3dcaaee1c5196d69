// Package report renders console state snapshots for humans and tools:
// fixed-width text for terminals, JSON for everything else.
package report

import (
	"io"

	"github.com/joshuapare/consolekit/console/mem"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// ShowFree includes free blocks in the memory map.
	// Default: true
	ShowFree bool

	// ShowPages includes the page-frame summary.
	// Default: false
	ShowPages bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Format:   FormatText,
		ShowFree: true,
	}
}

// Printer renders snapshots to a writer.
type Printer struct {
	w    io.Writer
	opts Options
}

// New creates a Printer with the given options.
func New(w io.Writer, opts Options) *Printer {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	return &Printer{w: w, opts: opts}
}

// MemoryMap renders the block lists and stats of one snapshot.
func (p *Printer) MemoryMap(snap mem.Snapshot) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.memoryMapJSON(snap)
	default:
		return p.memoryMapText(snap)
	}
}

// Processes renders the given process table entries.
func (p *Printer) Processes(infos []mem.ProcessInfo) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.processesJSON(infos)
	default:
		return p.processesText(infos)
	}
}
