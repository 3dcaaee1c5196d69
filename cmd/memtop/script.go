package main

import (
	"fmt"

	"github.com/joshuapare/consolekit/console/fs"
	"github.com/joshuapare/consolekit/console/game"
	"github.com/joshuapare/consolekit/console/mem"
)

// Console geometry for the dashboard session. Small enough that every
// step visibly moves the map, large enough for the framebuffer and a
// game or two.
const (
	consoleMemory = 32 << 20
	kernelStart   = 1 << 20
	volumeBlocks  = 2000
)

// console bundles the booted stack plus the scratch blocks the script
// churns through.
type console struct {
	m       *mem.Manager
	vol     *fs.Volume
	sys     *game.System
	scratch []mem.Address
}

func bootConsole() (*console, error) {
	m, err := mem.New(consoleMemory, kernelStart)
	if err != nil {
		return nil, fmt.Errorf("booting manager: %w", err)
	}
	vol, err := fs.New(m, volumeBlocks)
	if err != nil {
		return nil, fmt.Errorf("mounting volume: %w", err)
	}
	if err := vol.Format("GameOS"); err != nil {
		return nil, fmt.Errorf("formatting volume: %w", err)
	}
	sys, err := game.NewSystem(m, vol)
	if err != nil {
		return nil, fmt.Errorf("starting game system: %w", err)
	}
	if err := sys.RegisterBuiltins(); err != nil {
		return nil, fmt.Errorf("registering builtins: %w", err)
	}
	return &console{m: m, vol: vol, sys: sys}, nil
}

func (c *console) close() {
	if c.sys != nil {
		c.sys.Shutdown()
	}
	if c.vol != nil {
		c.vol.Unmount()
	}
	if c.m != nil {
		c.m.Close()
	}
}

// scriptStep is one keypress worth of console activity.
type scriptStep struct {
	label string
	run   func(c *console) error
}

// script is the looped session the dashboard steps through: scratch
// allocations to dirty the map, game sessions with saves, releases to
// open holes, and a compaction to close them again.
var script = []scriptStep{
	{"alloc 256K game data", func(c *console) error {
		return c.alloc(256<<10, mem.TagGame)
	}},
	{"alloc 64K audio", func(c *console) error {
		return c.alloc(64<<10, mem.TagAudio)
	}},
	{"launch Pong", func(c *console) error {
		return c.sys.Launch("Pong")
	}},
	{"score points", func(c *console) error {
		return c.sys.SetProgress(3, 1200)
	}},
	{"save slot 0", func(c *console) error {
		return c.sys.Save(0, []byte("pong state"))
	}},
	{"stop Pong", func(c *console) error {
		return c.sys.Stop()
	}},
	{"alloc 512K user", func(c *console) error {
		return c.alloc(512<<10, mem.TagUser)
	}},
	{"alloc 128K user", func(c *console) error {
		return c.alloc(128<<10, mem.TagUser)
	}},
	{"free oldest scratch", func(c *console) error {
		return c.freeOldest()
	}},
	{"launch Tetris", func(c *console) error {
		return c.sys.Launch("Tetris")
	}},
	{"save slot 1", func(c *console) error {
		return c.sys.Save(1, []byte("tetris state"))
	}},
	{"stop Tetris", func(c *console) error {
		return c.sys.Stop()
	}},
	{"free oldest scratch", func(c *console) error {
		return c.freeOldest()
	}},
	{"free oldest scratch", func(c *console) error {
		return c.freeOldest()
	}},
	{"compact", func(c *console) error {
		c.scratch = nil // compaction moves blocks, drop stale addresses
		return c.m.Compact()
	}},
}

func (c *console) alloc(size uint32, tag mem.Tag) error {
	a, err := c.m.Allocate(size, 0, tag, mem.NoProcess)
	if err != nil {
		return err
	}
	c.scratch = append(c.scratch, a)
	return nil
}

func (c *console) freeOldest() error {
	if len(c.scratch) == 0 {
		return nil
	}
	a := c.scratch[0]
	c.scratch = c.scratch[1:]
	return c.m.Release(a)
}
