package main

import (
	"fmt"
	"os"

	"github.com/joshuapare/consolekit/console/fs"
	"github.com/joshuapare/consolekit/console/game"
	"github.com/joshuapare/consolekit/console/mem"
	"github.com/joshuapare/consolekit/console/report"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Replay a full console session: boot, format, play, save",
		Long: `The demo command boots the whole stack the way the console firmware
does: 128 MiB of memory with the kernel at 1 MiB, a 10000-block volume
formatted as GameOS, the builtin catalog, then one session per game
with a save in slot 0 before stopping. Final state is reported at the
end.

Example:
  consctl demo
  consctl demo --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
	return cmd
}

func runDemo() error {
	printVerbose("Booting 128 MiB, kernel at 1 MiB\n")
	m, err := mem.New(128<<20, 1<<20)
	if err != nil {
		return fmt.Errorf("failed to boot manager: %w", err)
	}

	printVerbose("Mounting 10000-block volume\n")
	vol, err := fs.New(m, 10000)
	if err != nil {
		return fmt.Errorf("failed to mount volume: %w", err)
	}
	if err := vol.Format("GameOS"); err != nil {
		return fmt.Errorf("failed to format volume: %w", err)
	}

	sys, err := game.NewSystem(m, vol)
	if err != nil {
		return fmt.Errorf("failed to start game system: %w", err)
	}
	if err := sys.RegisterBuiltins(); err != nil {
		return fmt.Errorf("failed to register builtins: %w", err)
	}

	for i, entry := range sys.Games() {
		name := entry.Header.Name
		printInfo("Playing %s...\n", name)
		if err := sys.Launch(name); err != nil {
			return fmt.Errorf("launching %s: %w", name, err)
		}
		if err := sys.SetProgress(uint32(i+1), uint32(100*(i+1))); err != nil {
			return fmt.Errorf("progress for %s: %w", name, err)
		}
		save := []byte(fmt.Sprintf("state of %s", name))
		if err := sys.Save(0, save); err != nil {
			return fmt.Errorf("saving %s: %w", name, err)
		}
		if err := sys.Stop(); err != nil {
			return fmt.Errorf("stopping %s: %w", name, err)
		}
	}

	opts := report.DefaultOptions()
	if jsonOut {
		opts.Format = report.FormatJSON
	}
	p := report.New(os.Stdout, opts)
	if err := p.Games(sys.Stats()); err != nil {
		return err
	}
	if err := p.Storage(vol.Stats()); err != nil {
		return err
	}
	if err := p.MemoryMap(m.Snapshot()); err != nil {
		return err
	}

	if err := sys.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := vol.Unmount(); err != nil {
		return fmt.Errorf("unmount: %w", err)
	}
	return m.Close()
}
