package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/consolekit/cmd/memtop/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	debugMode := false
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--debug", "-d":
			debugMode = true
		case "--help", "-h":
			printHelp()
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("memtop %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built: %s\n", date)
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag: %s\n", arg)
			printUsage()
			os.Exit(1)
		}
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	logger.Info("starting memtop", "debug", debugMode)

	m, err := NewModel()
	if err != nil {
		logger.Error("boot failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error booting console: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if model, ok := finalModel.(Model); ok {
		model.Close()
	}

	logger.Info("memtop exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: memtop [options]\n")
	fmt.Fprintf(os.Stderr, "Try 'memtop --help' for more information.\n")
}

func printHelp() {
	fmt.Println("memtop - Interactive dashboard for the console memory manager")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  memtop [options]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Boots a scripted console session and shows its memory live:")
	fmt.Println("    - Colored memory-map bar, one segment per block")
	fmt.Println("    - Stats panel (counters, page frames, game catalog)")
	fmt.Println("    - Process table with the running game session")
	fmt.Println()
	fmt.Println("  Step the workload with space, compact with c, reset with r.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug      Write a JSON debug log under ~/.memtop/logs")
	fmt.Println("  -h, --help       Show this help")
	fmt.Println("  -v, --version    Show version information")
}
