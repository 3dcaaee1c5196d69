package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joshuapare/consolekit/console/mem"
)

// View renders the whole dashboard
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("memtop — console memory dashboard"))
	b.WriteString("\n")
	b.WriteString(m.renderMapPane())
	b.WriteString("\n")

	stats := m.renderStatsPane()
	procs := m.renderProcessPane()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, stats, procs))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.renderHelp())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	return b.String()
}

// renderMapPane draws the user region as one bar, a colored cell run
// per block proportional to its size.
func (m Model) renderMapPane() string {
	snap := m.con.m.Snapshot()

	blocks := make([]mem.BlockInfo, len(snap.Blocks))
	copy(blocks, snap.Blocks)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })

	barWidth := m.width - 6
	if barWidth < 16 {
		barWidth = 16
	}
	span := float64(snap.Stats.TotalMemory - snap.Stats.UserStart)

	var bar strings.Builder
	rendered := 0
	for _, blk := range blocks {
		cells := int(float64(blk.Size) / span * float64(barWidth))
		if cells < 1 {
			cells = 1
		}
		if rendered+cells > barWidth {
			cells = barWidth - rendered
		}
		if cells <= 0 {
			break
		}
		seg := strings.Repeat("█", cells)
		if blk.Free {
			bar.WriteString(freeSegmentStyle.Render(strings.Repeat("░", cells)))
		} else {
			bar.WriteString(segmentStyle(blk.Tag).Render(seg))
		}
		rendered += cells
	}

	legend := m.renderLegend(blocks)
	title := paneTitleStyle.Render(fmt.Sprintf("Memory map  0x%08X - 0x%08X",
		snap.Stats.UserStart, snap.Stats.TotalMemory))
	return paneStyle.Width(m.width - 2).Render(title + "\n" + bar.String() + "\n" + legend)
}

func (m Model) renderLegend(blocks []mem.BlockInfo) string {
	counts := map[mem.Tag]int{}
	free := 0
	for _, blk := range blocks {
		if blk.Free {
			free++
			continue
		}
		counts[blk.Tag]++
	}
	var parts []string
	for _, tag := range []mem.Tag{
		mem.TagKernel, mem.TagUser, mem.TagGame,
		mem.TagGraphics, mem.TagAudio, mem.TagReserved,
	} {
		if counts[tag] == 0 {
			continue
		}
		parts = append(parts, segmentStyle(tag).Render("█")+
			statusStyle.Render(fmt.Sprintf(" %s ×%d", tag, counts[tag])))
	}
	parts = append(parts, freeSegmentStyle.Render("░")+
		statusStyle.Render(fmt.Sprintf(" FREE ×%d", free)))
	return strings.Join(parts, "  ")
}

func (m Model) renderStatsPane() string {
	st := m.con.m.Stats()
	gs := m.con.sys.Stats()

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Stats"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Available   %s\n", formatSize(uint64(st.AvailableMemory)))
	fmt.Fprintf(&b, "Used        %s\n", formatSize(uint64(st.UsedMemory)))
	fmt.Fprintf(&b, "Allocs      %d\n", st.AllocationCount)
	fmt.Fprintf(&b, "Frees       %d\n", st.DeallocationCount)
	fmt.Fprintf(&b, "Compactions %d\n", st.FragmentationCount)
	fmt.Fprintf(&b, "Pages free  %d/%d\n", st.FreePages, st.TotalPages)
	fmt.Fprintf(&b, "Games       %d installed, %d played", gs.Installed, gs.GamesPlayed)
	return paneStyle.Render(b.String())
}

func (m Model) renderProcessPane() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Processes"))
	b.WriteString("\n")
	procs := m.con.m.Processes()
	if len(procs) == 0 {
		b.WriteString(statusStyle.Render("none"))
	}
	for i, p := range procs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "pid %-3d code %s  heap %s  blocks %d",
			p.ID,
			formatSize(uint64(p.CodeSize)),
			formatSize(uint64(p.HeapEnd-p.HeapStart)),
			p.LiveBlocks)
	}
	gs := m.con.sys.Stats()
	if gs.Running != "" {
		fmt.Fprintf(&b, "\n%s %s (%s, %s in flight)",
			actionStyle.Render("▶"), gs.Running, gs.State, formatSize(gs.BytesInFlight))
	}
	return paneStyle.Render(b.String())
}

func (m Model) renderStatus() string {
	next := script[m.stepIdx%len(script)].label
	line := fmt.Sprintf("step %d  last: %s  next: %s", m.stepCount, m.lastAction, next)
	out := statusStyle.Render(line)
	if m.err != nil {
		out += "  " + errorStyle.Render(m.err.Error())
	}
	out += "\n" + helpStyle.Render("space/n step · c compact · r reset · ? help · q quit")
	return out
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Keys"))
	b.WriteString("\n")
	b.WriteString("space/n  run the next scripted action\n")
	b.WriteString("c        compact the user region now\n")
	b.WriteString("r        shut down and boot a fresh console\n")
	b.WriteString("?        toggle this help\n")
	b.WriteString("q        quit")
	return paneStyle.Render(b.String())
}

func formatSize(n uint64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fK", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/(1024*1024))
	}
}
