package report

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/joshuapare/consolekit/console/fs"
	"github.com/joshuapare/consolekit/console/game"
)

// jsonStorage represents a volume summary in JSON output.
type jsonStorage struct {
	Volume      string `json:"volume"`
	TotalBlocks uint32 `json:"total_blocks"`
	FreeBlocks  uint32 `json:"free_blocks"`
	TotalInodes uint32 `json:"total_inodes"`
	FreeInodes  uint32 `json:"free_inodes"`
	OpenFiles   int    `json:"open_files"`
}

// jsonGames represents a game-system summary in JSON output.
type jsonGames struct {
	Installed     int    `json:"installed"`
	Running       string `json:"running,omitempty"`
	State         string `json:"state"`
	GamesPlayed   uint32 `json:"games_played"`
	TotalPlayTime uint32 `json:"total_play_time_seconds"`
	BytesInFlight uint64 `json:"bytes_in_flight"`
}

// Storage renders a volume summary.
func (p *Printer) Storage(st fs.Stats) error {
	if p.opts.Format == FormatJSON {
		return p.marshal(jsonStorage{
			Volume:      st.Volume,
			TotalBlocks: st.TotalBlocks,
			FreeBlocks:  st.FreeBlocks,
			TotalInodes: st.TotalInodes,
			FreeInodes:  st.FreeInodes,
			OpenFiles:   st.OpenFiles,
		})
	}
	fmt.Fprintf(p.w, "volume %q: blocks %d/%d free, inodes %d/%d free, %d open files\n",
		st.Volume, st.FreeBlocks, st.TotalBlocks, st.FreeInodes, st.TotalInodes, st.OpenFiles)
	return nil
}

// Games renders a game-system summary.
func (p *Printer) Games(st game.Stats) error {
	if p.opts.Format == FormatJSON {
		return p.marshal(jsonGames{
			Installed:     st.Installed,
			Running:       st.Running,
			State:         st.State.String(),
			GamesPlayed:   st.GamesPlayed,
			TotalPlayTime: st.TotalPlayTime,
			BytesInFlight: st.BytesInFlight,
		})
	}
	running := st.Running
	if running == "" {
		running = "none"
	}
	fmt.Fprintf(p.w, "%d installed, running %s (%s), %d played, %ds total, %d bytes in flight\n",
		st.Installed, running, st.State, st.GamesPlayed, st.TotalPlayTime, st.BytesInFlight)
	return nil
}

func (p *Printer) marshal(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.w, "%s\n", data)
	return err
}
