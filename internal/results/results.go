// Package results formats lap times and the end-of-race table.
package results

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"racer/internal/race"
)

// NoTime stands in for a lap that was never set.
const NoTime = "--:--.---"

// FormatTime renders d as mm:ss.mmm. Negative durations count as zero.
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, (ms%60000)/1000, ms%1000)
}

// FormatOptional is FormatTime, or NoTime when ok is false.
func FormatOptional(d time.Duration, ok bool) string {
	if !ok {
		return NoTime
	}
	return FormatTime(d)
}

// Table writes the lap-by-lap summary of res to w.
func Table(w io.Writer, res race.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Lap", "Time", ""})
	for i, lap := range res.Laps {
		mark := ""
		if res.HasBest && lap == res.Best {
			mark = "best"
		}
		t.AppendRow(table.Row{i + 1, FormatTime(lap), mark})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Best", FormatOptional(res.Best, res.HasBest), ""})
	t.AppendRow(table.Row{"Total", FormatTime(res.Total), ""})
	t.AppendFooter(table.Row{"Barrier hits", res.Collisions, ""})
	t.Render()
}
