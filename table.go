package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"charvideo/pipeline"
	"charvideo/pool"
	"charvideo/video"
)

// newTable returns a rounded table writer with one header row. Columns listed
// in rightAligned (1-based) are right aligned.
func newTable(title string, headers []string, rightAligned ...int) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if title != "" {
		tw.SetTitle(title)
	}

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, col := range rightAligned {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw
}

func renderFailures(report pool.Report) string {
	title := fmt.Sprintf("%s of %s frames failed", humanize.Comma(int64(report.Failed())), humanize.Comma(int64(report.Total)))
	tw := newTable(title, []string{"Frame", "Error"})
	for _, f := range report.Failures {
		tw.AppendRow(table.Row{f.Frame, f.Err})
	}
	return tw.Render()
}

func renderSummary(s pipeline.Summary) string {
	audio := "no"
	if s.Audio {
		audio = "copied"
	}

	tw := newTable("", []string{"Result", "Value"}, 2)
	tw.AppendRows([]table.Row{
		{"Output", s.Output},
		{"Size", humanize.Bytes(uint64(max(s.OutputBytes, 0)))},
		{"Source", fmt.Sprintf("%s %dx%d @ %s", s.Source.CodecName, s.Source.Width, s.Source.Height, s.Source.AvgFrameRate)},
		{"Frames", humanize.Comma(int64(s.Report.Rendered))},
		{"Frame rate", strconv.Itoa(s.FrameRate) + " fps"},
		{"Audio", audio},
		{"Workers", s.Report.Workers},
		{"Render time", s.Report.Elapsed.Round(10 * time.Millisecond)},
		{"Total time", s.Elapsed.Round(10 * time.Millisecond)},
	})
	if s.Removed > 0 {
		tw.AppendRow(table.Row{"Frames deleted", humanize.Comma(int64(s.Removed))})
	}
	return tw.Render()
}

func renderToolStatus(statuses []video.Status) string {
	tw := newTable("", []string{"Tool", "Status", "Detail", "Used for"})
	for _, status := range statuses {
		state, detail := "ok", status.Path
		if !status.Available {
			state, detail = "missing", status.Detail
		}
		tw.AppendRow(table.Row{status.Name, state, detail, status.Description})
	}
	return tw.Render()
}
