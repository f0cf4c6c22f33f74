package commands

import (
	"os"
	"time"

	"marketsnap/internal/market"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return market.AbsentToken
	}
	return t.Format(time.DateTime)
}
