package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/aaaronmiller/ripit/internal/segment"
	"github.com/aaaronmiller/ripit/internal/timestamp"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

// successf writes a green status line.
func successf(w io.Writer, format string, a ...any) {
	_, _ = green.Fprintf(w, format+"\n", a...)
}

// warnf writes a yellow warning line.
func warnf(w io.Writer, format string, a ...any) {
	_, _ = yellow.Fprintf(w, format+"\n", a...)
}

// failf writes a red failure line.
func failf(w io.Writer, format string, a ...any) {
	_, _ = red.Fprintf(w, format+"\n", a...)
}

// infof writes a plain status line.
func infof(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", a...)
}

// printSegments writes the resolved segment list for operator inspection.
// This is part of the observable contract: it is the record of how the
// derivation decided to cut the file.
func printSegments(w io.Writer, segs []segment.Segment) {
	for _, s := range segs {
		end := "EOF"
		if !s.End.Open() {
			end = timestamp.Clock(s.End.Seconds())
		}
		infof(w, "  %03d  %-40s  %s - %s", s.Index, s.Title, timestamp.Clock(s.Start), end)
	}
}
