package ingestion_engine

import (
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// textRun is a stretch of text drawn on one baseline.
type textRun struct {
	Y float64
	S string
}

// glyphGapRatio is the horizontal gap, relative to font size, beyond which two
// glyphs on the same baseline are treated as separate runs.
const glyphGapRatio = 0.25

// mergeGlyphs folds the per-glyph output of the pdf package into runs.
// Consecutive glyphs on the same baseline whose boxes touch join a run.
func mergeGlyphs(glyphs []pdf.Text) []textRun {
	var (
		runs []textRun
		cur  strings.Builder
		curY float64
		endX float64
		open bool
	)
	flush := func() {
		if open && cur.Len() > 0 {
			runs = append(runs, textRun{Y: curY, S: cur.String()})
		}
		cur.Reset()
		open = false
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		tolerance := glyphGapRatio * g.FontSize
		if open && g.Y == curY && math.Abs(g.X-endX) <= tolerance {
			cur.WriteString(g.S)
			endX = g.X + g.W
			continue
		}
		flush()
		cur.WriteString(g.S)
		curY = g.Y
		endX = g.X + g.W
		open = true
	}
	flush()
	return runs
}

// renderRuns lays runs out as lines: a run on the same baseline as the one
// before it (or the first run) is appended followed by a space, and a run on a
// new baseline starts a new line.
func renderRuns(runs []textRun) string {
	var (
		b       strings.Builder
		lastY   float64
		started bool
	)
	for _, r := range runs {
		if started && r.Y != lastY {
			b.WriteString("\n")
		}
		b.WriteString(r.S)
		b.WriteString(" ")
		lastY = r.Y
		started = true
	}
	return b.String()
}
