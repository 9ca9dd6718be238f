package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/rulial/internal/layout"
	"github.com/san-kum/rulial/internal/rulial"
	"github.com/san-kum/rulial/internal/sim"
)

// RenderGraph draws g on a w x h cell canvas. pos is indexed like
// g.Nodes(); nodes are small circles, pairs are straight lines.
func RenderGraph(g *rulial.Graph, pos []layout.Point, w, h int) *Canvas {
	c := NewCanvas(w, h)
	if len(pos) != g.Len() {
		return c
	}
	sw, sh := c.Size()
	px := func(p layout.Point) (int, int) {
		return int(p.X * float64(sw-1)), int(p.Y * float64(sh-1))
	}

	slot := make(map[int]int, g.Len())
	for i, m := range g.Nodes() {
		slot[m.ID] = i
	}
	for _, e := range g.Pairs() {
		x0, y0 := px(pos[slot[e.From]])
		x1, y1 := px(pos[slot[e.To]])
		c.DrawLine(x0, y0, x1, y1)
	}
	for _, p := range pos {
		x, y := px(p)
		c.DrawCircle(x, y, 1)
	}
	return c
}

var (
	cellGlyphs = []rune{'·', '█', '▒', '░'}
	headGlyphs = []rune{'○', '●', '◆', '◇'}
)

func glyph(table []rune, sym int) rune {
	if sym >= 0 && sym < len(table) {
		return table[sym]
	}
	if sym >= 0 && sym < 10 {
		return rune('0' + sym)
	}
	return '?'
}

// SpaceTime renders a trace one row per configuration, cropped to the cells
// the head visited. The head cell uses a hollow or bold glyph.
func SpaceTime(tr *sim.Trace) string {
	if tr == nil || tr.Len() == 0 || len(tr.Tapes[0]) == 0 {
		return ""
	}
	n := len(tr.Tapes[0])
	clamp := func(p int) int { return max(0, min(p, n-1)) }

	lo, hi := clamp(tr.Positions[0]), clamp(tr.Positions[0])
	for _, p := range tr.Positions {
		lo, hi = min(lo, clamp(p)), max(hi, clamp(p))
	}
	lo, hi = max(0, lo-2), min(n-1, hi+2)

	var b strings.Builder
	for t, tape := range tr.Tapes {
		fmt.Fprintf(&b, "%4d │", t)
		head := tr.Positions[t]
		for i := lo; i <= hi; i++ {
			if i == head {
				b.WriteRune(glyph(headGlyphs, tape[i]))
			} else {
				b.WriteRune(glyph(cellGlyphs, tape[i]))
			}
		}
		fmt.Fprintf(&b, "│ q%d", tr.States[t])
		if head < 0 || head >= n {
			fmt.Fprintf(&b, " @%d", head)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
