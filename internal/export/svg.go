package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/rulial/internal/layout"
	"github.com/san-kum/rulial/internal/rulial"
)

// Style controls SVG output.
type Style struct {
	Width, Height int
	Background    string
	EdgeColor     string
	NodeRadius    float64
	Labels        bool
}

// DefaultStyle is a dark canvas matching the terminal themes.
func DefaultStyle() Style {
	return Style{
		Width:      800,
		Height:     800,
		Background: "#0a0a0a",
		EdgeColor:  "#444444",
		NodeRadius: 8,
		Labels:     true,
	}
}

// SVG draws g at the given positions, which must be indexed like g.Nodes().
func SVG(g *rulial.Graph, pos []layout.Point, style Style) (string, error) {
	if len(pos) != g.Len() {
		return "", fmt.Errorf("export: %d positions for %d nodes", len(pos), g.Len())
	}
	if style.Width <= 0 || style.Height <= 0 {
		d := DefaultStyle()
		style.Width, style.Height = d.Width, d.Height
	}

	slot := make(map[int]int, g.Len())
	for i, m := range g.Nodes() {
		slot[m.ID] = i
	}
	px := func(p layout.Point) (float64, float64) {
		return p.X * float64(style.Width), p.Y * float64(style.Height)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g stroke="%s" stroke-width="1">
`, style.Width, style.Height, style.Width, style.Height, style.Background, style.EdgeColor)

	for _, e := range g.Pairs() {
		x1, y1 := px(pos[slot[e.From]])
		x2, y2 := px(pos[slot[e.To]])
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x1, y1, x2, y2)
	}
	sb.WriteString("</g>\n<g font-family=\"monospace\" font-size=\"10\" text-anchor=\"middle\">\n")

	colors := Palette(len(g.Classes()))
	class := ClassOf(g)
	for i, m := range g.Nodes() {
		x, y := px(pos[i])
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>%s</title></circle>
`, x, y, style.NodeRadius, colors[class[i]].Hex(), escape(m.Rules.String()))
		if style.Labels {
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#dddddd">%d</text>
`, x, y-style.NodeRadius-2, m.ID)
		}
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String(), nil
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return xmlEscaper.Replace(s) }
