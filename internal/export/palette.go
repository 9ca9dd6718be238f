package export

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/rulial/internal/rulial"
)

// Palette returns n visually distinct colors spaced around the hue wheel.
func Palette(n int) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		out[i] = colorful.Hsv(float64(i)*360/float64(max(n, 1)), 0.65, 0.95)
	}
	return out
}

// ClassOf maps every node slot to the index of its equivalence class.
func ClassOf(g *rulial.Graph) []int {
	slot := make(map[int]int, g.Len())
	for i, m := range g.Nodes() {
		slot[m.ID] = i
	}
	out := make([]int, g.Len())
	for ci, ids := range g.Classes() {
		for _, id := range ids {
			out[slot[id]] = ci
		}
	}
	return out
}
