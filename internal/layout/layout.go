// Package layout positions rulial graph nodes in the unit square.
//
// Positions are indexed like Graph.Nodes(). Every layout is deterministic:
// Spring takes an explicit seed.
package layout

import (
	"math"
	"math/rand"

	"github.com/san-kum/rulial/internal/rulial"
)

// Point is a position in [0,1]².
type Point struct {
	X, Y float64
}

// Margin keeps normalized points off the border.
const Margin = 0.05

// DefaultMaxNodes is the largest graph Spring lays out by force. Each
// iteration costs O(n²), so bigger families fall back to Circle.
const DefaultMaxNodes = 512

// Options configures Spring. MaxNodes <= 0 means DefaultMaxNodes.
type Options struct {
	Iterations int
	Seed       int64
	MaxNodes   int
}

// Circle places n points evenly on a circle, starting at the top.
func Circle(n int) []Point {
	pts := make([]Point, n)
	if n == 1 {
		pts[0] = Point{0.5, 0.5}
		return pts
	}
	r := 0.5 - Margin
	for i := range pts {
		a := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		pts[i] = Point{X: 0.5 + r*math.Cos(a), Y: 0.5 + r*math.Sin(a)}
	}
	return pts
}

// Spring runs a Fruchterman-Reingold force layout: every pair repels and
// every edge attracts. Self loops exert no force. Graphs larger than
// Options.MaxNodes get the Circle layout.
func Spring(g *rulial.Graph, opts Options) []Point {
	n := g.Len()
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Point{{0.5, 0.5}}
	}
	limit := opts.MaxNodes
	if limit <= 0 {
		limit = DefaultMaxNodes
	}
	if n > limit {
		return Circle(n)
	}
	iters := opts.Iterations
	if iters <= 0 {
		iters = 50
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	pos := make([]Point, n)
	for i := range pos {
		pos[i] = Point{X: rng.Float64(), Y: rng.Float64()}
	}

	slot := make(map[int]int, n)
	for i, m := range g.Nodes() {
		slot[m.ID] = i
	}
	var pairs [][2]int
	for _, e := range g.Edges() {
		a, b := slot[e.From], slot[e.To]
		if a == b || (a > b && g.HasEdge(e.To, e.From)) {
			continue
		}
		pairs = append(pairs, [2]int{a, b})
	}

	k := math.Sqrt(1.0 / float64(n))
	temp := 0.1
	cool := temp / float64(iters+1)
	disp := make([]Point, n)

	for it := 0; it < iters; it++ {
		for i := range disp {
			disp[i] = Point{}
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx, dy, d := delta(pos[i], pos[j])
				f := k * k / d
				disp[i].X += dx / d * f
				disp[i].Y += dy / d * f
				disp[j].X -= dx / d * f
				disp[j].Y -= dy / d * f
			}
		}
		for _, p := range pairs {
			a, b := p[0], p[1]
			dx, dy, d := delta(pos[a], pos[b])
			f := d * d / k
			disp[a].X -= dx / d * f
			disp[a].Y -= dy / d * f
			disp[b].X += dx / d * f
			disp[b].Y += dy / d * f
		}
		for i := range pos {
			l := math.Hypot(disp[i].X, disp[i].Y)
			if l == 0 {
				continue
			}
			step := math.Min(l, temp)
			pos[i].X += disp[i].X / l * step
			pos[i].Y += disp[i].Y / l * step
		}
		temp -= cool
	}
	return Normalize(pos)
}

func delta(a, b Point) (dx, dy, d float64) {
	dx, dy = a.X-b.X, a.Y-b.Y
	d = math.Hypot(dx, dy)
	if d < 1e-4 {
		d = 1e-4
	}
	return dx, dy, d
}

// Normalize scales points uniformly into [Margin, 1-Margin]², centering the
// shorter axis.
func Normalize(pts []Point) []Point {
	if len(pts) == 0 {
		return pts
	}
	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	out := make([]Point, len(pts))
	if span == 0 {
		for i := range out {
			out[i] = Point{0.5, 0.5}
		}
		return out
	}
	scale := (1 - 2*Margin) / span
	offX := (1 - (maxX-minX)*scale) / 2
	offY := (1 - (maxY-minY)*scale) / 2
	for i, p := range pts {
		out[i] = Point{X: offX + (p.X-minX)*scale, Y: offY + (p.Y-minY)*scale}
	}
	return out
}
