package viz

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/san-kum/rulial/internal/export"
	"github.com/san-kum/rulial/internal/layout"
	"github.com/san-kum/rulial/internal/rulial"
)

const (
	bgIndex   = 0
	edgeIndex = 1
	// GIF palettes hold 256 colors; two go to background and edges.
	maxClassColors = 254
)

// RenderImage rasterizes g into a size x size paletted image with nodes
// colored by equivalence class.
func RenderImage(g *rulial.Graph, pos []layout.Point, size int) *image.Paletted {
	classes := len(g.Classes())
	colors := export.Palette(min(max(classes, 1), maxClassColors))
	pal := color.Palette{color.RGBA{10, 10, 10, 255}, color.RGBA{68, 68, 68, 255}}
	for _, c := range colors {
		pal = append(pal, c)
	}
	img := image.NewPaletted(image.Rect(0, 0, size, size), pal)
	if len(pos) != g.Len() {
		return img
	}

	px := func(p layout.Point) (int, int) {
		return int(p.X * float64(size-1)), int(p.Y * float64(size-1))
	}
	slot := make(map[int]int, g.Len())
	for i, m := range g.Nodes() {
		slot[m.ID] = i
	}
	for _, e := range g.Pairs() {
		x0, y0 := px(pos[slot[e.From]])
		x1, y1 := px(pos[slot[e.To]])
		line(img, x0, y0, x1, y1, edgeIndex)
	}

	r := max(2, size/100)
	for i, class := range export.ClassOf(g) {
		x, y := px(pos[i])
		idx := uint8(2 + class%len(colors))
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy <= r*r {
					img.SetColorIndex(x+dx, y+dy, idx)
				}
			}
		}
	}
	return img
}

func line(img *image.Paletted, x0, y0, x1, y1 int, idx uint8) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		img.SetColorIndex(x0, y0, idx)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Recorder collects frames for an animated GIF.
type Recorder struct {
	frames []*image.Paletted
	delay  int
}

// NewRecorder plays frames back at fps frames per second.
func NewRecorder(fps int) *Recorder {
	if fps <= 0 {
		fps = 1
	}
	return &Recorder{delay: max(1, 100/fps)}
}

func (r *Recorder) Add(img *image.Paletted) { r.frames = append(r.frames, img) }

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Reset() { r.frames = nil }

// Encode writes the animation, looping forever.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return errors.New("viz: no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return errors.Wrap(gif.EncodeAll(w, &anim), "viz: encode gif")
}

func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "viz: create %s", path)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "viz: close %s", path)
}
