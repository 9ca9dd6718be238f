package viz

import (
	"bytes"
	"context"
	"image/gif"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/rulial/internal/enumerate"
	"github.com/san-kum/rulial/internal/layout"
	"github.com/san-kum/rulial/internal/machine"
	"github.com/san-kum/rulial/internal/rulial"
	"github.com/san-kum/rulial/internal/sim"
)

func oneStep(t *testing.T) *rulial.Graph {
	t.Helper()
	ms, err := enumerate.Machines(enumerate.Signature{States: 1, Symbols: 2})
	if err != nil {
		t.Fatal(err)
	}
	g, err := rulial.Build(context.Background(), ms, 1)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestRenderGraph(t *testing.T) {
	g := oneStep(t)
	c := RenderGraph(g, layout.Circle(g.Len()), 40, 20)
	if c.Width != 40 || c.Height != 20 {
		t.Fatalf("unexpected size %dx%d", c.Width, c.Height)
	}
	if strings.Trim(c.String(), "⠀\n") == "" {
		t.Error("expected something drawn")
	}

	empty := RenderGraph(g, nil, 10, 5)
	if strings.Trim(empty.String(), "⠀\n") != "" {
		t.Error("mismatched positions should draw nothing")
	}
}

func TestSpaceTime(t *testing.T) {
	// (0,0)->0,1,R (0,1)->0,0,R writes a 1 and moves right every step.
	rt := machine.Complete(1, 2, []machine.Transition{
		{State: 0, Symbol: 1, Move: machine.Right},
		{State: 0, Symbol: 0, Move: machine.Right},
	})
	m := machine.New(0, rt, machine.PolicyHalt)
	tr := sim.NewTrace(m)
	r := sim.New()
	r.AddObserver(tr)
	r.Run(m, 3)

	out := SpaceTime(tr)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "○") {
		t.Errorf("initial row should mark the head on a blank cell: %q", lines[0])
	}
	if !strings.Contains(lines[3], "███○") {
		t.Errorf("expected three written cells before the head: %q", lines[3])
	}
	if !strings.HasSuffix(lines[3], "q0") {
		t.Errorf("expected state suffix: %q", lines[3])
	}

	if SpaceTime(nil) != "" {
		t.Error("expected empty output for nil trace")
	}
}

func TestSpaceTimeOffTape(t *testing.T) {
	rt := machine.Complete(1, 2, []machine.Transition{
		{State: 0, Symbol: 1, Move: machine.Left},
		{State: 0, Symbol: 1, Move: machine.Left},
	})
	m := machine.New(0, rt, machine.PolicyHalt)
	tr := sim.NewTrace(m)
	r := sim.New()
	r.AddObserver(tr)
	r.Run(m, 5)

	out := SpaceTime(tr)
	if !strings.Contains(out, "@-1") {
		t.Errorf("expected off-tape head marker:\n%s", out)
	}
}

func TestRecorder(t *testing.T) {
	g := oneStep(t)
	pos := layout.Circle(g.Len())
	rec := NewRecorder(4)

	var buf bytes.Buffer
	if err := rec.Encode(&buf); err == nil {
		t.Error("expected error without frames")
	}

	rec.Add(RenderImage(g, pos, 64))
	rec.Add(RenderImage(g, pos, 64))
	if rec.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", rec.Len())
	}
	if err := rec.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 2 || anim.Delay[0] != 25 {
		t.Errorf("unexpected animation: %d frames, delay %d", len(anim.Image), anim.Delay[0])
	}

	path := filepath.Join(t.TempDir(), "out.gif")
	if err := rec.Save(path); err != nil {
		t.Fatal(err)
	}
	if err := rec.Save(filepath.Join(t.TempDir(), "missing", "out.gif")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestRenderImageColorsClasses(t *testing.T) {
	g := oneStep(t)
	img := RenderImage(g, layout.Circle(g.Len()), 100)
	seen := map[uint8]bool{}
	for _, idx := range img.Pix {
		seen[idx] = true
	}
	if !seen[bgIndex] || !seen[edgeIndex] || !seen[2] || !seen[3] {
		t.Errorf("expected background, edges and two class colors, got %v", seen)
	}
}
