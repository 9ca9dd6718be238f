package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rulial/internal/experiment"
	"github.com/san-kum/rulial/internal/layout"
	"github.com/san-kum/rulial/internal/rulial"
)

type (
	TickMsg  time.Time
	frameMsg struct{ frame *experiment.Frame }
	errMsg   struct{ err error }
)

// BuildFunc builds the graph for one step limit.
type BuildFunc func(ctx context.Context, stepLimit int) (*experiment.Frame, error)

// SweepOptions configures a SweepModel.
type SweepOptions struct {
	Frames        int
	FPS           int
	Width, Height int
	Theme         string
	GIFPath       string
	GIFSize       int
}

// SweepModel animates the rulial graph over step limits 0..Frames-1. Every
// frame is built from scratch the first time it is shown and cached for
// scrubbing. Init starts building step limit 0.
type SweepModel struct {
	ctx       context.Context
	build     BuildFunc
	place     func(*rulial.Graph) []layout.Point
	opts      SweepOptions
	frames    []*experiment.Frame
	positions [][]layout.Point
	cursor    int
	building  bool
	running   bool
	recording bool
	recorder  *Recorder
	theme     Theme
	styles    Styles
	showHelp  bool
	status    string
	err       error
}

func NewSweepModel(ctx context.Context, build BuildFunc, place func(*rulial.Graph) []layout.Point, opts SweepOptions) SweepModel {
	if opts.Frames <= 0 {
		opts.Frames = 1
	}
	if opts.FPS <= 0 {
		opts.FPS = 4
	}
	if opts.Width <= 0 {
		opts.Width = 60
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "rulial.gif"
	}
	if opts.GIFSize <= 0 {
		opts.GIFSize = 480
	}
	theme := GetTheme(opts.Theme)
	return SweepModel{
		ctx:      ctx,
		build:    build,
		place:    place,
		opts:     opts,
		running:  true,
		building: true,
		recorder: NewRecorder(opts.FPS),
		theme:    theme,
		styles:   NewStyles(theme),
	}
}

func (m SweepModel) Init() tea.Cmd {
	return tea.Batch(m.buildCmd(0), m.tick())
}

func (m SweepModel) buildCmd(limit int) tea.Cmd {
	ctx, build := m.ctx, m.build
	return func() tea.Msg {
		f, err := build(ctx, limit)
		if err != nil {
			return errMsg{err}
		}
		return frameMsg{f}
	}
}

func (m SweepModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances playback.
func (m SweepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "left", "h":
			m.running = false
			if m.cursor > 0 {
				m.cursor--
				m.capture()
			}
		case "right", "l":
			m.running = false
			return m.advance()
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.recorder.Reset()
				m.capture()
				m.status = "recording"
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case frameMsg:
		m.building = false
		if msg.frame.StepLimit == len(m.frames) {
			m.frames = append(m.frames, msg.frame)
			m.positions = append(m.positions, m.place(msg.frame.Graph))
		}
		m.cursor = len(m.frames) - 1
		m.capture()
	case errMsg:
		m.building = false
		m.err = msg.err
		return m, tea.Quit
	case TickMsg:
		if !m.running || m.building {
			return m, m.tick()
		}
		model, cmd := m.advance()
		return model, tea.Batch(cmd, m.tick())
	}
	return m, nil
}

// advance moves to the next frame, building it when it is not cached yet.
// Once every frame exists playback loops.
func (m SweepModel) advance() (SweepModel, tea.Cmd) {
	if m.building {
		return m, nil
	}
	if m.cursor+1 < len(m.frames) {
		m.cursor++
		m.capture()
		return m, nil
	}
	if len(m.frames) < m.opts.Frames {
		m.building = true
		return m, m.buildCmd(len(m.frames))
	}
	if m.running && len(m.frames) > 0 {
		m.cursor = 0
		m.capture()
	}
	return m, nil
}

func (m *SweepModel) capture() {
	if !m.recording || m.cursor >= len(m.frames) {
		return
	}
	m.recorder.Add(RenderImage(m.frames[m.cursor].Graph, m.positions[m.cursor], m.opts.GIFSize))
}

func (m *SweepModel) stopRecording() {
	m.recording = false
	if m.recorder.Len() == 0 {
		m.status = ""
		return
	}
	if err := m.recorder.Save(m.opts.GIFPath); err != nil {
		m.status = err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.opts.GIFPath)
	}
	m.recorder.Reset()
}

// Err is the build error that stopped the viewer, if any.
func (m SweepModel) Err() error { return m.err }

// Frames returns the frames built so far.
func (m SweepModel) Frames() []*experiment.Frame { return m.frames }

// Cursor is the index of the frame on screen.
func (m SweepModel) Cursor() int { return m.cursor }

// View renders the TUI interface.
func (m SweepModel) View() string {
	st := m.styles
	if m.err != nil {
		return st.Error.Render("error: "+m.err.Error()) + "\n"
	}
	if len(m.frames) == 0 {
		return st.Header.Render("RULIAL") + "\nbuilding step limit 0...\n"
	}

	f := m.frames[m.cursor]
	canvas := RenderGraph(f.Graph, m.positions[m.cursor], m.opts.Width, m.opts.Height)
	canvasView := st.Graph.Render(canvas.String())

	var s strings.Builder
	s.WriteString(st.Header.Render(GradientText("RULIAL SPACE", m.theme.Primary, m.theme.Secondary)) + "\n")

	status := st.Running.Render("PLAYING")
	if !m.running {
		status = st.Paused.Render("PAUSED")
	}
	if m.recording {
		status += " " + st.Recording.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Step limit", fmt.Sprintf("%d / %d", f.StepLimit, m.opts.Frames-1))
	row("Machines", fmt.Sprintf("%d", f.Stats.Nodes))
	row("Edges", fmt.Sprintf("%d", f.Stats.Edges))
	row("Classes", fmt.Sprintf("%d (largest %d)", f.Stats.Classes, f.Stats.LargestClass))
	row("Halted", fmt.Sprintf("%d", f.Stats.Halted))
	row("Density", fmt.Sprintf("%.3f", f.Stats.Density))
	row("Build", f.Elapsed.Round(time.Microsecond).String())
	row("Built", ProgressBar(len(m.frames), m.opts.Frames, 20))

	if len(m.frames) > 1 {
		classes := make([]float64, len(m.frames))
		for i, fr := range m.frames {
			classes[i] = float64(fr.Stats.Classes)
		}
		chart := asciigraph.Plot(classes, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("classes by step limit"))
		s.WriteString("\n" + chart + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + st.Value.Render(m.status) + "\n")
	}
	s.WriteString(st.KeyHint.Render("SP:Pause ←→:Scrub Q:Quit\nT:Theme  G:Record  ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.Panel.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume playback    ║
║  Left/H   - Previous step limit      ║
║  Right/L  - Next step limit          ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
