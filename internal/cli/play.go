package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stepmotion/pkg/pipeline"
	"github.com/matzehuels/stepmotion/pkg/render"
	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// playCommand creates the play command, an interactive terminal player
// that steps through a trace with animated transitions.
func (c *CLI) playCommand() *cobra.Command {
	var (
		layoutName string
		fps        int
		easing     string
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "play [file|url]",
		Short: "Play a trace interactively in the terminal",
		Long: `Play opens an algorithm trace in an interactive terminal player. Frames
are drawn with braille characters; transitions between steps animate
through the same interpolation the image renderers use.

Keys: left/right step, space pause/resume, a autoplay, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if fps == 0 {
				fps = fileCfg.Play.FPS
			}
			if fps == 0 {
				fps = pipeline.DefaultFPS
			}
			if fps < 1 || fps > 60 {
				return fmt.Errorf("fps %d outside [1, 60]", fps)
			}
			return c.runPlay(cmd.Context(), args[0], layoutName, fps, easing, refresh)
		},
	}

	cmd.Flags().StringVarP(&layoutName, "layout", "l", "", "layout override (default: resolved via the catalog)")
	cmd.Flags().IntVar(&fps, "fps", 0, "playback frame rate")
	cmd.Flags().StringVar(&easing, "easing", "", "easing curve: cubic (default), linear")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch remote traces, bypassing the HTTP cache")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, input, layoutName string, fps int, easingName string, refresh bool) error {
	seq, err := c.loadTrace(ctx, input, refresh)
	if err != nil {
		return err
	}

	ease, ok := render.EasingByName(easingName)
	if !ok {
		return fmt.Errorf("unknown easing %q (available: cubic, linear)", easingName)
	}

	runner := c.newRunner(false)
	defer runner.Close()

	scenes, err := runner.ComputeScenes(ctx, seq, pipeline.Options{Layout: layoutName})
	if err != nil {
		return err
	}

	model := newPlayerModel(seq, scenes, fps, ease)
	prog := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = prog.Run()
	return err
}

// =============================================================================
// PlayerModel - Interactive trace playback
// =============================================================================

// tickMsg drives the animation clock.
type tickMsg time.Time

// transitionDuration is the wall time a single step transition takes.
const transitionDuration = 400 * time.Millisecond

// autoplayHold is how long autoplay rests on a settled step.
const autoplayHold = 900 * time.Millisecond

// PlayerModel is the bubbletea model for interactive trace playback.
type PlayerModel struct {
	Seq    *trace.Sequence
	Scenes []*scene.Scene

	Cursor  int     // Current step
	From    int     // Step a running transition started at
	T       float64 // Transition progress in [0, 1]; 1 means settled
	Playing bool    // Autoplay enabled
	Hold    time.Duration

	FPS    int
	Ease   render.Easing
	Width  int
	Height int

	plan *scene.Plan // Active transition plan, nil when settled
}

// NewPlayerModel creates a player positioned at the first step.
func newPlayerModel(seq *trace.Sequence, scenes []*scene.Scene, fps int, ease render.Easing) PlayerModel {
	return PlayerModel{
		Seq:    seq,
		Scenes: scenes,
		T:      1,
		FPS:    fps,
		Ease:   ease,
		Width:  80,
		Height: 20,
	}
}

func (m PlayerModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.FPS), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m PlayerModel) Init() tea.Cmd {
	return m.tick()
}

// goTo starts a transition from the current step to target.
func (m PlayerModel) goTo(target int) PlayerModel {
	if target < 0 || target >= len(m.Scenes) || target == m.Cursor {
		return m
	}
	m.From = m.Cursor
	m.Cursor = target
	m.T = 0
	m.Hold = 0
	m.plan = scene.PlanTransition(m.Scenes[m.From], m.Scenes[m.Cursor])
	return m
}

func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.Playing = false
			return m.goTo(m.Cursor - 1), nil
		case "right", "l":
			m.Playing = false
			return m.goTo(m.Cursor + 1), nil
		case "home", "g":
			m.Playing = false
			return m.goTo(0), nil
		case "end", "G":
			m.Playing = false
			return m.goTo(len(m.Scenes) - 1), nil
		case " ", "a":
			m.Playing = !m.Playing
			m.Hold = 0
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	case tickMsg:
		dt := time.Second / time.Duration(m.FPS)
		if m.T < 1 {
			m.T += float64(dt) / float64(transitionDuration)
			if m.T >= 1 {
				m.T = 1
				m.plan = nil
			}
		} else if m.Playing {
			m.Hold += dt
			if m.Hold >= autoplayHold {
				if m.Cursor == len(m.Scenes)-1 {
					m.Playing = false
				} else {
					m = m.goTo(m.Cursor + 1)
				}
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// frame returns the scene to draw: the settled step, or an interpolated
// blend while a transition runs.
func (m PlayerModel) frame() *scene.Scene {
	if m.plan == nil || m.T >= 1 {
		return m.Scenes[m.Cursor]
	}
	return scene.InterpolateScene(m.plan, m.Ease(m.T))
}

func (m PlayerModel) View() string {
	var b strings.Builder

	step := m.Seq.Steps[m.Cursor]

	title := step.Title
	if title == "" {
		title = m.Seq.AlgorithmID
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Scenes))))
	if m.Playing {
		b.WriteString(StyleHighlight.Render("  ▶"))
	}
	b.WriteString("\n")

	if step.Explanation != "" {
		b.WriteString(StyleDim.Render(truncate(step.Explanation, m.Width-2)))
	}
	b.WriteString("\n\n")

	canvas := NewCanvas(m.Width, m.Height)
	canvas.DrawScene(m.frame())
	b.WriteString(lipgloss.NewStyle().Foreground(colorCyan).Render(canvas.String()))

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ step  space autoplay  g/G first/last  q quit"))

	return b.String()
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
