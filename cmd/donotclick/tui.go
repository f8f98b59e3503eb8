package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"donotclick/internal/core/game"
	"donotclick/internal/core/reply"
)

const (
	tuiButtonBaseW = 14
	tuiButtonBaseH = 3
	tuiButtonMinW  = 10
	tuiButtonMinH  = 3

	tuiHeaderRows = 2
	tuiFooterRows = 2

	// Effect radii are tuned for pixels; terminal cells are coarser.
	tuiParamScale = 0.25
)

type replyMsg reply.Result

// tuiModel is the Bubble Tea model for the terminal mode. The same core
// drives it; only the rendering and input plumbing differ from the desktop.
type tuiModel struct {
	logger     *slog.Logger
	styles     tuiStyles
	tracker    *game.Tracker
	controller *game.Controller
	source     *reply.Source

	placement game.Placement
	pointer   game.Point

	width  int
	height int
	ready  bool

	message    string
	appliedSeq uint64
	headerTaps int
	debug      bool
	quitting   bool
}

func newTUIModel(cfg config, logger *slog.Logger) tuiModel {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return tuiModel{
		logger:  logger,
		styles:  defaultTUIStyles(),
		tracker: game.NewTracker(),
		controller: game.NewController(rng,
			game.Size{W: tuiButtonMinW, H: tuiButtonMinH},
			game.Size{W: tuiButtonBaseW, H: tuiButtonBaseH}),
		source:    newReplySource(cfg, logger),
		placement: game.Placement{X: 4, Y: 2, W: tuiButtonBaseW, H: tuiButtonBaseH},
		message:   "The button would prefer to be left alone.",
	}
}

func runTUI(cfg config, logger *slog.Logger) error {
	program := tea.NewProgram(newTUIModel(cfg, logger),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err := program.Run()
	return err
}

func (m tuiModel) Init() tea.Cmd {
	return m.awaitReply()
}

// awaitReply blocks on the reply mailbox and feeds the result back into the
// update loop, so UI state only ever changes there.
func (m tuiModel) awaitReply() tea.Cmd {
	results := m.source.Results()
	return func() tea.Msg {
		return replyMsg(<-results)
	}
}

func (m tuiModel) params() game.EffectParameters {
	return m.tracker.Parameters().Scaled(tuiParamScale)
}

func (m tuiModel) bounds() game.Bounds {
	return game.Bounds{
		W: float32(m.width),
		H: float32(m.height - tuiHeaderRows - tuiFooterRows),
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "l":
			enabled := m.source.Toggle()
			m.logger.Info("narration toggled", "enabled", enabled)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if bounds := m.bounds(); bounds.Valid() {
			m.placement = game.ClampTo(m.placement, bounds)
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case replyMsg:
		res := reply.Result(msg)
		if res.Seq >= m.appliedSeq {
			m.appliedSeq = res.Seq
			m.message = res.Text
		}
		return m, m.awaitReply()
	}

	return m, nil
}

func (m tuiModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	pointer := game.Point{X: float32(msg.X), Y: float32(msg.Y - tuiHeaderRows)}
	m.pointer = pointer

	switch {
	case msg.Action == tea.MouseActionMotion:
		if next, moved := m.controller.EvadePointer(m.placement, m.bounds(), m.params(), pointer); moved {
			m.placement = next
		}

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y < tuiHeaderRows {
			m.headerTaps++
			if m.headerTaps == adminUnlockTaps {
				m.debug = true
				m.logger.Info("debug status line unlocked")
			}
			return m, nil
		}
		if m.hitButton(pointer) {
			return m.handleClick()
		}
	}

	return m, nil
}

func (m tuiModel) hitButton(pointer game.Point) bool {
	return pointer.X >= m.placement.X && pointer.X < m.placement.X+m.placement.W &&
		pointer.Y >= m.placement.Y && pointer.Y < m.placement.Y+m.placement.H
}

func (m tuiModel) handleClick() (tea.Model, tea.Cmd) {
	state := m.tracker.OnClick()
	m.placement = m.controller.ComputeNextPlacement(m.placement, m.bounds(), m.params(), m.pointer)

	m.logger.Debug("click handled", "count", state.Count, "level", state.Level)
	m.source.Request(reply.Request{
		ClickCount: state.Count,
		Level:      state.Level,
		Prompt:     reply.PromptFor(state.Count, state.Level),
	})
	return m, nil
}

func (m tuiModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting..."
	}

	state := m.tracker.State()

	indicator := m.styles.IndicatorOff.Render("● narration off")
	if m.source.Enabled() {
		indicator = m.styles.IndicatorOn.Render("● narration on")
	}
	header := fmt.Sprintf("%s  %s  %s",
		m.styles.Title.Render("DON'T CLICK THE BUTTON"),
		m.styles.Counter.Render(fmt.Sprintf("clicks: %d", state.Count)),
		indicator,
	)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.styles.Message.Render(m.message))
	b.WriteString("\n")
	b.WriteString(m.renderField())
	b.WriteString(m.styles.Help.Render("don't click the button • l: toggle narration • q: quit"))
	if m.debug {
		params := m.params()
		b.WriteString("\n")
		b.WriteString(m.styles.Debug.Render(fmt.Sprintf(
			"level %d/%d  move %.1f  evade %.1f  last reply seq %d",
			state.Level, game.MaxLevel, params.MoveRadius, params.EvasionRadius, m.appliedSeq)))
	}
	return b.String()
}

func (m tuiModel) renderField() string {
	fieldH := m.height - tuiHeaderRows - tuiFooterRows
	if fieldH < 1 {
		return "\n"
	}

	bx := int(m.placement.X)
	by := int(m.placement.Y)
	bw := int(m.placement.W)
	bh := int(m.placement.H)
	if bx < 0 {
		bx = 0
	}
	if bx+bw > m.width {
		bx = max(0, m.width-bw)
	}

	label := "NO CLICK ZONE"
	if bw < len(label)+2 {
		label = "NO!"
	}
	if bw < len(label) {
		label = ""
	}

	var b strings.Builder
	for y := 0; y < fieldH; y++ {
		if y >= by && y < by+bh {
			content := ""
			if y == by+bh/2 {
				content = label
			}
			pad := (bw - len(content)) / 2
			row := strings.Repeat(" ", pad) + content
			row += strings.Repeat(" ", bw-len(row))
			b.WriteString(strings.Repeat(" ", bx))
			b.WriteString(m.styles.Button.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}
