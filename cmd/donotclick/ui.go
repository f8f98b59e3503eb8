package main

import (
	"fmt"
	"image/color"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"donotclick/internal/core/game"
	"donotclick/internal/core/reply"
)

const (
	windowWidth  = 480
	windowHeight = 400

	buttonBaseW = 120
	buttonBaseH = 40
	buttonMinW  = 70
	buttonMinH  = 32

	jiggleStepDelay = 30 * time.Millisecond
)

type gameTheme struct {
	base fyne.Theme
}

func newGameTheme() fyne.Theme {
	return &gameTheme{base: theme.DarkTheme()}
}

func (t *gameTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x10, G: 0x0d, B: 0x14, A: 0xff}
	case theme.ColorNameButton:
		return color.NRGBA{R: 0x2c, G: 0x1d, B: 0x23, A: 0xff}
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return color.NRGBA{R: 0xff, G: 0x66, B: 0x66, A: 0xff}
	case theme.ColorNameFocus:
		return color.NRGBA{R: 0xff, G: 0x7a, B: 0x7a, A: 0x66}
	case theme.ColorNameHover:
		return color.NRGBA{R: 0xff, G: 0x7a, B: 0x7a, A: 0x22}
	case theme.ColorNamePressed:
		return color.NRGBA{R: 0xff, G: 0x7a, B: 0x7a, A: 0x40}
	case theme.ColorNameForeground:
		return color.NRGBA{R: 0xf2, G: 0xf4, B: 0xf8, A: 0xff}
	case theme.ColorNameError:
		return color.NRGBA{R: 0xff, G: 0x82, B: 0x82, A: 0xff}
	case theme.ColorNameSuccess:
		return color.NRGBA{R: 0x7f, G: 0xd4, B: 0xa8, A: 0xff}
	}
	return t.base.Color(name, variant)
}

func (t *gameTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *gameTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *gameTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameInnerPadding:
		return 6
	}
	return t.base.Size(name)
}

// evadeButton is the button the player is told not to click. It reports
// pointer proximity so the controller can move it out of the way, and
// answers right-clicks with a status popup.
type evadeButton struct {
	widget.Button
	onHover      func(pos fyne.Position)
	onRightClick func()
}

func newEvadeButton(label string, tapped func()) *evadeButton {
	b := &evadeButton{}
	b.Text = label
	b.OnTapped = tapped
	b.ExtendBaseWidget(b)
	return b
}

func (b *evadeButton) MouseIn(ev *desktop.MouseEvent) {
	b.Button.MouseIn(ev)
	b.reportHover(ev)
}

func (b *evadeButton) MouseMoved(ev *desktop.MouseEvent) {
	b.Button.MouseMoved(ev)
	b.reportHover(ev)
}

func (b *evadeButton) reportHover(ev *desktop.MouseEvent) {
	if b.onHover == nil {
		return
	}
	pos := b.Position()
	b.onHover(fyne.NewPos(pos.X+ev.Position.X, pos.Y+ev.Position.Y))
}

func (b *evadeButton) TappedSecondary(*fyne.PointEvent) {
	if b.onRightClick != nil {
		b.onRightClick()
	}
}

// hoverArea is an invisible backdrop that reports pointer motion across the
// play area, so evasion can start before the pointer reaches the button.
type hoverArea struct {
	widget.BaseWidget
	onMove func(pos fyne.Position)
}

func newHoverArea(onMove func(pos fyne.Position)) *hoverArea {
	h := &hoverArea{onMove: onMove}
	h.ExtendBaseWidget(h)
	return h
}

func (h *hoverArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (h *hoverArea) MouseIn(ev *desktop.MouseEvent) { h.report(ev) }

func (h *hoverArea) MouseMoved(ev *desktop.MouseEvent) { h.report(ev) }

func (h *hoverArea) MouseOut() {}

func (h *hoverArea) report(ev *desktop.MouseEvent) {
	if h.onMove != nil {
		h.onMove(ev.Position)
	}
}

func runUI(cfg config) error {
	fApp := app.New()
	fApp.Settings().SetTheme(newGameTheme())

	window := fApp.NewWindow("Human Testing App")
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.SetFixedSize(true)
	window.CenterOnScreen()

	logGrid := widget.NewTextGrid()
	logScroll := container.NewVScroll(logGrid)
	logScroll.SetMinSize(fyne.NewSize(0, 110))

	const maxUILogLines = 50
	var logMu sync.Mutex
	logLines := make([]string, 0, maxUILogLines)
	appendLogLine := func(line string) {
		line = strings.TrimSpace(line)
		if line == "" {
			return
		}

		logMu.Lock()
		logLines = append(logLines, line)
		if len(logLines) > maxUILogLines {
			logLines = logLines[len(logLines)-maxUILogLines:]
		}
		logText := strings.Join(logLines, "\n")
		logMu.Unlock()

		fyne.Do(func() {
			logGrid.SetText(logText)
			logScroll.ScrollToBottom()
		})
	}

	logger := newSlogLogger(cfg.logLevel, appendLogLine)
	source := newReplySource(cfg, logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	tracker := game.NewTracker()
	controller := game.NewController(rng,
		game.Size{W: buttonMinW, H: buttonMinH},
		game.Size{W: buttonBaseW, H: buttonBaseH})

	title := canvas.NewText("Don't Click the Button!", color.NRGBA{R: 0xff, G: 0x75, B: 0x75, A: 0xff})
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 22

	messageLabel := widget.NewLabel("The button would prefer to be left alone.")
	messageLabel.Wrapping = fyne.TextWrapWord

	indicator := canvas.NewCircle(theme.Color(theme.ColorNameSuccess))
	statusLabel := widget.NewLabel("narration: on (Ctrl+L)")
	setIndicator := func(enabled bool) {
		if enabled {
			indicator.FillColor = theme.Color(theme.ColorNameSuccess)
			statusLabel.SetText("narration: on (Ctrl+L)")
		} else {
			indicator.FillColor = theme.Color(theme.ColorNameError)
			statusLabel.SetText("narration: off (Ctrl+L)")
		}
		indicator.Refresh()
	}
	setIndicator(source.Enabled())

	logsCard := widget.NewCard("Debug", "", logScroll)
	logsCard.Hide()

	// The counter doubles as the admin control: five taps reveal the logs.
	adminTaps := 0
	counter := widget.NewButton("Clicks: 0", nil)
	counter.Importance = widget.LowImportance
	counter.OnTapped = func() {
		adminTaps++
		if adminTaps == adminUnlockTaps {
			logsCard.Show()
			logger.Info("debug panel unlocked")
		}
	}

	button := newEvadeButton("No Click Zone", nil)

	// settled is the authoritative placement; the jiggle animation shakes
	// around it and always returns to it. UI thread only.
	settled := game.Placement{X: 100, Y: 60, W: buttonBaseW, H: buttonBaseH}
	lastPointer := game.Point{}
	var jiggling atomic.Bool

	applyPlacement := func(p game.Placement) {
		settled = p
		button.Move(fyne.NewPos(p.X, p.Y))
		button.Resize(fyne.NewSize(p.W, p.H))
	}

	hover := newHoverArea(nil)
	// The stack sizes the hover backdrop to the whole play area while the
	// inner free-layout container lets the button move anywhere inside it.
	playArea := container.NewStack(hover, container.NewWithoutLayout(button))
	playBounds := func() game.Bounds {
		size := playArea.Size()
		return game.Bounds{W: size.Width, H: size.Height}
	}

	onPointer := func(pos fyne.Position) {
		lastPointer = game.Point{X: pos.X, Y: pos.Y}
		next, moved := controller.EvadePointer(settled, playBounds(), tracker.Parameters(), lastPointer)
		if moved {
			applyPlacement(next)
		}
	}
	hover.onMove = onPointer
	button.onHover = onPointer

	startJiggle := func(params game.EffectParameters) {
		if !jiggling.CompareAndSwap(false, true) {
			return
		}
		offsets := game.JiggleOffsets(params)
		go func() {
			defer jiggling.Store(false)
			for _, d := range offsets {
				delta := d
				fyne.Do(func() {
					pos := button.Position()
					button.Move(fyne.NewPos(pos.X+delta.X, pos.Y+delta.Y))
				})
				time.Sleep(jiggleStepDelay)
			}
			fyne.Do(func() {
				button.Move(fyne.NewPos(settled.X, settled.Y))
			})
		}()
	}

	button.OnTapped = func() {
		state := tracker.OnClick()
		params := tracker.Parameters()

		counter.SetText(fmt.Sprintf("Clicks: %d", state.Count))
		title.Text = fmt.Sprintf("Bad Human! Clicks: %d", state.Count)
		title.Refresh()

		applyPlacement(controller.ComputeNextPlacement(settled, playBounds(), params, lastPointer))
		startJiggle(params)

		logger.Debug("click handled", "count", state.Count, "level", state.Level)
		source.Request(reply.Request{
			ClickCount: state.Count,
			Level:      state.Level,
			Prompt:     reply.PromptFor(state.Count, state.Level),
		})
	}

	button.onRightClick = func() {
		state := tracker.State()
		params := tracker.Parameters()
		narration := "no replies yet"
		if last := source.LastResult(); last != nil {
			narration = "generated"
			if last.Fallback {
				narration = "fallback (" + string(last.Reason) + ")"
			}
		}
		dialog.ShowInformation("Button status",
			fmt.Sprintf("Clicks: %d\nDifficulty: %d of %d\nMove radius: %.0f\nEvasion radius: %.0f\nLast narration: %s",
				state.Count, state.Level, game.MaxLevel, params.MoveRadius, params.EvasionRadius, narration),
			window)
	}

	// Reply results arrive on a background goroutine and are applied on the
	// UI thread. Older sequence numbers never overwrite newer ones.
	go func() {
		var appliedSeq uint64
		for res := range source.Results() {
			if res.Seq < appliedSeq {
				continue
			}
			appliedSeq = res.Seq
			res := res
			fyne.Do(func() {
				messageLabel.SetText(res.Text)
				if res.Fallback && res.Reason != reply.ReasonDisabled {
					logger.Warn("narration fell back", "reason", string(res.Reason))
				}
			})
		}
	}()

	toggleNarration := func() {
		enabled := source.Toggle()
		setIndicator(enabled)
		logger.Info("narration toggled", "enabled", enabled)
	}
	window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyL,
		Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) { toggleNarration() })

	indicatorBox := container.NewGridWrap(fyne.NewSize(14, 14), indicator)
	statusRow := container.NewHBox(counter, layout.NewSpacer(), indicatorBox, statusLabel)
	top := container.NewVBox(title, statusRow, messageLabel)

	window.SetContent(container.NewBorder(top, logsCard, nil, nil, playArea))

	applyPlacement(settled)
	window.ShowAndRun()
	return nil
}
