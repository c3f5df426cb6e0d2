package main

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/katistix/envelope/internal/motion"
	"github.com/katistix/envelope/internal/phase"
)

// --- BUBBLE TEA MODEL ---

// model draws the card for whatever phase the machine is in. It never
// sets a phase itself: clicks and keys call the machine's operations,
// and the model follows the changes the machine reports.
type model struct {
	cfg         CardConfig
	machine     *phase.Machine
	changes     *changeFeed
	unsubscribe func()
	logger      *slog.Logger

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	seal     spinner.Model
	hearts   []heart

	phase      phase.Phase // last phase synced from the machine
	envelope   *motion.Animator
	letter     *motion.Animator
	flowers    *motion.Animator
	frame      int // frames drawn since start
	phaseFrame int // frame on which phase was entered
	shown      int // letter parts currently faded in

	width      int
	height     int
	showCopied bool
	copyErr    error
	quitting   bool
}

func newModel(cfg CardConfig, machine *phase.Machine, logger *slog.Logger) model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// The peek timer reports from its own goroutine; the feed hands
	// those changes to the Bubble Tea loop.
	changes := newChangeFeed(16)
	unsubscribe := machine.Subscribe(changes.send)

	seal := spinner.New(spinner.WithSpinner(spinner.Spinner{
		Frames: []string{"♥", "♥", "♡"},
		FPS:    500 * time.Millisecond,
	}))

	letter := motion.NewAnimator(cfg.FPS, motion.LetterStart())
	letter.SetTarget(motion.LetterPose(phase.Closed), motion.Gentle)

	m := model{
		cfg:         cfg,
		machine:     machine,
		changes:     changes,
		unsubscribe: unsubscribe,
		logger:      logger,
		keys:        defaultKeyMap,
		help:        help.New(),
		viewport:    viewport.New(0, 0),
		seal:        seal,
		hearts:      newHearts(cfg.Hearts, cfg.Seed),
		phase:       phase.Closed,
		envelope:    motion.NewAnimator(cfg.FPS, motion.EnvelopePose(phase.Closed)),
		letter:      letter,
		flowers:     motion.NewAnimator(cfg.FPS, motion.FlowersPose(phase.Closed)),
	}
	m.syncPhase()
	m.syncKeys()
	return m
}

// --- BUBBLE TEA LOGIC ---
func (m model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.cfg.FPS), waitForChange(m.changes.ch), m.seal.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.refreshLetter()
		m.syncKeys()
		return m, nil

	case frameMsg:
		m.frame++
		m.envelope.Step()
		m.letter.Step()
		m.flowers.Step()
		if m.phase == phase.Expanded && m.shown < len(m.cfg.Letter.Paragraphs())+2 {
			m.refreshLetter()
		}
		return m, frameCmd(m.cfg.FPS)

	case phaseChangedMsg:
		m.syncPhase()
		return m, waitForChange(m.changes.ch)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.seal, cmd = m.seal.Update(msg)
		return m, cmd

	case clipboardResultMsg:
		if msg.err != nil {
			m.copyErr = msg.err
			m.logger.Warn("copy to clipboard failed", "error", msg.err)
		} else {
			m.showCopied = true
			m.logger.Info("letter copied to clipboard")
		}
		return m, clearCopiedCmd()

	case copiedToClipboardMsg:
		m.showCopied = false
		m.copyErr = nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.syncPhase()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Activate):
		m.activate()

	case key.Matches(msg, m.keys.Reset):
		m.machine.Reset()
		m.syncPhase()

	case key.Matches(msg, m.keys.Copy):
		if m.phase == phase.Expanded {
			return m, copyToClipboardCmd(m.cfg.Letter.PlainText())
		}

	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		if m.phase == phase.Expanded {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.syncPhase()

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if m.phase == phase.Expanded {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		hit := m.regionAt(msg.X, msg.Y)
		target := clickTarget(m.phase)
		m.logger.Debug("click", "x", msg.X, "y", msg.Y, "region", hit.String(), "phase", m.phase)
		if target != regionNone && hit == target {
			m.activate()
		}
	}
	return m, nil
}

// activate performs the click action of the current phase.
func (m *model) activate() {
	switch m.machine.Phase() {
	case phase.Closed:
		m.machine.Open()
	case phase.Outside:
		m.machine.Expand()
	case phase.Expanded:
		m.machine.Advance()
	case phase.Flowers:
		m.machine.Reset()
	}
	m.syncPhase()
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.machine.Close()
	m.unsubscribe()
	m.changes.close()
	m.logger.Info("card closed", "phase", m.phase)
	return m, tea.Quit
}

// syncPhase catches the model up with the machine: new animation
// targets, restarted entrances, and the key bindings for the phase.
func (m *model) syncPhase() {
	p := m.machine.Phase()
	if p == m.phase {
		return
	}
	prev := m.phase
	m.phase = p
	m.phaseFrame = m.frame

	if prev == phase.Flowers {
		m.letter.SetTarget(motion.LetterStart(), motion.Gentle)
		m.letter.Snap()
	}
	if p == phase.Flowers {
		m.flowers.SetTarget(motion.FlowersStart(), motion.Firm)
		m.flowers.Snap()
	}

	spring := motion.SpringFor(p)
	m.envelope.SetTarget(motion.EnvelopePose(p), spring)
	m.letter.SetTarget(motion.LetterPose(p), spring)
	m.flowers.SetTarget(motion.FlowersPose(p), spring)

	if p == phase.Expanded {
		m.viewport.GotoTop()
	}
	m.showCopied = false
	m.copyErr = nil
	m.refreshLetter()
	m.syncKeys()
	m.logger.Debug("card phase", "from", prev, "to", p)
}

// syncKeys relabels and enables the bindings for the current phase, so
// the help bar only offers what will do something.
func (m *model) syncKeys() {
	labels := map[phase.Phase]string{
		phase.Closed:   "open",
		phase.Outside:  "unfold",
		phase.Expanded: "flowers",
		phase.Flowers:  "close",
	}
	label, ok := labels[m.phase]
	m.keys.Activate.SetEnabled(ok)
	m.keys.Activate.SetHelp("enter/click", label)
	m.keys.Reset.SetEnabled(m.phase != phase.Closed)
	m.keys.Copy.SetEnabled(m.phase == phase.Expanded)
	scrollable := m.phase == phase.Expanded && m.viewport.TotalLineCount() > m.viewport.Height
	m.keys.ScrollUp.SetEnabled(scrollable)
	m.keys.ScrollDown.SetEnabled(scrollable)
}

// seconds is the animation clock.
func (m model) seconds() float64 {
	return float64(m.frame) / float64(m.cfg.FPS)
}

// revealed is how many parts of the open letter have faded in. Parts
// appear one after another shortly after the letter unfolds.
func (m model) revealed() int {
	elapsed := float64(m.frame-m.phaseFrame) / float64(m.cfg.FPS)
	count := 0
	for elapsed >= 0.3+0.06*float64(count) {
		count++
		if count > 64 {
			break
		}
	}
	return count
}

// letterItems is the open letter split into parts that fade in one at
// a time, each wrapped to width.
func (m model) letterItems(width int) []string {
	l := m.cfg.Letter
	items := []string{greetingStyle.Width(width).Render("Dear " + l.To + ",")}
	for _, p := range l.Paragraphs() {
		items = append(items, bodyStyle.Width(width).Render(p))
	}
	closing := senderStyle.Width(width).Align(lipgloss.Right).Render(l.From)
	if l.SignOff != "" {
		closing = signOffStyle.Width(width).Align(lipgloss.Right).Render(l.SignOff) + "\n" + closing
	}
	return append(items, closing)
}

// refreshLetter rewraps the open letter into the viewport.
func (m *model) refreshLetter() {
	if m.phase != phase.Expanded || m.width == 0 {
		return
	}
	width := m.expandedWidth() - letterFrameWidth
	items := m.letterItems(width)
	blank := bodyStyle.Render(strings.Repeat(" ", width))

	shown := min(m.revealed(), len(items))
	m.shown = shown
	var lines []string
	for i, item := range items {
		if i > 0 {
			lines = append(lines, blank)
		}
		for _, line := range strings.Split(item, "\n") {
			if i >= shown {
				line = blank
			}
			lines = append(lines, line)
		}
	}

	m.viewport.Width = width
	m.viewport.Height = max(1, min(len(lines), m.maxLetterRows()))
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "\n  Sealing the envelope..."
	}
	if m.width < minWidth || m.height < minHeight {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			helpStyle.Render("make the window a little bigger ♥"))
	}

	sc := m.compose()
	c := newCanvas(sc.width, sc.height)
	for _, l := range sc.layers {
		c.place(l.block, l.x, l.y)
	}
	return c.String() + "\n" + m.renderHelpView()
}

func (m model) renderHelpView() string {
	var notice string
	switch {
	case m.copyErr != nil:
		notice = errorStyle.Render("Could not copy: "+m.copyErr.Error()) + "  "
	case m.showCopied:
		notice = copySuccessStyle.Render("Copied!") + "  "
	}
	line := notice + m.help.View(m.keys)
	if m.phase == phase.Expanded && !m.viewport.AtBottom() {
		line += "  " + helpStyle.Render("↓ more")
	}
	return ansi.Truncate(line, m.width, "…")
}
