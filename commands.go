package main

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/katistix/envelope/internal/phase"
)

// --- BUBBLE TEA MESSAGES ---
// These messages are the results of commands.

// frameMsg advances every animation by one frame.
type frameMsg time.Time

// phaseChangedMsg reports a transition applied by the phase machine,
// including the ones its peek timer makes on its own goroutine.
type phaseChangedMsg phase.Change

// clipboardResultMsg reports whether the letter reached the clipboard.
type clipboardResultMsg struct {
	err error
}

// copiedToClipboardMsg clears the "Copied!" notice.
type copiedToClipboardMsg struct{}

// copiedNoticeDuration is how long the "Copied!" notice stays up.
const copiedNoticeDuration = 2 * time.Second

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// changeFeed carries phase changes from the machine's listener to the
// Bubble Tea loop. Sends after close are dropped, so a listener still
// running on the timer goroutine cannot hit a closed channel.
type changeFeed struct {
	mu     sync.Mutex
	ch     chan phase.Change
	closed bool
}

func newChangeFeed(size int) *changeFeed {
	return &changeFeed{ch: make(chan phase.Change, size)}
}

// send never blocks; a change dropped on a full buffer is harmless
// because the model re-reads the machine.
func (f *changeFeed) send(change phase.Change) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- change:
	default:
	}
}

func (f *changeFeed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}

// --- COMMANDS ---

func frameCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// waitForChange delivers the next phase change. The model re-issues it
// after every change, so there is always exactly one reader. Once the
// feed is closed it returns nil and the reader goes away.
func waitForChange(changes <-chan phase.Change) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-changes
		if !ok {
			return nil
		}
		return phaseChangedMsg(change)
	}
}

func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardResultMsg{err: writeClipboard(text)}
	}
}

func clearCopiedCmd() tea.Cmd {
	return tea.Tick(copiedNoticeDuration, func(time.Time) tea.Msg {
		return copiedToClipboardMsg{}
	})
}
