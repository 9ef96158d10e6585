package tui

import (
	"sync"

	"inventory-dashboard/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// refreshMsg tells the model that new frames are waiting in the bridge.
type refreshMsg struct{}

// Bridge is the session renderer for the terminal. The session may render
// from any goroutine (debounce timers, hub events, assist results), so
// frames are parked here and the program is nudged to pull them; nothing
// on the session side ever waits for the UI loop.
type Bridge struct {
	mu     sync.Mutex
	view   *session.ViewFrame
	form   *session.FormFrame
	toasts []session.Toast
	send   func(tea.Msg)
	nudged bool
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach connects the bridge to a running program.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = p.Send
}

func (b *Bridge) RenderView(f session.ViewFrame) {
	b.mu.Lock()
	b.view = &f
	b.mu.Unlock()
	b.nudge()
}

func (b *Bridge) RenderForm(f session.FormFrame) {
	b.mu.Lock()
	b.form = &f
	b.mu.Unlock()
	b.nudge()
}

func (b *Bridge) RenderToast(t session.Toast) {
	b.mu.Lock()
	b.toasts = append(b.toasts, t)
	b.mu.Unlock()
	b.nudge()
}

// nudge wakes the program at most once per pull. p.Send blocks until the
// event loop reads it, so it runs on its own goroutine.
func (b *Bridge) nudge() {
	b.mu.Lock()
	if b.send == nil || b.nudged {
		b.mu.Unlock()
		return
	}
	b.nudged = true
	send := b.send
	b.mu.Unlock()

	go send(refreshMsg{})
}

// pull hands over whatever changed since the last pull.
func (b *Bridge) pull() (*session.ViewFrame, *session.FormFrame, []session.Toast) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, f, t := b.view, b.form, b.toasts
	b.view, b.form, b.toasts = nil, nil, nil
	b.nudged = false
	return v, f, t
}
