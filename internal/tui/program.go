package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/backmassage/recmux/internal/notify"
)

// sink forwards notifications into a running program. Program.Send blocks
// until the event loop reads, so it is always wrapped in notify.Async.
type sink struct {
	p *tea.Program
}

func (s sink) Notify(msg string) { s.p.Send(LineMsg(msg)) }

// Run starts the UI, runs work on a separate goroutine with a Notifier that
// feeds the UI, and returns once both have finished. work returns the
// summary line shown at the end. cancel is called when the user quits.
func Run(title string, cancel func(), work func(n notify.Notifier) string, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(NewModel(title, cancel), opts...)

	workDone := make(chan struct{})
	go func() {
		defer close(workDone)
		n := notify.NewAsync(sink{p: p}, 0)
		summary := work(n)
		n.Close()
		if d := n.Dropped(); d > 0 {
			summary += fmt.Sprintf("\n(%d progress lines not shown)", d)
		}
		p.Send(DoneMsg{Summary: summary})
	}()

	_, err := p.Run()
	if cancel != nil {
		cancel()
	}
	<-workDone
	return err
}
