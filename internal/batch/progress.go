package batch

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleProgress prints a single updating progress line.
type ConsoleProgress struct {
	mu    sync.Mutex
	w     io.Writer
	label string
	total int
}

// NewConsoleProgress creates a progress reporter writing to w.
func NewConsoleProgress(w io.Writer, label string) *ConsoleProgress {
	return &ConsoleProgress{w: w, label: label}
}

func (p *ConsoleProgress) OnStart(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

func (p *ConsoleProgress) OnProgress(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, "\r%s %d/%d", p.label, done, total)
}

func (p *ConsoleProgress) OnComplete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total > 0 {
		_, _ = fmt.Fprintln(p.w)
	}
}
