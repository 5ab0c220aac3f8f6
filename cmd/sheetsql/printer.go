package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// printer writes status lines. Progress lines overwrite each other until
// the next regular line.
type printer struct {
	mu      sync.Mutex
	w       io.Writer
	pending bool

	okStyle    lipgloss.Style
	warnStyle  lipgloss.Style
	mutedStyle lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:          w,
		okStyle:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		warnStyle:  r.NewStyle().Foreground(lipgloss.Color("3")),
		mutedStyle: r.NewStyle().Faint(true),
	}
}

func (p *printer) line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending {
		_, _ = fmt.Fprintln(p.w)
		p.pending = false
	}
	_, _ = fmt.Fprintln(p.w, s)
}

func (p *printer) progress(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, "\r%s", s)
	p.pending = true
}

func (p *printer) info(s string)    { p.line(s) }
func (p *printer) success(s string) { p.line(p.okStyle.Render(s)) }
func (p *printer) warn(s string)    { p.line(p.warnStyle.Render(s)) }
func (p *printer) muted(s string)   { p.line(p.mutedStyle.Render(s)) }
