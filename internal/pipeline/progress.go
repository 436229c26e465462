package pipeline

import (
	"fmt"
	"io"
	"sync"
)

// Progress prints an overwriting "Fetched n of total..." counter.
// A nil *Progress is a no-op.
type Progress struct {
	mu    sync.Mutex
	w     io.Writer
	total int
	count int
}

// NewProgress creates a counter for total items writing to w.
func NewProgress(w io.Writer, total int) *Progress {
	return &Progress{w: w, total: total}
}

// SetTotal changes the denominator, e.g. after already-processed items were dropped.
func (p *Progress) SetTotal(total int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// Advance increments the counter and redraws the line.
func (p *Progress) Advance() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	fmt.Fprintf(p.w, "\r\033[K\tFetched %d of %d...", p.count, p.total)
}

// Count returns the number of advanced items.
func (p *Progress) Count() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Done terminates the progress line.
func (p *Progress) Done() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.count > 0 {
		fmt.Fprintln(p.w)
	}
}
