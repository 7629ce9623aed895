package output

import (
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const progressTemplate pb.ProgressBarTemplate = `{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// ProgressBar shows reconciliation progress as a terminal bar
type ProgressBar struct {
	writer io.Writer

	mu     sync.Mutex
	bar    *pb.ProgressBar
	failed int
}

// NewProgressBar creates a bar drawing on writer
func NewProgressBar(writer io.Writer) *ProgressBar {
	if writer == nil {
		writer = os.Stderr
	}
	return &ProgressBar{writer: writer}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// NewProgress returns a progress bar on stderr when it is a terminal and
// enabled is set, and a NullProgress otherwise
func NewProgress(enabled bool) Progress {
	if !enabled || !IsTerminal(os.Stderr) {
		return NullProgress{}
	}
	return NewProgressBar(os.Stderr)
}

// Start creates and starts the bar
func (p *ProgressBar) Start(totalOps int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bar = progressTemplate.New(totalOps).
		SetWriter(p.writer).
		Set("prefix", "Merging")
	p.bar.Start()
}

// Update advances the bar by one operation
func (p *ProgressBar) Update(update ProgressUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	if update.Error != nil {
		p.failed++
		p.bar.Set("prefix", "Merging ("+strconv.Itoa(p.failed)+" failed)")
	}
	p.bar.Increment()
}

// Finish stops the bar
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// Current returns the number of operations reported so far
func (p *ProgressBar) Current() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return 0
	}
	return p.bar.Current()
}
