// Package profiler provides push/pop timing instrumentation for a single
// traced operation. A Profiler is single-use: one root Push/Pop/Report cycle
// per logical operation, owned by exactly one goroutine.
package profiler

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// threshold above which a finished root timer triggers a diagnostic report.
const threshold = 10 * time.Millisecond

type event struct {
	id      string
	nesting int
	started time.Time
	elapsed time.Duration
	running bool
}

// Profiler measures nested sections of one operation and logs a breakdown
// when the whole operation ran longer than the threshold.
type Profiler struct {
	logger  *zap.Logger
	events  []event
	running int

	// now is swapped out in tests.
	now func() time.Time
}

// New creates a profiler reporting through the given logger.
func New(logger *zap.Logger) *Profiler {
	return &Profiler{logger: logger, now: time.Now}
}

// Push starts a new nested timer named id.
func (p *Profiler) Push(id string) {
	p.events = append(p.events, event{
		id:      id,
		nesting: p.running,
		started: p.now(),
		running: true,
	})
	p.running++
}

// Pop stops the most recently started timer that is still running. Calling
// Pop with no running timer means the instrumentation call sites are
// mismatched; that is a programming error and panics.
func (p *Profiler) Pop() {
	if p.running == 0 {
		panic("profiler: nothing to pop")
	}

	p.running--
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].running {
			p.events[i].elapsed = p.now().Sub(p.events[i].started)
			p.events[i].running = false
			return
		}
	}
}

// PopWithResult pops the current timer and passes err through unchanged.
func (p *Profiler) PopWithResult(err error) error {
	p.Pop()
	return err
}

// ReportWithResult force-stops any still-running timers in reverse start
// order, reports if the operation exceeded the threshold, and passes err
// through unchanged.
func (p *Profiler) ReportWithResult(err error) error {
	for p.running > 0 {
		p.Pop()
	}
	p.report()
	return err
}

// ReportWithSuccess is ReportWithResult with a nil result.
func (p *Profiler) ReportWithSuccess() error {
	return p.ReportWithResult(nil)
}

func (p *Profiler) report() {
	if len(p.events) == 0 {
		return
	}

	root := p.events[0]
	if root.elapsed < threshold {
		return
	}

	// Every recorded event is subtracted from the root, nested ones
	// included, matching the breakdown format the report always had.
	unprofiled := root.elapsed
	var b strings.Builder
	b.WriteString("\n")
	for _, e := range p.events[1:] {
		b.WriteString(strings.Repeat(" ", e.nesting*4))
		b.WriteString(e.id)
		b.WriteString(": ")
		b.WriteString(e.elapsed.String())
		b.WriteString("\n")
		unprofiled -= e.elapsed
	}
	if unprofiled > 0 {
		b.WriteString("<unprofiled>: ")
		b.WriteString(unprofiled.String())
		b.WriteString("\n")
	}

	p.logger.Warn("operation took too long",
		zap.String("id", root.id),
		zap.Duration("elapsed", root.elapsed),
		zap.Duration("max", threshold),
		zap.String("events", b.String()),
	)
}
