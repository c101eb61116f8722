// chickguard - monitor brooder comfort from thermal footage
//  Copyright (C) 2026, The ChickGuard Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package analysis

import (
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/frameloop"
	"github.com/chickguard/chickguard/loglimiter"
	"github.com/chickguard/chickguard/source"
)

const minLogInterval = time.Minute

// NewRecorded returns a processor that advances src by one frame for
// every call to ProcessNext.
func NewRecorded(src source.Source, analyser *Analyser, loop *frameloop.Loop) *Recorded {
	return &Recorded{
		src:      src,
		analyser: analyser,
		loop:     loop,
		frame:    gocv.NewMat(),
		log:      loglimiter.New(minLogInterval),
		stats:    newStatsTracker(),
	}
}

// Recorded analyses a recorded source on demand. Calls are serialised
// so concurrent callers each get their own frame.
type Recorded struct {
	mu        sync.Mutex
	src       source.Source
	analyser  *Analyser
	loop      *frameloop.Loop
	frame     gocv.Mat
	listeners []Listener
	log       *loglimiter.LogLimiter
	stats     *statsTracker
}

// AddListener registers l to be told about every result.
func (p *Recorded) AddListener(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// ProcessNext reads the next frame and analyses it. It always returns
// a well formed report.
func (p *Recorded) ProcessNext() Report {
	report, listeners := p.processNext()
	// Listeners run outside the lock so a slow one can't hold up other
	// callers.
	notify(listeners, report)
	return report
}

func (p *Recorded) processNext() (Report, []Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.src.Acquire(&p.frame); err != nil {
		p.log.Printf("failed to read recorded frame: %v", err)
		return errorReport(err, p.src.FrameCount()), nil
	}
	seq := p.src.FrameCount()
	p.loop.Push(p.frame)

	report := p.analyser.safeAnalyse(p.frame, seq)
	if report.Error != nil {
		p.log.Printf("frame %d: %s", seq, report.Error.Error)
	}
	p.stats.add(report)
	return report, p.listeners
}

// LatestFrame copies the most recently processed frame into out and
// returns its sequence number.
func (p *Recorded) LatestFrame(out *gocv.Mat) (int, bool) {
	return p.loop.Latest(out)
}

// Summary returns the running statistics of processed frames.
func (p *Recorded) Summary() string {
	return p.stats.summary()
}

func (p *Recorded) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame.Close()
}

// TakeSummary returns the running statistics and starts afresh.
func (p *Recorded) TakeSummary() string {
	s := p.stats.summary()
	p.stats.reset()
	return s
}
