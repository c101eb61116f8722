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

	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/frameloop"
)

// NewLive returns a processor reading from the live frame slot. With
// metricsOnly set, reports carry frame statistics and no comfort value.
func NewLive(slot *frameloop.Slot, analyser *Analyser, metricsOnly bool) *Live {
	return &Live{
		slot:        slot,
		analyser:    analyser,
		metricsOnly: metricsOnly,
		stats:       newStatsTracker(),
	}
}

// Live analyses copies of the latest live frame. Any number of
// goroutines may call Status.
type Live struct {
	slot        *frameloop.Slot
	analyser    *Analyser
	metricsOnly bool
	stats       *statsTracker

	mu        sync.Mutex
	listeners []Listener
}

// AddListener registers l to be told about every result.
func (p *Live) AddListener(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// Status reports on the latest frame, or OFFLINE when there isn't one.
func (p *Live) Status() Report {
	frame := gocv.NewMat()
	defer frame.Close()

	stamp, ok := p.slot.Load(&frame)
	if !ok {
		return OfflineReport()
	}

	if p.metricsOnly {
		metrics, err := FrameMetrics(frame)
		if err != nil {
			return errorReport(err, stamp.Seq)
		}
		return LiveReport(metrics)
	}

	report := p.analyser.safeAnalyse(frame, stamp.Seq)
	p.stats.add(report)

	p.mu.Lock()
	listeners := p.listeners
	p.mu.Unlock()
	notify(listeners, report)
	return report
}

// Summary returns the running statistics of analysed frames.
func (p *Live) Summary() string {
	return p.stats.summary()
}

// TakeSummary returns the running statistics and starts afresh.
func (p *Live) TakeSummary() string {
	s := p.stats.summary()
	p.stats.reset()
	return s
}
