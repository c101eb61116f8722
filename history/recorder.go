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

package history

import (
	"context"
	"sync"
	"time"

	"github.com/chickguard/chickguard/analysis"
	"github.com/chickguard/chickguard/loglimiter"
)

const (
	writeTimeout = 5 * time.Second
	queueSize    = 16
)

// NewRecorder returns a listener saving at most one reading to store
// per interval. Readings are written by Run.
func NewRecorder(store Store, interval time.Duration) *Recorder {
	return NewRecorderWithClock(store, interval, time.Now)
}

func NewRecorderWithClock(store Store, interval time.Duration, now func() time.Time) *Recorder {
	return &Recorder{
		store:    store,
		interval: interval,
		now:      now,
		log:      loglimiter.New(time.Minute),
		pending:  make(chan Reading, queueSize),
	}
}

// Recorder implements analysis.Listener. ResultReady only queues the
// reading so it never waits on the database.
type Recorder struct {
	store    Store
	interval time.Duration
	now      func() time.Time
	log      *loglimiter.LogLimiter
	pending  chan Reading

	mu   sync.Mutex
	last time.Time
}

func (rec *Recorder) ResultReady(r *analysis.Result) {
	now := rec.now()
	rec.mu.Lock()
	if !rec.last.IsZero() && now.Sub(rec.last) < rec.interval {
		rec.mu.Unlock()
		return
	}
	rec.last = now
	rec.mu.Unlock()

	reading := Reading{Value: r.Value, Status: r.Status, Time: r.Time}
	if reading.Time.IsZero() {
		reading.Time = now
	}
	select {
	case rec.pending <- reading:
	default:
		rec.log.Print("history writer is behind, reading dropped")
	}
}

// Run writes queued readings until ctx is done. Readings still queued
// at that point are written before it returns.
func (rec *Recorder) Run(ctx context.Context) {
	for {
		select {
		case reading := <-rec.pending:
			rec.write(reading)
		case <-ctx.Done():
			for {
				select {
				case reading := <-rec.pending:
					rec.write(reading)
				default:
					return
				}
			}
		}
	}
}

func (rec *Recorder) write(reading Reading) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := rec.store.Insert(ctx, reading); err != nil {
		rec.log.Printf("reading not saved: %v", err)
	}
}
