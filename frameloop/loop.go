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

package frameloop

import (
	"sync"

	"gocv.io/x/gocv"
)

const noOldestSet = -1

func NewLoop(size int) *Loop {
	frames := make([]gocv.Mat, size)
	for i := range frames {
		frames[i] = gocv.NewMat()
	}
	return &Loop{
		size:   size,
		frames: frames,
		oldest: noOldestSet,
	}
}

// Loop keeps copies of the last n frames, overwriting the oldest when
// full. It is the rolling diagnostic window; nothing that classifies
// frames reads from it.
type Loop struct {
	mu     sync.Mutex
	size   int
	next   int
	stored int
	frames []gocv.Mat
	oldest int
	pushed int
}

// Push copies frame into the loop.
func (fl *Loop) Push(frame gocv.Mat) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	frame.CopyTo(&fl.frames[fl.next])
	fl.next = (fl.next + 1) % fl.size
	if fl.next == fl.oldest {
		// wrapped all the way round, every frame is newer than the mark
		fl.oldest = noOldestSet
	}
	if fl.stored < fl.size {
		fl.stored++
	}
	fl.pushed++
}

// Latest copies the newest frame into out and returns how many frames
// had been pushed when it was stored, which serves as its sequence
// number. It returns false if the loop is empty.
func (fl *Loop) Latest(out *gocv.Mat) (int, bool) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.stored == 0 {
		return 0, false
	}
	fl.frames[fl.prev(fl.next)].CopyTo(out)
	return fl.pushed, true
}

// TakeHistory returns clones of the frames pushed since the previous
// call, oldest first, and marks them as handed out. The caller owns the
// returned frames and must Close them.
func (fl *Loop) TakeHistory() []gocv.Mat {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	out := fl.history()
	fl.oldest = fl.next
	return out
}

func (fl *Loop) history() []gocv.Mat {
	n := fl.historyLen()
	out := make([]gocv.Mat, 0, n)
	start := (fl.next - n + fl.size) % fl.size
	for i := 0; i < n; i++ {
		out = append(out, fl.frames[(start+i)%fl.size].Clone())
	}
	return out
}

// Close releases the stored frames.
func (fl *Loop) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	for i := range fl.frames {
		fl.frames[i].Close()
	}
	fl.stored = 0
	return nil
}

func (fl *Loop) historyLen() int {
	if fl.oldest == noOldestSet {
		return fl.stored
	}
	return (fl.next - fl.oldest + fl.size) % fl.size
}

func (fl *Loop) prev(index int) int {
	return (index - 1 + fl.size) % fl.size
}
