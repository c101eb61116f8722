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

// Package frameloop holds frames shared between the capture goroutine
// and the request handlers.
package frameloop

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Stamp describes the frame held in a Slot.
type Stamp struct {
	Seq  int
	Time time.Time
}

func NewSlot() *Slot {
	return &Slot{
		frame:   gocv.NewMat(),
		nowFunc: time.Now,
	}
}

// Slot holds the most recent live frame. Frames are copied in and out
// under the lock so nobody processes a frame while holding it.
type Slot struct {
	mu      sync.Mutex
	frame   gocv.Mat
	stamp   Stamp
	full    bool
	nowFunc func() time.Time
}

// Store replaces the held frame with a copy of frame.
func (s *Slot) Store(frame gocv.Mat, seq int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame.CopyTo(&s.frame)
	s.stamp = Stamp{Seq: seq, Time: s.nowFunc()}
	s.full = true
}

// Load copies the held frame into out. It returns false if nothing has
// been stored yet.
func (s *Slot) Load(out *gocv.Mat) (Stamp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.full {
		return Stamp{}, false
	}
	s.frame.CopyTo(out)
	return s.stamp, true
}

// Close releases the held frame.
func (s *Slot) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.full = false
	return s.frame.Close()
}
