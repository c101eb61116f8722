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

// Package source provides frames from live cameras or recorded files.
package source

import (
	"errors"
	"sync/atomic"

	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/headers"
)

// ErrUnavailable is returned by Acquire when no frame can be had right
// now, for example because a live camera couldn't be opened.
var ErrUnavailable = errors.New("frame source unavailable")

// Source hands out one frame per call to Acquire.
type Source interface {
	// Acquire reads the next frame into out.
	Acquire(out *gocv.Mat) error
	// FrameCount returns the number of frames successfully acquired.
	FrameCount() int
	// Describe returns the device or file description.
	Describe() *headers.HeaderInfo
	Close() error
}

type counter struct {
	n atomic.Int64
}

func (c *counter) inc() int {
	return int(c.n.Add(1))
}

func (c *counter) FrameCount() int {
	return int(c.n.Load())
}
