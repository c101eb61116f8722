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

package source

import (
	"fmt"
	"log"

	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/headers"
)

// OpenVideo opens a recorded video file. The file is played in a loop.
func OpenVideo(path string) (*Video, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("failed to open video %s", path)
	}
	info := headers.New(
		int(capture.Get(gocv.VideoCaptureFrameWidth)),
		int(capture.Get(gocv.VideoCaptureFrameHeight)),
		int(capture.Get(gocv.VideoCaptureFPS)),
		"file", "video")
	log.Printf("video loaded: %s", path)

	return &Video{
		path:    path,
		capture: capture,
		info:    info,
	}, nil
}

type Video struct {
	counter
	path    string
	capture *gocv.VideoCapture
	info    *headers.HeaderInfo
}

// Acquire implements Source. At the end of the file it rewinds and
// reads the first frame again.
func (v *Video) Acquire(out *gocv.Mat) error {
	if ok := v.capture.Read(out); !ok || out.Empty() {
		v.capture.Set(gocv.VideoCapturePosFrames, 0)
		if ok := v.capture.Read(out); !ok || out.Empty() {
			return fmt.Errorf("no frames in %s", v.path)
		}
	}
	v.inc()
	return nil
}

// Describe implements Source.
func (v *Video) Describe() *headers.HeaderInfo {
	return v.info
}

// Close implements Source.
func (v *Video) Close() error {
	return v.capture.Close()
}
