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

package clip

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TheCacophonyProject/go-cptv/cptvframe"
	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/analysis"
	"github.com/chickguard/chickguard/blob"
	"github.com/chickguard/chickguard/comfort"
	"github.com/chickguard/chickguard/frameloop"
	"github.com/chickguard/chickguard/headers"
	"github.com/chickguard/chickguard/loglimiter"
)

const minLogInterval = time.Minute

// NewClipper returns a listener that writes the frames held in loop
// through rec whenever the comfort status turns COLD or HOT.
func NewClipper(rec Recorder, loop *frameloop.Loop, info *headers.HeaderInfo) *Clipper {
	return &Clipper{
		recorder: rec,
		loop:     loop,
		info:     info,
		started:  time.Now(),
		log:      loglimiter.New(minLogInterval),
	}
}

// Clipper implements analysis.Listener. Clips are written in the
// background, one at a time; a transition seen while a clip is being
// written is skipped.
type Clipper struct {
	recorder Recorder
	loop     *frameloop.Loop
	info     *headers.HeaderInfo
	started  time.Time
	log      *loglimiter.LogLimiter

	mu      sync.Mutex
	last    comfort.Status
	busy    atomic.Bool
	wg      sync.WaitGroup
	written atomic.Int64
}

// ResultReady implements analysis.Listener.
func (c *Clipper) ResultReady(r *analysis.Result) {
	c.mu.Lock()
	prev := c.last
	c.last = r.Status
	c.mu.Unlock()

	if !r.Status.IsAlarm() || r.Status == prev {
		return
	}
	if !c.busy.CompareAndSwap(false, true) {
		c.log.Print("clip already being written, skipping")
		return
	}

	// The next clip shouldn't repeat these frames.
	frames := c.loop.TakeHistory()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.busy.Store(false)
		defer closeAll(frames)

		if err := c.write(frames); err != nil {
			c.log.Printf("%s clip not written: %v", r.Status, err)
			return
		}
		c.written.Add(1)
	}()
}

// Wait blocks until any clip being written is finished.
func (c *Clipper) Wait() {
	c.wg.Wait()
}

// Written returns the number of clips handed to the recorder.
func (c *Clipper) Written() int {
	return int(c.written.Load())
}

func (c *Clipper) write(frames []gocv.Mat) error {
	if len(frames) == 0 {
		return errors.New("no frames to write")
	}
	if err := c.recorder.CheckCanRecord(); err != nil {
		return err
	}

	camera := c.info.WithSize(frames[0].Cols(), frames[0].Rows())
	if err := c.recorder.StartRecording(camera); err != nil {
		return err
	}

	out := cptvframe.NewFrame(camera)
	for i, frame := range frames {
		if err := toCPTVFrame(frame, out); err != nil {
			c.log.Printf("skipping clip frame %d: %v", i, err)
			continue
		}
		out.Status.TimeOn = time.Since(c.started)
		if err := c.recorder.WriteFrame(out); err != nil {
			c.recorder.StopRecording()
			return err
		}
	}
	return c.recorder.StopRecording()
}

// toCPTVFrame stores the intensity of frame in out. The frame must
// match the size of out.
func toCPTVFrame(frame gocv.Mat, out *cptvframe.Frame) error {
	if len(out.Pix) == 0 {
		return errors.New("empty clip frame")
	}
	if frame.Rows() != len(out.Pix) || frame.Cols() != len(out.Pix[0]) {
		return fmt.Errorf("frame is %dx%d, clip is %dx%d",
			frame.Cols(), frame.Rows(), len(out.Pix[0]), len(out.Pix))
	}
	gray := gocv.NewMat()
	defer gray.Close()
	if err := blob.ToGray(frame, &gray); err != nil {
		return err
	}
	data := gray.ToBytes()
	cols := gray.Cols()
	for y, row := range out.Pix {
		for x := range row {
			row[x] = uint16(data[y*cols+x])
		}
	}
	return nil
}

func closeAll(frames []gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
