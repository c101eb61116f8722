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
	"log"
	"time"

	"github.com/TheCacophonyProject/go-cptv/cptvframe"
	"github.com/juju/ratelimit"
)

func NewThrottledRecorder(
	baseRecorder Recorder,
	config *ThrottleConfig,
	clipFrames int,
	fps int,
	listener ThrottledEventListener,
) *ThrottledRecorder {
	return NewThrottledRecorderWithClock(baseRecorder, config, clipFrames, fps, listener, new(realClock))
}

func NewThrottledRecorderWithClock(
	baseRecorder Recorder,
	config *ThrottleConfig,
	clipFrames int,
	fps int,
	listener ThrottledEventListener,
	clock ratelimit.Clock,
) *ThrottledRecorder {
	// The token bucket tracks the number of *frames* available for clips.
	bucketFrames := int64(config.BucketSize.Seconds()) * int64(fps)
	minFrames := int64(clipFrames)
	refillRate := float64(minFrames) / config.MinRefill.Seconds()

	if minFrames > bucketFrames {
		log.Println("clip length is greater than throttle bucket - clips will not be possible!")
	}

	bucket := ratelimit.NewBucketWithRateAndClock(refillRate, bucketFrames, clock)

	if listener == nil {
		listener = new(nullListener)
	}

	return &ThrottledRecorder{
		recorder:      baseRecorder,
		listener:      listener,
		bucket:        bucket,
		minClipLength: minFrames,
	}
}

// ThrottledRecorder wraps a Recorder so that clips stop being written
// if the brooder keeps flipping in and out of an alarm state. The extra
// clips would be near copies of the earlier ones.
type ThrottledRecorder struct {
	recorder      Recorder
	listener      ThrottledEventListener
	bucket        *ratelimit.Bucket
	recording     bool
	minClipLength int64
}

type ThrottledEventListener interface {
	WhenThrottled()
}

type nullListener struct{}

func (lis *nullListener) WhenThrottled() {}

func (throttler *ThrottledRecorder) CheckCanRecord() error {
	return throttler.recorder.CheckCanRecord()
}

func (throttler *ThrottledRecorder) StartRecording(camera cptvframe.CameraSpec) error {
	if err := throttler.maybeStartRecording(camera); err != nil {
		return err
	}
	if !throttler.recording {
		log.Print("clip not started due to throttling")
		throttler.listener.WhenThrottled()
	}
	return nil
}

func (throttler *ThrottledRecorder) StopRecording() error {
	if throttler.recording {
		throttler.recording = false
		return throttler.recorder.StopRecording()
	}
	return nil
}

func (throttler *ThrottledRecorder) WriteFrame(frame *cptvframe.Frame) error {
	if !throttler.recording {
		return nil
	}

	if throttler.bucket.TakeAvailable(1) > 0 {
		return throttler.recorder.WriteFrame(frame)
	}

	log.Print("clip throttled")
	throttler.listener.WhenThrottled()
	return throttler.StopRecording()
}

// Recording reports whether frames are currently being passed on.
func (throttler *ThrottledRecorder) Recording() bool {
	return throttler.recording
}

func (throttler *ThrottledRecorder) maybeStartRecording(camera cptvframe.CameraSpec) error {
	if throttler.bucket.Available() >= throttler.minClipLength {
		if err := throttler.recorder.StartRecording(camera); err != nil {
			return err
		}
		throttler.recording = true
	}
	return nil
}

// realClock implements ratelimit.Clock in terms of standard time functions.
type realClock struct{}

// Now implements Clock.Now by calling time.Now.
func (realClock) Now() time.Time {
	return time.Now()
}

// Sleep implements Clock.Sleep by calling time.Sleep.
func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
