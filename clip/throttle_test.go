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
	"testing"
	"time"

	"github.com/TheCacophonyProject/go-cptv/cptvframe"
	"github.com/juju/ratelimit"
	"github.com/stretchr/testify/assert"

	"github.com/chickguard/chickguard/headers"
)

const (
	fps        = 10
	clipFrames = 30

	throttleAfter = 30 * time.Second
	minRefill     = 20 * time.Second
)

var (
	testCamera     = headers.New(160, 120, fps, "test", "camera")
	throttleFrames = int(throttleAfter.Seconds() * fps)
)

func newTestConfig() *ThrottleConfig {
	return &ThrottleConfig{
		ApplyThrottling: true,
		BucketSize:      throttleAfter,
		MinRefill:       minRefill,
	}
}

func newTestThrottledRecorder() (*writeRecorder, *throttleListener, *ThrottledRecorder, *testClock) {
	clock := new(testClock)
	recorder := new(writeRecorder)
	listener := new(throttleListener)
	return recorder, listener, NewThrottledRecorderWithClock(recorder, newTestConfig(), clipFrames, fps, listener, clock), clock
}

type writeRecorder struct {
	writes int
	starts int
}

func (rec *writeRecorder) StopRecording() error  { return nil }
func (rec *writeRecorder) CheckCanRecord() error { return nil }

func (rec *writeRecorder) StartRecording(cptvframe.CameraSpec) error {
	rec.starts++
	return nil
}

func (rec *writeRecorder) WriteFrame(frame *cptvframe.Frame) error {
	rec.writes++
	return nil
}

func (rec *writeRecorder) Reset() {
	rec.writes = 0
	rec.starts = 0
}

type throttleListener struct {
	events int
}

func (tc *throttleListener) WhenThrottled() {
	tc.events++
}

func recordFrames(recorder *ThrottledRecorder, frames int) {
	recorder.StartRecording(testCamera)
	writeFrames(recorder, frames)
	recorder.StopRecording()
}

func writeFrames(recorder *ThrottledRecorder, frames int) {
	f := cptvframe.NewFrame(testCamera)
	for i := 0; i < frames; i++ {
		recorder.WriteFrame(f)
	}
}

func TestOnlyWritesUntilBucketIsEmpty(t *testing.T) {
	recorder, listener, throtRecorder, _ := newTestThrottledRecorder()

	recordFrames(throtRecorder, throttleFrames+2)
	assert.Equal(t, throttleFrames, recorder.writes)
	assert.Equal(t, 1, listener.events)
	assert.False(t, throtRecorder.Recording())
}

func TestCanRecordTwiceWithoutThrottling(t *testing.T) {
	recorder, _, throtRecorder, _ := newTestThrottledRecorder()

	recordFrames(throtRecorder, clipFrames)
	assert.Equal(t, clipFrames, recorder.writes)

	recordFrames(throtRecorder, clipFrames)
	assert.Equal(t, 2*clipFrames, recorder.writes)
	assert.Equal(t, 2, recorder.starts)
}

func TestWillNotStartIfLessThanAClipInBucket(t *testing.T) {
	recorder, listener, throtRecorder, _ := newTestThrottledRecorder()

	recordFrames(throtRecorder, throttleFrames-5)

	// only a few frames in the bucket - not enough for another clip
	recorder.Reset()
	recordFrames(throtRecorder, clipFrames)
	assert.Equal(t, 0, recorder.writes)
	assert.Equal(t, 0, recorder.starts)
	assert.Equal(t, 1, listener.events)
}

func TestWaitingRefillsBucket(t *testing.T) {
	recorder, _, throtRecorder, clock := newTestThrottledRecorder()

	recordFrames(throtRecorder, throttleFrames) // empty bucket
	clock.Sleep(minRefill)                      // allow bucket to refill

	// Observe that it only filled up to the size of one clip
	recorder.Reset()
	recordFrames(throtRecorder, throttleFrames)
	assert.Equal(t, clipFrames, recorder.writes)
}

func TestWritesAreIgnoredWhenNotRecording(t *testing.T) {
	recorder, _, throtRecorder, _ := newTestThrottledRecorder()

	writeFrames(throtRecorder, 10)
	assert.Equal(t, 0, recorder.writes)
}

func TestNilListenerIsAllowed(t *testing.T) {
	recorder := new(writeRecorder)
	throtRecorder := NewThrottledRecorderWithClock(recorder, newTestConfig(), clipFrames, fps, nil, new(testClock))

	recordFrames(throtRecorder, throttleFrames+1)
	assert.Equal(t, throttleFrames, recorder.writes)
}

type recordingSender struct {
	types []string
}

func (s *recordingSender) Send(eventType string, details map[string]interface{}) error {
	s.types = append(s.types, eventType)
	return nil
}

func TestThrottledEventRecorder(t *testing.T) {
	sender := new(recordingSender)
	ThrottledEventRecorder{Sender: sender}.WhenThrottled()
	assert.Equal(t, []string{"throttle"}, sender.types)
}

var _ ratelimit.Clock = new(realClock)
var _ ratelimit.Clock = new(testClock)

// testClock implements a fake ratelimit.Clock for testing.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}
