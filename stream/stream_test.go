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

package stream

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/blob"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}

func testFrame() gocv.Mat {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(30, 0, 0, 0), 192, 256, gocv.MatTypeCV8UC1)
	gocv.Circle(&frame, image.Pt(100, 100), 4, color.RGBA{250, 250, 250, 0}, -1)
	return frame
}

func TestColorize(t *testing.T) {
	frame := testFrame()
	defer frame.Close()

	out := gocv.NewMat()
	defer out.Close()
	require.NoError(t, Colorize(frame, &out))
	assert.Equal(t, 3, out.Channels())
	assert.Equal(t, 192, out.Rows())
	assert.Equal(t, 256, out.Cols())

	empty := gocv.NewMat()
	defer empty.Close()
	assert.Error(t, Colorize(empty, &out))
}

func TestEncodeIsJPEG(t *testing.T) {
	frame := testFrame()
	defer frame.Close()

	d := blob.NewDetector(blob.DefaultConfig())
	defer d.Close()
	conf := DefaultConfig()
	conf.Overlay = true
	s := NewWithClock(nil, d, conf, new(testClock))

	buf, err := s.Encode(frame)
	require.NoError(t, err)
	require.True(t, len(buf) > 2)
	assert.Equal(t, []byte{0xff, 0xd8}, buf[:2])
}

func TestPublishSkipsRepeatedFrames(t *testing.T) {
	src := testFrame()
	defer src.Close()

	seq := 1
	frames := func(out *gocv.Mat) (int, bool) {
		src.CopyTo(out)
		return seq, true
	}
	s := NewWithClock(frames, nil, DefaultConfig(), new(testClock))

	frame := gocv.NewMat()
	defer frame.Close()

	sent, err := s.publish(&frame)
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = s.publish(&frame)
	require.NoError(t, err)
	assert.False(t, sent)

	seq = 2
	sent, err = s.publish(&frame)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, 2, s.sent)
}

func TestPublishWithoutFrames(t *testing.T) {
	frames := func(out *gocv.Mat) (int, bool) { return 0, false }
	s := NewWithClock(frames, nil, DefaultConfig(), new(testClock))

	frame := gocv.NewMat()
	defer frame.Close()
	sent, err := s.publish(&frame)
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestRateIsCapped(t *testing.T) {
	clock := new(testClock)
	s := NewWithClock(nil, nil, DefaultConfig(), clock)

	// One frame is available straight away, the next after 1/15s.
	assert.Equal(t, int64(1), s.bucket.TakeAvailable(1))
	assert.Equal(t, int64(0), s.bucket.TakeAvailable(1))
	clock.Sleep(time.Second / 15)
	assert.Equal(t, int64(1), s.bucket.TakeAvailable(1))
}

func TestConfigValidate(t *testing.T) {
	conf := DefaultConfig()
	require.NoError(t, conf.Validate())
	conf.Quality = 0
	assert.Error(t, conf.Validate())
	conf = DefaultConfig()
	conf.FPS = 0
	assert.Error(t, conf.Validate())
}
