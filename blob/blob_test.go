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

package blob

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func newFrame(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC1)
}

func gray(v uint8) color.RGBA {
	return color.RGBA{R: v, G: v, B: v, A: 0}
}

func detect(t *testing.T, frame gocv.Mat) []Blob {
	d := NewDetector(DefaultConfig())
	defer d.Close()

	blobs, mask, err := d.Detect(frame)
	require.NoError(t, err)
	defer mask.Close()
	assert.Equal(t, frame.Rows(), mask.Rows())
	assert.Equal(t, frame.Cols(), mask.Cols())
	return blobs
}

func TestBlankFrameHasNoBlobs(t *testing.T) {
	frame := newFrame(256, 192)
	defer frame.Close()
	assert.Empty(t, detect(t, frame))
}

func TestFindsSmallWarmSpots(t *testing.T) {
	frame := newFrame(256, 192)
	defer frame.Close()

	centres := []image.Point{{30, 30}, {128, 96}, {220, 160}}
	for _, c := range centres {
		gocv.Circle(&frame, c, 4, gray(255), -1)
	}

	blobs := detect(t, frame)
	require.Len(t, blobs, 3)
	for _, b := range blobs {
		assert.True(t, b.Area > 5 && b.Area < 500, "area %v", b.Area)
		found := false
		for _, c := range centres {
			if abs(b.X-c.X) <= 1 && abs(b.Y-c.Y) <= 1 {
				found = true
			}
		}
		assert.True(t, found, "unexpected centroid %d,%d", b.X, b.Y)
		assert.True(t, image.Pt(b.X, b.Y).In(b.Rect))
		assert.NotEmpty(t, b.Contour)
	}
}

func TestThresholdIsInclusive(t *testing.T) {
	frame := newFrame(100, 100)
	defer frame.Close()
	gocv.Rectangle(&frame, image.Rect(10, 10, 18, 18), gray(150), -1)
	gocv.Rectangle(&frame, image.Rect(60, 60, 68, 68), gray(149), -1)

	blobs := detect(t, frame)
	require.Len(t, blobs, 1)
	assert.True(t, blobs[0].X < 50)
}

func TestLargeRegionIsRejected(t *testing.T) {
	frame := newFrame(256, 192)
	defer frame.Close()
	gocv.Circle(&frame, image.Pt(128, 96), 30, gray(255), -1)

	assert.Empty(t, detect(t, frame))
}

// fillBlock sets a w by h block of pixels. The traced contour runs
// through the outer pixel centres so its area is (w-1)*(h-1).
func fillBlock(frame *gocv.Mat, x, y, w, h int) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			frame.SetUCharAt(row, col, 255)
		}
	}
}

func TestAreaLimitsAreExclusive(t *testing.T) {
	tests := []struct {
		name    string
		minArea float64
		maxArea float64
		w, h    int
		area    float64
		want    bool
	}{
		{"at default min", 5, 500, 6, 2, 5, false},
		{"above default min", 5, 500, 4, 3, 6, true},
		{"below default max", 5, 500, 20, 27, 494, true},
		{"at default max", 5, 500, 21, 26, 500, false},
		{"at min", 36, 100, 7, 7, 36, false},
		{"above min", 36, 100, 8, 7, 42, true},
		{"below max", 36, 100, 10, 11, 90, true},
		{"at max", 36, 100, 11, 11, 100, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conf := DefaultConfig()
			conf.KernelSize = 1
			conf.MinArea = tc.minArea
			conf.MaxArea = tc.maxArea
			require.NoError(t, conf.Validate())
			d := NewDetector(conf)
			defer d.Close()

			frame := newFrame(64, 64)
			defer frame.Close()
			fillBlock(&frame, 10, 10, tc.w, tc.h)

			blobs, mask, err := d.Detect(frame)
			require.NoError(t, err)
			defer mask.Close()
			if tc.want {
				require.Len(t, blobs, 1)
				assert.Equal(t, tc.area, blobs[0].Area)
			} else {
				assert.Empty(t, blobs)
			}
		})
	}
}

func TestSpeckleIsRemoved(t *testing.T) {
	frame := newFrame(64, 64)
	defer frame.Close()
	frame.SetUCharAt(20, 20, 255)

	assert.Empty(t, detect(t, frame))
}

func TestColourFrameIsAccepted(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()
	gocv.Circle(&frame, image.Pt(80, 60), 5, color.RGBA{255, 255, 255, 0}, -1)

	blobs := detect(t, frame)
	require.Len(t, blobs, 1)
}

func TestEmptyFrameIsAnError(t *testing.T) {
	d := NewDetector(DefaultConfig())
	defer d.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	_, mask, err := d.Detect(frame)
	defer mask.Close()
	assert.Error(t, err)
}

func TestPolygonCentroid(t *testing.T) {
	x, y, ok := centroid([]image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	require.True(t, ok)
	assert.Equal(t, 5, x)
	assert.Equal(t, 5, y)

	// Orientation doesn't matter.
	x, y, ok = centroid([]image.Point{{0, 0}, {0, 9}, {9, 9}, {9, 0}})
	require.True(t, ok)
	assert.Equal(t, 4, x)
	assert.Equal(t, 4, y)

	_, _, ok = centroid([]image.Point{{1, 1}, {5, 5}})
	assert.False(t, ok)
}

func TestConfigValidation(t *testing.T) {
	conf := DefaultConfig()
	require.NoError(t, conf.Validate())

	conf.MaxArea = conf.MinArea
	assert.Error(t, conf.Validate())

	conf = DefaultConfig()
	conf.Threshold = 0
	assert.Error(t, conf.Validate())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
