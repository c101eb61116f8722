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

package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestSnapshotWithoutFrames(t *testing.T) {
	s := newSnapshotter(t.TempDir(), func(out *gocv.Mat) (int, bool) { return 0, false })
	assert.EqualError(t, s.take(false), "no frames yet")
}

func TestSnapshotWritesStills(t *testing.T) {
	dir := t.TempDir()
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(200, 0, 0, 0), 12, 16, gocv.MatTypeCV8UC1)
	defer src.Close()
	frames := func(out *gocv.Mat) (int, bool) {
		src.CopyTo(out)
		return 1, true
	}
	s := newSnapshotter(dir, frames)

	require.NoError(t, s.take(false))
	still := gocv.IMRead(filepath.Join(dir, snapshotName), gocv.IMReadUnchanged)
	defer still.Close()
	assert.Equal(t, 3, still.Channels())
	assert.Equal(t, 16, still.Cols())

	// Rate limited, so nothing is written straight away.
	require.NoError(t, s.take(true))
	assert.NoFileExists(t, filepath.Join(dir, rawSnapshotName))

	s.lastTime = time.Time{}
	require.NoError(t, s.take(true))
	raw := gocv.IMRead(filepath.Join(dir, rawSnapshotName), gocv.IMReadUnchanged)
	defer raw.Close()
	assert.Equal(t, 1, raw.Channels())
	assert.Equal(t, uint8(200), raw.GetUCharAt(0, 0))
}
