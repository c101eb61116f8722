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
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/blob"
	"github.com/chickguard/chickguard/stream"
)

const (
	snapshotName          = "still.png"
	rawSnapshotName       = "still-raw.png"
	allowedSnapshotPeriod = 500 * time.Millisecond
)

func newSnapshotter(dir string, frames stream.FrameFunc) *snapshotter {
	return &snapshotter{
		dir:     dir,
		frames:  frames,
		lastSeq: -1,
	}
}

type snapshotter struct {
	dir    string
	frames stream.FrameFunc

	mu       sync.Mutex
	lastSeq  int
	lastRaw  bool
	lastTime time.Time
}

// take writes the latest frame to the snapshot directory. Requests
// arriving too quickly, or for a frame already saved, are ignored.
func (s *snapshotter) take(raw bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.lastTime) < allowedSnapshotPeriod {
		return nil
	}

	frame := gocv.NewMat()
	defer frame.Close()
	seq, ok := s.frames(&frame)
	if !ok {
		return errors.New("no frames yet")
	}
	if seq == s.lastSeq && raw == s.lastRaw {
		return nil
	}

	img := gocv.NewMat()
	defer img.Close()
	filename := snapshotName
	if raw {
		filename = rawSnapshotName
		if err := blob.ToGray(frame, &img); err != nil {
			return err
		}
	} else if err := stream.Colorize(frame, &img); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, filename)
	if !gocv.IMWrite(path, img) {
		return fmt.Errorf("failed to write %s", path)
	}
	log.Printf("snapshot saved: %s", path)

	// only a successful attempt counts towards the rate limit
	s.lastSeq = seq
	s.lastRaw = raw
	s.lastTime = time.Now()
	return nil
}
