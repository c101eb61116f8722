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

package loglimiter

import (
	"bytes"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	limiter := New(time.Minute)
	limiter.Print("camera opened")
	limiter.Print("frame read failed")

	assert.Equal(t, "camera opened\nframe read failed\n", logs.String())
}

func TestPrintf(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	limiter := New(time.Minute)
	limiter.Printf("blobs: %d", 42)
	limiter.Printf("status: %q", "COLD")

	assert.Equal(t, "blobs: 42\nstatus: \"COLD\"\n", logs.String())
}

func TestLimitPrintCountsRepeats(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	now := time.Now()

	limiter := New(2 * time.Second)
	limiter.nowFunc = func() time.Time { return now }

	limiter.Print("read failed")
	assert.Equal(t, "read failed\n", logs.String())

	// Within the window the message is hidden and counted.
	now = now.Add(time.Second)
	limiter.Print("read failed")
	limiter.Print("read failed")
	assert.Equal(t, "read failed\n", logs.String())
	assert.Equal(t, 2, limiter.suppressed)

	// Past the window the repeat count is reported.
	now = now.Add(time.Second)
	limiter.Print("read failed")
	assert.Equal(t, "read failed\nread failed (repeated 2 times)\n", logs.String())
	assert.Equal(t, 0, limiter.suppressed)

	// Nothing was hidden since, so the plain message is logged.
	now = now.Add(3 * time.Second)
	limiter.Print("read failed")
	assert.Equal(t, "read failed\nread failed (repeated 2 times)\nread failed\n", logs.String())
}

func TestDifferentMessageIsLetThrough(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	limiter := New(time.Minute)
	limiter.Print("hello")
	limiter.Print("hello")
	limiter.Print("world")
	limiter.Print("world")
	assert.Equal(t, "hello\nworld\n", logs.String())
}

func TestMixed(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	// Mixing Print and Printf doesn't matter if the resulting string is the same.
	limiter := New(time.Minute)
	limiter.Print("hello")
	limiter.Printf("hello")
	assert.Equal(t, "hello\n", logs.String())
}

func TestConcurrentUse(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	limiter := New(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				limiter.Print("busy")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, "busy\n", logs.String())
	assert.Equal(t, 799, limiter.suppressed)
}

func captureLogs() (*bytes.Buffer, func()) {
	flags := log.Flags()
	log.SetFlags(0)

	logs := new(bytes.Buffer)
	log.SetOutput(logs)

	return logs, func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	}
}
