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

// Package capture runs the background goroutines of the live path.
package capture

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/frameloop"
	"github.com/chickguard/chickguard/loglimiter"
	"github.com/chickguard/chickguard/source"
)

const (
	framesPerSdNotify = 25
	minLogInterval    = time.Minute
)

type Config struct {
	ReadPause    time.Duration `yaml:"read-pause"`
	RetryPause   time.Duration `yaml:"retry-pause"`
	PollInterval time.Duration `yaml:"poll-interval"`
	LogInterval  time.Duration `yaml:"log-interval"`
}

func DefaultConfig() Config {
	return Config{
		ReadPause:    10 * time.Millisecond,
		RetryPause:   time.Second,
		PollInterval: time.Second,
		LogInterval:  5 * time.Minute,
	}
}

func (conf *Config) Validate() error {
	if conf.ReadPause < 0 || conf.RetryPause < 0 {
		return errors.New("read-pause and retry-pause can't be negative")
	}
	if conf.PollInterval < 0 {
		return errors.New("poll-interval can't be negative")
	}
	return nil
}

func New(src source.Source, slot *frameloop.Slot, loop *frameloop.Loop, conf Config) *Capturer {
	return &Capturer{
		src:    src,
		slot:   slot,
		loop:   loop,
		conf:   conf,
		notify: func() { daemon.SdNotify(false, "WATCHDOG=1") },
		log:    loglimiter.New(minLogInterval),
	}
}

// Capturer copies frames from a live source into the shared slot and
// the diagnostic loop.
type Capturer struct {
	src    source.Source
	slot   *frameloop.Slot
	loop   *frameloop.Loop
	conf   Config
	notify func()
	log    *loglimiter.LogLimiter
}

// Run reads frames until ctx is cancelled. A failed read is followed
// by a longer pause before the next attempt.
func (c *Capturer) Run(ctx context.Context) {
	frame := gocv.NewMat()
	defer frame.Close()

	notifyCount := 0
	for ctx.Err() == nil {
		if err := c.src.Acquire(&frame); err != nil {
			if !errors.Is(err, source.ErrUnavailable) {
				c.log.Printf("frame capture failed: %v", err)
			}
			sleep(ctx, c.conf.RetryPause)
			continue
		}

		c.slot.Store(frame, c.src.FrameCount())
		if c.loop != nil {
			c.loop.Push(frame)
		}

		if notifyCount++; notifyCount >= framesPerSdNotify {
			c.notify()
			notifyCount = 0
		}
		sleep(ctx, c.conf.ReadPause)
	}
	log.Print("frame capture stopped")
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
