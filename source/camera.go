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
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/headers"
	"github.com/chickguard/chickguard/loglimiter"
)

const minLogInterval = time.Minute

// OpenCamera opens a V4L/USB capture device. If the device can't be
// opened the failure is logged once and the returned Camera stays
// offline for good.
func OpenCamera(conf CameraConfig) *Camera {
	c := &Camera{
		info: headers.New(conf.Width, conf.Height, conf.FPS, "generic", "usb-thermal"),
		log:  loglimiter.New(minLogInterval),
	}

	capture, err := gocv.VideoCaptureDevice(conf.Device)
	if err != nil {
		log.Printf("failed to open camera %d: %v", conf.Device, err)
		return c
	}
	if !capture.IsOpened() {
		log.Printf("failed to open camera %d", conf.Device)
		capture.Close()
		return c
	}

	// Best effort, drivers are free to ignore these.
	if conf.Width > 0 && conf.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(conf.Width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(conf.Height))
	}
	if conf.FPS > 0 {
		capture.Set(gocv.VideoCaptureFPS, float64(conf.FPS))
	}
	c.info = c.info.WithSize(
		int(capture.Get(gocv.VideoCaptureFrameWidth)),
		int(capture.Get(gocv.VideoCaptureFrameHeight)))
	log.Printf("camera %d opened at %dx%d", conf.Device, c.info.ResX(), c.info.ResY())

	c.capture = capture
	return c
}

type Camera struct {
	counter
	capture *gocv.VideoCapture
	info    *headers.HeaderInfo
	log     *loglimiter.LogLimiter
}

// Acquire implements Source.
func (c *Camera) Acquire(out *gocv.Mat) error {
	if c.capture == nil {
		return ErrUnavailable
	}
	if ok := c.capture.Read(out); !ok || out.Empty() {
		c.log.Print("failed to read frame from camera")
		return ErrUnavailable
	}
	c.inc()
	return nil
}

// Offline reports whether the device failed to open.
func (c *Camera) Offline() bool {
	return c.capture == nil
}

// Describe implements Source.
func (c *Camera) Describe() *headers.HeaderInfo {
	return c.info
}

// Close implements Source.
func (c *Camera) Close() error {
	if c.capture == nil {
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	return err
}
