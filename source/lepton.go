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
	"fmt"
	"log"
	"time"

	"github.com/TheCacophonyProject/go-cptv/cptvframe"
	"github.com/TheCacophonyProject/lepton3"
	"gocv.io/x/gocv"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/chickguard/chickguard/headers"
	"github.com/chickguard/chickguard/loglimiter"
)

// OpenLepton opens a FLIR Lepton 3 on the SPI bus. As with a USB
// camera, a failure to open leaves the source offline.
func OpenLepton(conf LeptonConfig) *Lepton {
	info := headers.New(lepton3.FrameCols, lepton3.FrameRows, lepton3.FramesHz, "flir", "lepton3")
	l := &Lepton{
		info:  info,
		raw:   new(lepton3.RawFrame),
		frame: cptvframe.NewFrame(info),
		log:   loglimiter.New(minLogInterval),
	}

	log.Println("host initialisation")
	if _, err := host.Init(); err != nil {
		log.Printf("failed to initialise host: %v", err)
		return l
	}

	if !conf.Quick {
		if err := cycleCameraPower(conf.PowerPin); err != nil {
			log.Printf("failed to cycle camera power: %v", err)
			return l
		}
	}

	camera := lepton3.New(conf.SPISpeed)
	camera.SetLogFunc(func(t string) { log.Print(t) })
	log.Print("opening lepton camera")
	if err := camera.Open(); err != nil {
		log.Printf("failed to open lepton camera: %v", err)
		return l
	}
	if err := camera.SetRadiometry(true); err != nil {
		log.Printf("failed to enable radiometry: %v", err)
	}
	l.camera = camera
	return l
}

type Lepton struct {
	counter
	camera *lepton3.Lepton3
	info   *headers.HeaderInfo
	raw    *lepton3.RawFrame
	frame  *cptvframe.Frame
	log    *loglimiter.LogLimiter
}

// Acquire implements Source. Read errors are treated as transient.
func (l *Lepton) Acquire(out *gocv.Mat) error {
	if l.camera == nil {
		return ErrUnavailable
	}
	if err := l.camera.NextFrame(l.raw); err != nil {
		l.log.Printf("failed to read lepton frame: %v", err)
		return ErrUnavailable
	}
	if err := lepton3.ParseRawFrame(l.raw[:], l.frame); err != nil {
		l.log.Printf("failed to parse lepton frame: %v", err)
		return ErrUnavailable
	}
	if err := Stretch(l.frame.Pix, out); err != nil {
		return err
	}
	l.inc()
	return nil
}

// Describe implements Source.
func (l *Lepton) Describe() *headers.HeaderInfo {
	return l.info
}

// Close implements Source.
func (l *Lepton) Close() error {
	if l.camera != nil {
		l.camera.Close()
		l.camera = nil
	}
	return nil
}

func cycleCameraPower(pinName string) error {
	if pinName == "" {
		return nil
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return fmt.Errorf("unknown power pin %s", pinName)
	}

	log.Print("turning camera power off")
	if err := pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to set camera power pin low: %v", err)
	}
	time.Sleep(2 * time.Second)

	log.Print("turning camera power on")
	if err := pin.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to set camera power pin high: %v", err)
	}

	log.Print("waiting for camera startup")
	time.Sleep(8 * time.Second)
	log.Print("camera should be ready")
	return nil
}
