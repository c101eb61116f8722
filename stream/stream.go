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

// Package stream publishes the latest frame as a colourised MJPEG feed.
package stream

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"net/http"
	"time"

	"github.com/hybridgroup/mjpeg"
	"github.com/juju/ratelimit"
	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/blob"
	"github.com/chickguard/chickguard/loglimiter"
)

// gocv doesn't name the newer OpenCV colour maps.
const colormapInferno gocv.ColormapTypes = 14

const minLogInterval = time.Minute

type Config struct {
	FPS     float64 `yaml:"fps"`
	Quality int     `yaml:"quality"`
	Overlay bool    `yaml:"overlay"`
}

func DefaultConfig() Config {
	return Config{
		FPS:     15,
		Quality: 80,
	}
}

func (conf *Config) Validate() error {
	if conf.FPS <= 0 {
		return errors.New("stream fps should be positive")
	}
	if conf.Quality < 1 || conf.Quality > 100 {
		return errors.New("stream quality should be between 1 and 100")
	}
	return nil
}

// FrameFunc copies the newest frame into out and returns its sequence
// number. It returns false when there is no frame yet.
type FrameFunc func(out *gocv.Mat) (int, bool)

func New(frames FrameFunc, detector *blob.Detector, conf Config) *Streamer {
	return NewWithClock(frames, detector, conf, new(realClock))
}

func NewWithClock(frames FrameFunc, detector *blob.Detector, conf Config, clock ratelimit.Clock) *Streamer {
	if !conf.Overlay {
		detector = nil
	}
	return &Streamer{
		frames:   frames,
		detector: detector,
		conf:     conf,
		stream:   mjpeg.NewStream(),
		bucket:   ratelimit.NewBucketWithRateAndClock(conf.FPS, 1, clock),
		log:      loglimiter.New(minLogInterval),
		lastSeq:  -1,
	}
}

// Streamer encodes frames no faster than the configured rate and only
// when a new frame has arrived.
type Streamer struct {
	frames   FrameFunc
	detector *blob.Detector
	conf     Config
	stream   *mjpeg.Stream
	bucket   *ratelimit.Bucket
	log      *loglimiter.LogLimiter
	lastSeq  int
	sent     int
}

// ServeHTTP serves the multipart MJPEG stream.
func (s *Streamer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.stream.ServeHTTP(w, r)
}

// Run publishes frames until ctx is cancelled.
func (s *Streamer) Run(ctx context.Context) {
	frame := gocv.NewMat()
	defer frame.Close()

	for {
		s.bucket.Wait(1)
		if ctx.Err() != nil {
			return
		}
		if _, err := s.publish(&frame); err != nil {
			s.log.Printf("failed to stream frame: %v", err)
		}
	}
}

// publish encodes and sends the latest frame if it hasn't been sent
// already. It returns whether a frame was sent.
func (s *Streamer) publish(frame *gocv.Mat) (bool, error) {
	seq, ok := s.frames(frame)
	if !ok || seq == s.lastSeq {
		return false, nil
	}
	buf, err := s.Encode(*frame)
	if err != nil {
		return false, err
	}
	s.stream.UpdateJPEG(buf)
	s.lastSeq = seq
	s.sent++
	return true, nil
}

// Encode colourises frame and returns it as a JPEG.
func (s *Streamer) Encode(frame gocv.Mat) ([]byte, error) {
	img := gocv.NewMat()
	defer img.Close()
	if err := Colorize(frame, &img); err != nil {
		return nil, err
	}
	if s.detector != nil {
		s.drawBlobs(frame, &img)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{gocv.IMWriteJpegQuality, s.conf.Quality})
	if err != nil {
		return nil, err
	}
	defer buf.Close()
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

func (s *Streamer) drawBlobs(frame gocv.Mat, img *gocv.Mat) {
	blobs, mask, err := s.detector.Detect(frame)
	mask.Close()
	if err != nil {
		return
	}
	for _, b := range blobs {
		gocv.Rectangle(img, b.Rect, color.RGBA{0, 255, 0, 0}, 1)
	}
}

// Colorize applies the inferno colour map. Colour input is reduced to
// intensity first.
func Colorize(frame gocv.Mat, out *gocv.Mat) error {
	if frame.Empty() {
		return errors.New("empty frame")
	}
	gray := gocv.NewMat()
	defer gray.Close()
	if err := blob.ToGray(frame, &gray); err != nil {
		return fmt.Errorf("can't colourise frame: %w", err)
	}
	gocv.ApplyColorMap(gray, out, colormapInferno)
	return nil
}

// realClock implements ratelimit.Clock in terms of standard time functions.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
