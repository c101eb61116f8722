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

// Package analysis turns frames into comfort readings: blobs are
// detected, counted per zone and the counts classified.
package analysis

import (
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/blob"
	"github.com/chickguard/chickguard/comfort"
	"github.com/chickguard/chickguard/zone"
)

// Listener is told about every successful analysis.
type Listener interface {
	ResultReady(r *Result)
}

func New(detector *blob.Detector) *Analyser {
	return &Analyser{
		detector: detector,
		nowFunc:  time.Now,
	}
}

// Analyser runs the detection pipeline on a single frame. It keeps no
// state between frames.
type Analyser struct {
	detector *blob.Detector
	nowFunc  func() time.Time
}

// Analyse returns the comfort analysis of frame. seq is reported as the
// frame id.
func (a *Analyser) Analyse(frame gocv.Mat, seq int) (*Result, error) {
	blobs, mask, err := a.detector.Detect(frame)
	mask.Close()
	if err != nil {
		return nil, err
	}

	table, err := zone.Compute(blob.Centroids(blobs), frame.Cols(), frame.Rows())
	if err != nil {
		return nil, err
	}

	metrics, err := FrameMetrics(frame)
	if err != nil {
		return nil, err
	}

	reading := comfort.Classify(table.MaxDensity, table.Total)
	return &Result{
		FrameID:    seq,
		Value:      reading.Value,
		Status:     reading.Status,
		Color:      reading.Color,
		Total:      table.Total,
		MaxDensity: table.RoundedMaxDensity(),
		Zones:      table.Keyed(),
		Message:    comfort.Message(reading.Status, table.Total, reading.Value),
		Metrics:    metrics,
		Time:       a.nowFunc(),
		Table:      table,
		Blobs:      blobs,
	}, nil
}

// safeAnalyse converts any failure, including a panic from the image
// library, into an error record.
func (a *Analyser) safeAnalyse(frame gocv.Mat, seq int) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			report = errorReport(fmt.Errorf("analysis failed: %v", r), seq)
		}
	}()

	result, err := a.Analyse(frame, seq)
	if err != nil {
		return errorReport(err, seq)
	}
	return Report{Result: result}
}

// FrameMetrics returns intensity statistics of frame.
func FrameMetrics(frame gocv.Mat) (*Metrics, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}
	gray := gocv.NewMat()
	defer gray.Close()
	if err := blob.ToGray(frame, &gray); err != nil {
		return nil, err
	}

	minVal, maxVal, _, _ := gocv.MinMaxLoc(gray)
	return &Metrics{
		Mean:   comfort.Round(gray.Mean().Val1, 2),
		Min:    int(minVal),
		Max:    int(maxVal),
		Width:  frame.Cols(),
		Height: frame.Rows(),
		Chans:  frame.Channels(),
	}, nil
}

func notify(listeners []Listener, report Report) {
	if report.Result == nil {
		return
	}
	for _, l := range listeners {
		l.ResultReady(report.Result)
	}
}
