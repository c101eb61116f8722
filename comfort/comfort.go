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

// Package comfort maps the number of heat blobs seen in a frame to a
// qualitative comfort status and a heuristic temperature value.
//
// Many birds huddled together (lots of small blobs) means the brooder
// is cold, few birds scattered to the edges means it is hot.
package comfort

import (
	"fmt"
	"math"
)

type Status string

const (
	Cold    Status = "COLD"
	Normal  Status = "NORMAL"
	Hot     Status = "HOT"
	Offline Status = "OFFLINE"
	Live    Status = "LIVE"
)

type Color string

const (
	Blue  Color = "blue"
	Green Color = "green"
	Red   Color = "red"
	Gray  Color = "gray"
)

const (
	// ColdAbove is the blob count above which the birds are considered huddled.
	ColdAbove = 25
	// HotBelow is the blob count below which the birds are considered scattered.
	HotBelow = 15

	coldBase  = 25.0
	coldSpan  = 3.0
	hotBase   = 34.0
	hotSpan   = 2.0
	normBase  = 30.0
	normSpan  = 2.0
	maxNormal = 100.0
)

// Reading is the output of Classify.
type Reading struct {
	Value  float64
	Status Status
	Color  Color
}

// Classify returns the comfort reading for a frame with total blobs.
//
// maxDensity is part of the contract but isn't used by the value
// formula; only the blob count drives the result.
func Classify(maxDensity float64, total int) Reading {
	normalized := math.Min(float64(total)/10, maxNormal)

	var r Reading
	switch {
	case total > ColdAbove:
		r = Reading{Value: coldBase + normalized/100*coldSpan, Status: Cold, Color: Blue}
	case total < HotBelow:
		r = Reading{Value: hotBase + normalized/100*hotSpan, Status: Hot, Color: Red}
	default:
		r = Reading{Value: normBase + normalized/100*normSpan, Status: Normal, Color: Green}
	}
	r.Value = Round(r.Value, 1)
	return r
}

// Message returns the human readable text shown alongside a reading.
func Message(status Status, total int, value float64) string {
	switch status {
	case Cold:
		return fmt.Sprintf("COLD! %d birds huddled together. Temp: %.1f°C. Turn on the heater!", total, value)
	case Normal:
		return fmt.Sprintf("NORMAL. %d birds spread out. Temp: %.1f°C", total, value)
	case Hot:
		return fmt.Sprintf("HOT! %d birds moving to the edges. Temp: %.1f°C. Turn on ventilation!", total, value)
	case Offline:
		return "Starting camera or sensor disconnected..."
	case Live:
		return "Live thermal feed"
	}
	return "Unknown status"
}

// ColorFor returns the display color of a status.
func ColorFor(status Status) Color {
	switch status {
	case Cold:
		return Blue
	case Hot:
		return Red
	case Normal, Live:
		return Green
	}
	return Gray
}

// IsAlarm reports whether the status needs attention.
func (s Status) IsAlarm() bool {
	return s == Cold || s == Hot
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
