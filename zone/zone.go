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

// Package zone splits a frame into a fixed 3x3 grid and works out how
// crowded each cell is.
package zone

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/chickguard/chickguard/comfort"
)

// Grid is the number of rows and columns the frame is divided into.
const Grid = 3

// Point is a blob centroid in pixel coordinates.
type Point struct {
	X, Y int
}

// Zone is one cell of the grid.
type Zone struct {
	Row     int
	Col     int
	Bounds  image.Rectangle
	Count   int
	Density float64
}

// MarshalJSON writes the zone in the form polled by the dashboard.
func (z Zone) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count   int     `json:"count"`
		Density float64 `json:"density"`
		X       int     `json:"x"`
		Y       int     `json:"y"`
	}{z.Count, z.Density, z.Bounds.Min.X, z.Bounds.Min.Y})
}

// Key names the zone as "zone_<row>_<col>".
func (z Zone) Key() string {
	return fmt.Sprintf("zone_%d_%d", z.Row, z.Col)
}

// Area returns the number of pixels covered by the zone.
func (z Zone) Area() int {
	return z.Bounds.Dx() * z.Bounds.Dy()
}

// Table holds the per-zone counts for a frame.
type Table struct {
	Zones      [Grid][Grid]Zone
	Total      int
	MaxDensity float64
}

// Compute assigns each centroid to a zone and works out the zone
// densities. Zone spans come from floor division of the frame size;
// the last row and column take any remaining pixels.
func Compute(centroids []Point, width, height int) (Table, error) {
	var t Table
	if width < Grid || height < Grid {
		return t, errors.New("frame should be at least 3x3 pixels")
	}

	zw := width / Grid
	zh := height / Grid
	for r := 0; r < Grid; r++ {
		for c := 0; c < Grid; c++ {
			x1, y1 := (c+1)*zw, (r+1)*zh
			if c == Grid-1 {
				x1 = width
			}
			if r == Grid-1 {
				y1 = height
			}
			t.Zones[r][c] = Zone{
				Row:    r,
				Col:    c,
				Bounds: image.Rect(c*zw, r*zh, x1, y1),
			}
		}
	}

	for _, p := range centroids {
		r := index(p.Y, zh)
		c := index(p.X, zw)
		t.Zones[r][c].Count++
	}
	t.Total = len(centroids)

	for r := range t.Zones {
		for c := range t.Zones[r] {
			z := &t.Zones[r][c]
			z.Density = float64(z.Count) / float64(z.Area()) * 100
			if z.Density > t.MaxDensity {
				t.MaxDensity = z.Density
			}
		}
	}
	return t, nil
}

// RoundedMaxDensity returns the maximum zone density to 2 decimal places.
func (t Table) RoundedMaxDensity() float64 {
	return comfort.Round(t.MaxDensity, 2)
}

// Flatten returns the zones in row major order.
func (t Table) Flatten() []Zone {
	out := make([]Zone, 0, Grid*Grid)
	for r := range t.Zones {
		out = append(out, t.Zones[r][:]...)
	}
	return out
}

// Keyed returns the zones indexed by Key.
func (t Table) Keyed() map[string]Zone {
	out := make(map[string]Zone, Grid*Grid)
	for r := range t.Zones {
		for _, z := range t.Zones[r] {
			out[z.Key()] = z
		}
	}
	return out
}

func index(v, span int) int {
	if v < 0 {
		return 0
	}
	i := v / span
	if i > Grid-1 {
		i = Grid - 1
	}
	return i
}
