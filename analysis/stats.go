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

package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// statsTracker keeps running figures over analysed frames for the
// verbose log and the D-Bus status call.
type statsTracker struct {
	mu       sync.Mutex
	values   map[string]*value
	statuses map[string]int
	errors   int
}

func newStatsTracker() *statsTracker {
	return &statsTracker{
		values:   make(map[string]*value),
		statuses: make(map[string]int),
	}
}

func (s *statsTracker) add(report Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.Error != nil {
		s.errors++
		return
	}
	if r := report.Result; r != nil {
		s.update("blobs", float64(r.Total))
		s.update("value", r.Value)
		s.update("density", r.MaxDensity)
		s.statuses[string(r.Status)]++
	}
}

func (s *statsTracker) update(name string, x float64) {
	v := s.values[name]
	if v == nil {
		v = newValue()
		s.values[name] = v
	}
	v.update(x)
}

func (s *statsTracker) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.values {
		v.reset()
	}
	s.statuses = make(map[string]int)
	s.errors = 0
}

// summary looks like "blobs: 3 -> 30 (avg: 12.50); ... ; COLD: 4; errors: 1".
func (s *statsTracker) summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, name := range []string{"blobs", "value", "density"} {
		if v := s.values[name]; v != nil && v.n > 0 {
			out = append(out, fmt.Sprintf("%s: %s", name, v))
		}
	}
	statuses := make([]string, 0, len(s.statuses))
	for status := range s.statuses {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		out = append(out, fmt.Sprintf("%s: %d", status, s.statuses[status]))
	}
	if s.errors > 0 {
		out = append(out, fmt.Sprintf("errors: %d", s.errors))
	}
	return strings.Join(out, "; ")
}

func newValue() *value {
	v := new(value)
	v.reset()
	return v
}

type value struct {
	n   int
	min float64
	max float64
	avg float64
}

func (v *value) reset() {
	v.n = 0
	v.max = math.Inf(-1)
	v.min = math.Inf(1)
	v.avg = 0
}

func (v *value) update(x float64) {
	v.n++
	if x > v.max {
		v.max = x
	}
	if x < v.min {
		v.min = x
	}
	// Cumulative moving average
	v.avg = v.avg + ((x - v.avg) / float64(v.n))
}

func (v *value) String() string {
	return fmt.Sprintf("%g -> %g (avg: %.2f)", v.min, v.max, v.avg)
}
