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

package comfort

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholdsAreExact(t *testing.T) {
	assert.Equal(t, Normal, Classify(0, 25).Status)
	assert.Equal(t, Cold, Classify(0, 26).Status)
	assert.Equal(t, Hot, Classify(0, 14).Status)
	assert.Equal(t, Normal, Classify(0, 15).Status)
}

func TestColdValue(t *testing.T) {
	r := Classify(0, 30)
	assert.Equal(t, Reading{Value: 25.1, Status: Cold, Color: Blue}, r)
}

func TestHotValue(t *testing.T) {
	assert.Equal(t, Reading{Value: 34.0, Status: Hot, Color: Red}, Classify(0, 0))
	// 10 blobs -> normalized 1 -> 34.02
	assert.Equal(t, Reading{Value: 34.0, Status: Hot, Color: Red}, Classify(0, 10))
}

func TestNormalValue(t *testing.T) {
	// 20 blobs -> normalized 2 -> 30.04
	assert.Equal(t, Reading{Value: 30.0, Status: Normal, Color: Green}, Classify(0, 20))
}

func TestValueRangesHold(t *testing.T) {
	for total := 0; total < 3000; total += 7 {
		r := Classify(0, total)
		switch r.Status {
		case Cold:
			assert.True(t, r.Value >= 25 && r.Value <= 28, "cold value %v", r.Value)
		case Hot:
			assert.True(t, r.Value >= 34 && r.Value <= 36, "hot value %v", r.Value)
		case Normal:
			assert.True(t, r.Value >= 30 && r.Value <= 32, "normal value %v", r.Value)
		}
	}
	// normalized caps at 100
	assert.Equal(t, 28.0, Classify(0, 5000).Value)
}

func TestMaxDensityIsIgnored(t *testing.T) {
	assert.Equal(t, Classify(0, 18), Classify(99.5, 18))
}

func TestClassifyIsIdempotent(t *testing.T) {
	a := Classify(0.0123, 27)
	b := Classify(0.0123, 27)
	assert.Equal(t, a, b)
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "NORMAL. 20 birds spread out. Temp: 30.0°C", Message(Normal, 20, 30))
	assert.Equal(t, "COLD! 30 birds huddled together. Temp: 25.1°C. Turn on the heater!", Message(Cold, 30, 25.1))
	assert.Equal(t, "HOT! 3 birds moving to the edges. Temp: 34.0°C. Turn on ventilation!", Message(Hot, 3, 34))
	assert.Equal(t, "Unknown status", Message(Status("BOGUS"), 0, 0))
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, Blue, ColorFor(Cold))
	assert.Equal(t, Red, ColorFor(Hot))
	assert.Equal(t, Green, ColorFor(Normal))
	assert.Equal(t, Gray, ColorFor(Offline))
}
