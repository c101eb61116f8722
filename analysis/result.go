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
	"encoding/json"
	"time"

	"github.com/chickguard/chickguard/blob"
	"github.com/chickguard/chickguard/comfort"
	"github.com/chickguard/chickguard/zone"
)

// Result is the analysis of a single frame. It isn't changed after it
// has been returned.
type Result struct {
	FrameID    int                  `json:"frame_id"`
	Value      float64              `json:"temperatura"`
	Status     comfort.Status       `json:"status"`
	Color      comfort.Color        `json:"cor"`
	Total      int                  `json:"total_aves_detectadas"`
	MaxDensity float64              `json:"densidade_maxima"`
	Zones      map[string]zone.Zone `json:"zonas"`
	Message    string               `json:"mensagem"`
	Metrics    *Metrics             `json:"metrics,omitempty"`
	Time       time.Time            `json:"timestamp"`

	Table zone.Table  `json:"-"`
	Blobs []blob.Blob `json:"-"`
}

// Metrics are plain statistics of the analysed frame.
type Metrics struct {
	Mean   float64 `json:"brilho_medio"`
	Min    int     `json:"brilho_min"`
	Max    int     `json:"brilho_max"`
	Width  int     `json:"-"`
	Height int     `json:"-"`
	Chans  int     `json:"-"`
}

// Shape returns the frame dimensions as rows, columns and channels.
func (m *Metrics) Shape() []int {
	return []int{m.Height, m.Width, m.Chans}
}

func (m *Metrics) MarshalJSON() ([]byte, error) {
	type plain Metrics
	return json.Marshal(struct {
		*plain
		Shape []int `json:"frame_shape"`
	}{(*plain)(m), m.Shape()})
}

// ErrorRecord is reported in place of a Result when a frame couldn't
// be processed.
type ErrorRecord struct {
	Error   string `json:"error"`
	FrameID int    `json:"frame_id"`
}

// Notice is reported when there is no analysis to give, either because
// no frame has arrived yet or because only frame statistics are wanted.
type Notice struct {
	Value   *float64       `json:"temperatura"`
	Status  comfort.Status `json:"status"`
	Color   comfort.Color  `json:"cor"`
	Message string         `json:"mensagem"`
	Metrics *Metrics       `json:"metrics,omitempty"`
}

// Report holds exactly one of a Result, an ErrorRecord or a Notice.
type Report struct {
	Result *Result
	Error  *ErrorRecord
	Notice *Notice
}

// OfflineReport is returned while no live frame is available.
func OfflineReport() Report {
	zero := 0.0
	return Report{Notice: &Notice{
		Value:   &zero,
		Status:  comfort.Offline,
		Color:   comfort.ColorFor(comfort.Offline),
		Message: comfort.Message(comfort.Offline, 0, 0),
	}}
}

// LiveReport carries frame statistics only, without a comfort value.
func LiveReport(m *Metrics) Report {
	return Report{Notice: &Notice{
		Status:  comfort.Live,
		Color:   comfort.ColorFor(comfort.Live),
		Message: comfort.Message(comfort.Live, 0, 0),
		Metrics: m,
	}}
}

func errorReport(err error, frameID int) Report {
	return Report{Error: &ErrorRecord{Error: err.Error(), FrameID: frameID}}
}

// Status returns the status tag of the report. Error records have an
// empty status.
func (r Report) Status() comfort.Status {
	switch {
	case r.Result != nil:
		return r.Result.Status
	case r.Notice != nil:
		return r.Notice.Status
	}
	return ""
}

func (r Report) MarshalJSON() ([]byte, error) {
	switch {
	case r.Result != nil:
		return json.Marshal(r.Result)
	case r.Error != nil:
		return json.Marshal(r.Error)
	case r.Notice != nil:
		return json.Marshal(r.Notice)
	}
	return []byte("null"), nil
}
