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

package headers

import (
	yaml "gopkg.in/yaml.v2"
)

const (
	XResolution = "ResX"
	YResolution = "ResY"
	FPS         = "FPS"
	Brand       = "Brand"
	Model       = "Model"
)

// New returns a description of a frame source.
func New(resX, resY, fps int, brand, model string) *HeaderInfo {
	return &HeaderInfo{
		resX:  resX,
		resY:  resY,
		fps:   fps,
		brand: brand,
		model: model,
	}
}

// HeaderInfo contains the description of the device or file frames
// come from. It is written into clip headers.
type HeaderInfo struct {
	resX  int
	resY  int
	fps   int
	brand string
	model string
}

// ResX implements cptvframe.CameraSpec.
func (h *HeaderInfo) ResX() int {
	return h.resX
}

// ResY implements cptvframe.CameraSpec.
func (h *HeaderInfo) ResY() int {
	return h.resY
}

// FPS implements cptvframe.CameraSpec.
func (h *HeaderInfo) FPS() int {
	return h.fps
}

// Model returns the camera model.
func (h *HeaderInfo) Model() string {
	return h.model
}

// Brand returns the camera brand.
func (h *HeaderInfo) Brand() string {
	return h.brand
}

// WithSize returns a copy with the resolution replaced. Sources that
// only learn their frame size from the first frame use it.
func (h *HeaderInfo) WithSize(resX, resY int) *HeaderInfo {
	out := *h
	out.resX = resX
	out.resY = resY
	return &out
}

// MarshalYAML writes the description as a flat mapping.
func (h *HeaderInfo) MarshalYAML() (interface{}, error) {
	return yaml.MapSlice{
		{Key: XResolution, Value: h.resX},
		{Key: YResolution, Value: h.resY},
		{Key: FPS, Value: h.fps},
		{Key: Brand, Value: h.brand},
		{Key: Model, Value: h.model},
	}, nil
}

// String returns the YAML form of the description.
func (h *HeaderInfo) String() string {
	buf, err := yaml.Marshal(h)
	if err != nil {
		return err.Error()
	}
	return string(buf)
}
