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

// Package clip writes the diagnostic frame window to CPTV files when
// the brooder becomes uncomfortable.
package clip

import (
	"github.com/TheCacophonyProject/go-cptv/cptvframe"
)

type Recorder interface {
	StopRecording() error
	StartRecording(camera cptvframe.CameraSpec) error
	WriteFrame(*cptvframe.Frame) error
	CheckCanRecord() error
}
