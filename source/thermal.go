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
	"errors"
	"math"

	"gocv.io/x/gocv"
)

// Stretch writes an 8-bit intensity frame into out, scaling raw sensor
// values so the coldest pixel is 0 and the hottest is 255.
func Stretch(pix [][]uint16, out *gocv.Mat) error {
	rows := len(pix)
	if rows == 0 || len(pix[0]) == 0 {
		return errors.New("empty thermal frame")
	}
	cols := len(pix[0])

	var valMax uint16
	var valMin uint16 = math.MaxUint16
	for _, row := range pix {
		for _, val := range row {
			valMax = maxUint16(valMax, val)
			valMin = minUint16(valMin, val)
		}
	}

	data := make([]byte, rows*cols)
	if valMax > valMin {
		span := uint32(valMax - valMin)
		i := 0
		for _, row := range pix {
			for _, val := range row {
				data[i] = byte(uint32(val-valMin) * 255 / span)
				i++
			}
		}
	}

	mat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC1, data)
	if err != nil {
		return err
	}
	defer mat.Close()
	mat.CopyTo(out)
	return nil
}

func maxUint16(a, b uint16) uint16 {
	if a > b {
		return a
	}
	return b
}

func minUint16(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}
