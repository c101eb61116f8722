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

// Package blob finds bright clusters ("heat blobs") in a thermal frame.
package blob

import (
	"errors"
	"fmt"
	"image"
	"log"

	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/zone"
)

// Blob is a single bright region accepted by the size filter.
type Blob struct {
	X       int
	Y       int
	Area    float64
	Contour []image.Point
	Rect    image.Rectangle
}

// Centroid returns the blob centre as a zone point.
func (b Blob) Centroid() zone.Point {
	return zone.Point{X: b.X, Y: b.Y}
}

// Centroids returns the centre of every blob.
func Centroids(blobs []Blob) []zone.Point {
	out := make([]zone.Point, len(blobs))
	for i, b := range blobs {
		out[i] = b.Centroid()
	}
	return out
}

func NewDetector(conf Config) *Detector {
	return &Detector{
		conf:   conf,
		kernel: gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(conf.KernelSize, conf.KernelSize)),
	}
}

// Detector segments frames into blobs. A Detector may be shared by
// several goroutines; it holds no per-frame state.
type Detector struct {
	conf   Config
	kernel gocv.Mat
}

// Close releases the structuring element.
func (d *Detector) Close() error {
	return d.kernel.Close()
}

// Detect returns the blobs found in frame along with the cleaned up
// binary mask. The caller owns the mask and must Close it.
func (d *Detector) Detect(frame gocv.Mat) ([]Blob, gocv.Mat, error) {
	if frame.Empty() {
		return nil, gocv.NewMat(), errors.New("empty frame")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if err := ToGray(frame, &gray); err != nil {
		return nil, gocv.NewMat(), err
	}

	// OpenCV's binary threshold keeps pixels strictly above the value.
	raw := gocv.NewMat()
	defer raw.Close()
	gocv.Threshold(gray, &raw, float32(d.conf.Threshold)-1, 255, gocv.ThresholdBinary)

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(raw, &closed, gocv.MorphClose, d.kernel)

	mask := gocv.NewMat()
	gocv.MorphologyEx(closed, &mask, gocv.MorphOpen, d.kernel)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	blobs := make([]Blob, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area <= d.conf.MinArea || area >= d.conf.MaxArea {
			continue
		}
		points := contour.ToPoints()
		cx, cy, ok := centroid(points)
		if !ok {
			continue
		}
		blobs = append(blobs, Blob{
			X:       cx,
			Y:       cy,
			Area:    area,
			Contour: points,
			Rect:    gocv.BoundingRect(contour),
		})
	}
	if d.conf.Verbose {
		log.Printf("%d contours, %d blobs", contours.Size(), len(blobs))
	}
	return blobs, mask, nil
}

// ToGray writes a single channel copy of src into dst.
func ToGray(src gocv.Mat, dst *gocv.Mat) error {
	switch src.Channels() {
	case 1:
		src.CopyTo(dst)
	case 3:
		gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(src, dst, gocv.ColorBGRAToGray)
	default:
		return fmt.Errorf("unsupported channel count %d", src.Channels())
	}
	return nil
}

// centroid returns the centre of mass of the polygon from its first
// order moments, truncated to whole pixels.
func centroid(poly []image.Point) (int, int, bool) {
	var m00, m10, m01 float64
	n := len(poly)
	for i := 0; i < n; i++ {
		p, q := poly[i], poly[(i+1)%n]
		cross := float64(p.X*q.Y - q.X*p.Y)
		m00 += cross
		m10 += float64(p.X+q.X) * cross
		m01 += float64(p.Y+q.Y) * cross
	}
	if m00 == 0 {
		return 0, 0, false
	}
	// m00 here is twice the signed area, the 1/2 and 1/6 factors cancel to 1/3.
	return int(m10 / (3 * m00)), int(m01 / (3 * m00)), true
}
