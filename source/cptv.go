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
	"fmt"
	"log"
	"os"

	cptv "github.com/TheCacophonyProject/go-cptv"
	"github.com/TheCacophonyProject/go-cptv/cptvframe"
	"gocv.io/x/gocv"

	"github.com/chickguard/chickguard/headers"
)

// OpenCPTV opens a CPTV thermal recording. Like a video it is played
// in a loop.
func OpenCPTV(path string) (*CPTV, error) {
	c := &CPTV{path: path}
	if err := c.open(); err != nil {
		return nil, err
	}
	log.Printf("cptv recording loaded: %s", path)
	return c, nil
}

type CPTV struct {
	counter
	path   string
	file   *os.File
	reader *cptv.Reader
	frame  *cptvframe.Frame
	info   *headers.HeaderInfo
}

func (c *CPTV) open() error {
	file, err := os.Open(c.path)
	if err != nil {
		return err
	}
	reader, err := cptv.NewReader(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to read cptv header of %s: %w", c.path, err)
	}
	c.file = file
	c.reader = reader
	if c.info == nil {
		c.info = headers.New(reader.ResX(), reader.ResY(), reader.FPS(), "cptv", "recording")
		c.frame = cptvframe.NewFrame(c.info)
	}
	return nil
}

// Acquire implements Source.
func (c *CPTV) Acquire(out *gocv.Mat) error {
	if err := c.reader.ReadFrame(c.frame); err != nil {
		c.file.Close()
		if err := c.open(); err != nil {
			return err
		}
		if err := c.reader.ReadFrame(c.frame); err != nil {
			return fmt.Errorf("no frames in %s: %w", c.path, err)
		}
	}
	if err := Stretch(c.frame.Pix, out); err != nil {
		return err
	}
	c.inc()
	return nil
}

// Describe implements Source.
func (c *CPTV) Describe() *headers.HeaderInfo {
	return c.info
}

// Close implements Source.
func (c *CPTV) Close() error {
	return c.file.Close()
}
