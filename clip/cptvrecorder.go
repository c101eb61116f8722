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

package clip

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"syscall"
	"time"

	cptv "github.com/TheCacophonyProject/go-cptv"
	"github.com/TheCacophonyProject/go-cptv/cptvframe"
)

const cptvTempExt = "cptv.temp"

// NewCPTVFileRecorder returns a Recorder writing CPTV files into
// conf.OutputDir. header supplies the fields common to every clip.
func NewCPTVFileRecorder(conf *Config, header cptv.Header) *CPTVFileRecorder {
	return &CPTVFileRecorder{
		outputDir:    conf.OutputDir,
		header:       header,
		minDiskSpace: conf.MinDiskSpace,
	}
}

type CPTVFileRecorder struct {
	outputDir    string
	header       cptv.Header
	minDiskSpace uint64
	writer       *cptv.FileWriter
	lastClip     string
}

func (fr *CPTVFileRecorder) CheckCanRecord() error {
	enoughSpace, err := checkDiskSpace(fr.minDiskSpace, fr.outputDir)
	if err != nil {
		return fmt.Errorf("problem with checking disk space: %v", err)
	} else if !enoughSpace {
		return errors.New("not enough free disk space to write clip")
	}
	return nil
}

func (fr *CPTVFileRecorder) StartRecording(camera cptvframe.CameraSpec) error {
	filename := filepath.Join(fr.outputDir, newRecordingTempName(time.Now()))
	log.Printf("clip started: %s", filename)

	writer, err := cptv.NewFileWriter(filename, camera)
	if err != nil {
		return err
	}

	header := fr.header
	header.FPS = camera.FPS()
	if err = writer.WriteHeader(header); err != nil {
		writer.Close()
		os.Remove(filename)
		return err
	}

	fr.writer = writer
	return nil
}

func (fr *CPTVFileRecorder) StopRecording() error {
	if fr.writer == nil {
		return nil
	}
	fr.writer.Close()

	finalName, err := renameTempRecording(fr.writer.Name())
	fr.writer = nil
	if err != nil {
		return err
	}
	log.Printf("clip stopped: %s", finalName)
	fr.lastClip = finalName
	return nil
}

// Stop abandons the current clip, removing the partial file.
func (fr *CPTVFileRecorder) Stop() {
	if fr.writer != nil {
		fr.writer.Close()
		os.Remove(fr.writer.Name())
		fr.writer = nil
	}
}

func (fr *CPTVFileRecorder) WriteFrame(frame *cptvframe.Frame) error {
	if fr.writer == nil {
		return errors.New("no clip in progress")
	}
	return fr.writer.WriteFrame(frame)
}

// LastClip returns the name of the most recently finished clip.
func (fr *CPTVFileRecorder) LastClip() string {
	return fr.lastClip
}

func newRecordingTempName(t time.Time) string {
	return t.Format("20060102.150405.000." + cptvTempExt)
}

func renameTempRecording(tempName string) (string, error) {
	finalName := recordingFinalName(tempName)
	err := os.Rename(tempName, finalName)
	if err != nil {
		return "", err
	}
	return finalName, nil
}

var reTempName = regexp.MustCompile(`(.+)\.temp$`)

func recordingFinalName(filename string) string {
	return reTempName.ReplaceAllString(filename, `$1`)
}

// DeleteTempFiles removes clips left half written by an earlier run.
func DeleteTempFiles(directory string) error {
	matches, _ := filepath.Glob(filepath.Join(directory, "*."+cptvTempExt))
	for _, filename := range matches {
		if err := os.Remove(filename); err != nil {
			return err
		}
	}
	return nil
}

func checkDiskSpace(mb uint64, dir string) (bool, error) {
	var fs syscall.Statfs_t
	if err := syscall.Statfs(dir, &fs); err != nil {
		return false, err
	}
	return fs.Bavail*uint64(fs.Bsize)/1024/1024 >= mb, nil
}
