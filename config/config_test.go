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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chickguard/chickguard/source"
)

func TestDefaultConfig(t *testing.T) {
	conf, err := ParseConfig([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, Default(), *conf)
	assert.Equal(t, source.KindCamera, conf.Source.Kind)
	assert.Equal(t, 150, conf.Detector.Threshold)
	assert.Equal(t, 5.0, conf.Detector.MinArea)
	assert.Equal(t, 500.0, conf.Detector.MaxArea)
	assert.Equal(t, 10*time.Millisecond, conf.Capture.ReadPause)
	assert.Equal(t, time.Second, conf.Capture.RetryPause)
	assert.Equal(t, 15.0, conf.Stream.FPS)
	assert.Equal(t, 30, conf.BufferFrames)
	assert.False(t, conf.History.Enabled())
}

func TestAllSet(t *testing.T) {
	config := []byte(`
source:
    kind: video
    file: /data/brooder.mp4
detector:
    threshold: 120
    kernel-size: 3
    min-area: 10
    max-area: 800
capture:
    read-pause: 20ms
    retry-pause: 2s
    poll-interval: 5s
stream:
    fps: 5
    quality: 60
    overlay: true
clips:
    enabled: false
    output-dir: /tmp/clips
    min-disk-space: 50
    throttler:
        apply-throttling: true
        bucket-size: 1m
        min-refill: 30s
alerts:
    enabled: true
    window-start: "09:00"
    window-end: "17:00"
history:
    url: postgres://chickguard@localhost/chickguard
    interval: 30s
http:
    address: ":8080"
    video-file: /data/brooder.mp4
location:
    latitude: -36.86
    longitude: 174.76
live:
    metrics-only: true
buffer-frames: 60
device-config-dir: /etc/other
`)

	conf, err := ParseConfig(config)
	require.NoError(t, err)

	assert.Equal(t, source.KindVideo, conf.Source.Kind)
	assert.Equal(t, "/data/brooder.mp4", conf.Source.File)
	assert.Equal(t, 120, conf.Detector.Threshold)
	assert.Equal(t, 3, conf.Detector.KernelSize)
	assert.Equal(t, 800.0, conf.Detector.MaxArea)
	assert.Equal(t, 20*time.Millisecond, conf.Capture.ReadPause)
	assert.Equal(t, 5*time.Second, conf.Capture.PollInterval)
	assert.Equal(t, 5.0, conf.Stream.FPS)
	assert.True(t, conf.Stream.Overlay)
	assert.False(t, conf.Clips.Enabled)
	assert.Equal(t, uint64(50), conf.Clips.MinDiskSpace)
	assert.Equal(t, time.Minute, conf.Clips.Throttler.BucketSize)
	assert.Equal(t, "09:00", conf.Alerts.WindowStart)
	assert.Equal(t, 30*time.Second, conf.History.Interval)
	assert.True(t, conf.History.Enabled())
	assert.Equal(t, ":8080", conf.HTTP.Address)
	assert.Equal(t, float32(-36.86), conf.Location.Latitude)
	assert.True(t, conf.Live.MetricsOnly)
	assert.Equal(t, 60, conf.BufferFrames)
	assert.Equal(t, "/etc/other", conf.DeviceConfigDir)
}

func TestPartialSectionKeepsDefaults(t *testing.T) {
	conf, err := ParseConfig([]byte("detector:\n    threshold: 100\n"))
	require.NoError(t, err)
	assert.Equal(t, 100, conf.Detector.Threshold)
	assert.Equal(t, 500.0, conf.Detector.MaxArea)
}

func TestUnknownKey(t *testing.T) {
	conf, err := ParseConfig([]byte("not-a-setting: 1"))
	assert.Nil(t, conf)
	assert.Error(t, err)
}

func TestVideoSourceNeedsFile(t *testing.T) {
	conf, err := ParseConfig([]byte("source:\n    kind: video\n"))
	assert.Nil(t, conf)
	assert.EqualError(t, err, "source: a file is needed for a video source")
}

func TestInvalidDetector(t *testing.T) {
	conf, err := ParseConfig([]byte("detector:\n    min-area: 600\n"))
	assert.Nil(t, conf)
	assert.EqualError(t, err, "detector: max-area should be larger than min-area")
}

func TestInvalidBufferFrames(t *testing.T) {
	conf, err := ParseConfig([]byte("buffer-frames: 0"))
	assert.Nil(t, conf)
	assert.EqualError(t, err, "buffer-frames should be at least 1")
}

func TestInvalidLocation(t *testing.T) {
	conf, err := ParseConfig([]byte("location:\n    latitude: 100\n"))
	assert.Nil(t, conf)
	assert.Error(t, err)
}

func TestParseConfigFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "chickguard.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("stream:\n    fps: 2\n"), 0644))

	conf, err := ParseConfigFile(filename)
	require.NoError(t, err)
	assert.Equal(t, 2.0, conf.Stream.FPS)

	_, err = ParseConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
