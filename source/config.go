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
	"fmt"
)

const (
	KindCamera = "camera"
	KindLepton = "lepton"
	KindVideo  = "video"
	KindCPTV   = "cptv"
)

type Config struct {
	Kind   string       `yaml:"kind"`
	File   string       `yaml:"file"`
	Camera CameraConfig `yaml:"camera"`
	Lepton LeptonConfig `yaml:"lepton"`
}

type CameraConfig struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type LeptonConfig struct {
	SPISpeed int64  `yaml:"spi-speed"`
	PowerPin string `yaml:"power-pin"`
	Quick    bool   `yaml:"quick"`
}

func DefaultConfig() Config {
	return Config{
		Kind: KindCamera,
		Camera: CameraConfig{
			Device: 0,
			Width:  256,
			Height: 192,
			FPS:    25,
		},
		Lepton: LeptonConfig{
			SPISpeed: 30000000,
			PowerPin: "GPIO23",
		},
	}
}

// Live reports whether the configured source is a device rather than
// a recording.
func (conf *Config) Live() bool {
	return conf.Kind == KindCamera || conf.Kind == KindLepton
}

func (conf *Config) Validate() error {
	switch conf.Kind {
	case KindCamera:
		if conf.Camera.Device < 0 {
			return errors.New("camera device can't be negative")
		}
		if conf.Camera.Width < 0 || conf.Camera.Height < 0 || conf.Camera.FPS < 0 {
			return errors.New("camera width, height and fps can't be negative")
		}
	case KindLepton:
		if conf.Lepton.SPISpeed < 1 {
			return errors.New("spi-speed should be positive")
		}
	case KindVideo, KindCPTV:
		if conf.File == "" {
			return fmt.Errorf("a file is needed for a %s source", conf.Kind)
		}
	default:
		return fmt.Errorf("unknown source kind %q", conf.Kind)
	}
	return nil
}

// Open returns the source described by conf. Live sources that can't
// be opened are returned anyway and report ErrUnavailable; recordings
// that can't be opened are an error.
func Open(conf Config) (Source, error) {
	switch conf.Kind {
	case KindCamera:
		return OpenCamera(conf.Camera), nil
	case KindLepton:
		return OpenLepton(conf.Lepton), nil
	case KindVideo:
		return OpenVideo(conf.File)
	case KindCPTV:
		return OpenCPTV(conf.File)
	}
	return nil, fmt.Errorf("unknown source kind %q", conf.Kind)
}
