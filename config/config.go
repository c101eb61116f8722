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

// Package config reads the monitor configuration file.
package config

import (
	"errors"
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/chickguard/chickguard/alert"
	"github.com/chickguard/chickguard/blob"
	"github.com/chickguard/chickguard/capture"
	"github.com/chickguard/chickguard/clip"
	"github.com/chickguard/chickguard/history"
	"github.com/chickguard/chickguard/httpapi"
	"github.com/chickguard/chickguard/location"
	"github.com/chickguard/chickguard/source"
	"github.com/chickguard/chickguard/stream"
)

const DefaultFile = "/etc/chickguard.yaml"

type Config struct {
	Source          source.Config   `yaml:"source"`
	Detector        blob.Config     `yaml:"detector"`
	Capture         capture.Config  `yaml:"capture"`
	Stream          stream.Config   `yaml:"stream"`
	Clips           clip.Config     `yaml:"clips"`
	Alerts          alert.Config    `yaml:"alerts"`
	History         history.Config  `yaml:"history"`
	HTTP            httpapi.Config  `yaml:"http"`
	Location        location.Config `yaml:"location"`
	Live            LiveConfig      `yaml:"live"`
	BufferFrames    int             `yaml:"buffer-frames"`
	DeviceConfigDir string          `yaml:"device-config-dir"`
}

type LiveConfig struct {
	// MetricsOnly skips detection and reports frame statistics only.
	MetricsOnly bool `yaml:"metrics-only"`
}

func Default() Config {
	return Config{
		Source:          source.DefaultConfig(),
		Detector:        blob.DefaultConfig(),
		Capture:         capture.DefaultConfig(),
		Stream:          stream.DefaultConfig(),
		Clips:           clip.DefaultConfig(),
		Alerts:          alert.DefaultConfig(),
		History:         history.DefaultConfig(),
		HTTP:            httpapi.DefaultConfig(),
		Location:        location.DefaultConfig(),
		BufferFrames:    30,
		DeviceConfigDir: "/etc/chickguard",
	}
}

type validator interface {
	Validate() error
}

func (conf *Config) Validate() error {
	sections := []struct {
		name string
		v    validator
	}{
		{"source", &conf.Source},
		{"detector", &conf.Detector},
		{"capture", &conf.Capture},
		{"stream", &conf.Stream},
		{"clips", &conf.Clips},
		{"alerts", &conf.Alerts},
		{"history", &conf.History},
		{"http", &conf.HTTP},
		{"location", &conf.Location},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	if conf.BufferFrames < 1 {
		return errors.New("buffer-frames should be at least 1")
	}
	return nil
}

func ParseConfigFile(filename string) (*Config, error) {
	buf, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(buf)
}

// ParseConfig reads YAML over the defaults and validates the result.
func ParseConfig(buf []byte) (*Config, error) {
	conf := Default()
	if err := yaml.UnmarshalStrict(buf, &conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
