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

// Package location holds where the brooder is and who it belongs to.
// The coordinates decide when sunrise and sunset relative alert windows
// open and close.
package location

import (
	"errors"
	"fmt"

	goconfig "github.com/TheCacophonyProject/go-config"
)

const (
	maxLatitude  = 90
	maxLongitude = 180
)

type Config struct {
	Latitude  float32 `yaml:"latitude"`
	Longitude float32 `yaml:"longitude"`
	Altitude  float32 `yaml:"altitude"`
	Accuracy  float32 `yaml:"accuracy"`
}

func DefaultConfig() Config {
	return Config{}
}

// IsLocationEmpty reports whether no location has been set. (0, 0) is
// in the Atlantic so it is never a real brooder.
func (conf *Config) IsLocationEmpty() bool {
	return conf.Latitude == 0 && conf.Longitude == 0
}

func (conf *Config) Validate() error {
	if conf.Latitude < -maxLatitude || conf.Latitude > maxLatitude {
		return errors.New("latitude outside of normal range")
	}
	if conf.Longitude < -maxLongitude || conf.Longitude > maxLongitude {
		return errors.New("longitude outside of normal range")
	}
	// Altitude and accuracy are informational only.
	return nil
}

// Device identifies the monitor in the events it reports.
type Device struct {
	ID   int
	Name string
}

// LoadDevice reads the device identity from the shared device
// configuration in dir. When conf has no location of its own, the
// device location is copied into it.
func LoadDevice(dir string, conf *Config) (*Device, error) {
	configRW, err := goconfig.New(dir)
	if err != nil {
		return nil, fmt.Errorf("reading device config: %v", err)
	}

	var deviceConfig goconfig.Device
	if err := configRW.Unmarshal(goconfig.DeviceKey, &deviceConfig); err != nil {
		return nil, err
	}

	if conf.IsLocationEmpty() {
		windowLocation := goconfig.DefaultWindowLocation()
		if err := configRW.Unmarshal(goconfig.LocationKey, &windowLocation); err != nil {
			return nil, err
		}
		conf.Latitude = float32(windowLocation.Latitude)
		conf.Longitude = float32(windowLocation.Longitude)
		if err := conf.Validate(); err != nil {
			return nil, err
		}
	}

	return &Device{
		ID:   deviceConfig.ID,
		Name: deviceConfig.Name,
	}, nil
}
