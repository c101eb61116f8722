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

package blob

import "errors"

type Config struct {
	Threshold  int     `yaml:"threshold"`
	KernelSize int     `yaml:"kernel-size"`
	MinArea    float64 `yaml:"min-area"`
	MaxArea    float64 `yaml:"max-area"`
	Verbose    bool    `yaml:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		Threshold:  150,
		KernelSize: 5,
		MinArea:    5,
		MaxArea:    500,
	}
}

func (conf *Config) Validate() error {
	if conf.Threshold < 1 || conf.Threshold > 255 {
		return errors.New("threshold should be between 1 and 255")
	}
	if conf.KernelSize < 1 {
		return errors.New("kernel-size should be positive")
	}
	if conf.MinArea < 0 {
		return errors.New("min-area can't be negative")
	}
	if conf.MaxArea <= conf.MinArea {
		return errors.New("max-area should be larger than min-area")
	}
	return nil
}
