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

package alert

import (
	"github.com/TheCacophonyProject/window"
)

type Config struct {
	Enabled     bool   `yaml:"enabled"`
	WindowStart string `yaml:"window-start"`
	WindowEnd   string `yaml:"window-end"`
}

func DefaultConfig() Config {
	return Config{
		Enabled: true,
	}
}

// Window builds the alert window. Times are either clock times such as
// "17:30" or offsets from sunset and sunrise such as "-30m". An empty
// start and end means alerts are always sent.
func (conf *Config) Window(latitude, longitude float32) (*window.Window, error) {
	return window.New(conf.WindowStart, conf.WindowEnd, float64(latitude), float64(longitude))
}

func (conf *Config) Validate() error {
	_, err := conf.Window(0, 0)
	return err
}
