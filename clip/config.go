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
	"time"
)

type Config struct {
	Enabled      bool           `yaml:"enabled"`
	OutputDir    string         `yaml:"output-dir"`
	MinDiskSpace uint64         `yaml:"min-disk-space"`
	Throttler    ThrottleConfig `yaml:"throttler"`
}

type ThrottleConfig struct {
	ApplyThrottling bool          `yaml:"apply-throttling"`
	BucketSize      time.Duration `yaml:"bucket-size"`
	MinRefill       time.Duration `yaml:"min-refill"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		OutputDir:    "/var/spool/chickguard",
		MinDiskSpace: 200,
		Throttler: ThrottleConfig{
			ApplyThrottling: true,
			BucketSize:      10 * time.Minute,
			MinRefill:       10 * time.Minute,
		},
	}
}

func (conf *Config) Validate() error {
	if conf.Enabled && conf.OutputDir == "" {
		return errors.New("output-dir is needed to record clips")
	}
	if conf.Throttler.ApplyThrottling {
		if conf.Throttler.BucketSize <= 0 {
			return errors.New("bucket-size should be positive")
		}
		if conf.Throttler.MinRefill <= 0 {
			return errors.New("min-refill should be positive")
		}
	}
	return nil
}
