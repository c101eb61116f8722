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

package capture

import (
	"context"
	"log"
	"time"

	"github.com/chickguard/chickguard/analysis"
)

// Poller analyses the live frame on a fixed interval so listeners
// (alerts, clips, history) see readings even when no client is polling
// the status endpoint.
type Poller struct {
	Status  func() analysis.Report
	Summary func() string
	Conf    Config
}

func (p *Poller) Run(ctx context.Context) {
	if p.Conf.PollInterval <= 0 {
		return
	}
	ticker := time.NewTicker(p.Conf.PollInterval)
	defer ticker.Stop()

	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		p.Status()

		if p.Summary != nil && p.Conf.LogInterval > 0 && time.Since(lastLog) >= p.Conf.LogInterval {
			if s := p.Summary(); s != "" {
				log.Printf("readings: %s", s)
			}
			lastLog = time.Now()
		}
	}
}
