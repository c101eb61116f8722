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
	"log"

	"github.com/chickguard/chickguard/alert"
)

// ThrottledEventRecorder queues an event each time a clip is throttled.
type ThrottledEventRecorder struct {
	Sender alert.Sender
}

func (er ThrottledEventRecorder) WhenThrottled() {
	eventDetails := map[string]interface{}{
		"description": map[string]interface{}{
			"type": "throttle",
		},
	}
	if err := er.Sender.Send("throttle", eventDetails); err != nil {
		log.Printf("could not record throttle event: %s", err)
	}
}
