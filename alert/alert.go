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

// Package alert queues device events when the brooder comfort status
// changes.
package alert

import (
	"log"
	"sync"
	"time"

	"github.com/TheCacophonyProject/event-reporter/eventclient"
	"github.com/TheCacophonyProject/window"

	"github.com/chickguard/chickguard/analysis"
	"github.com/chickguard/chickguard/comfort"
	"github.com/chickguard/chickguard/loglimiter"
)

const (
	EventType      = "brooder-comfort"
	minLogInterval = time.Minute
)

// Sender delivers an event to wherever events are collected.
type Sender interface {
	Send(eventType string, details map[string]interface{}) error
}

// EventReporter queues events with the device event reporter over D-Bus.
type EventReporter struct{}

func (EventReporter) Send(eventType string, details map[string]interface{}) error {
	return eventclient.AddEvent(eventclient.Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Details:   details,
	})
}

func New(sender Sender, w *window.Window) *Alerter {
	return &Alerter{
		sender: sender,
		window: w,
		log:    loglimiter.New(minLogInterval),
	}
}

// Alerter implements analysis.Listener. An event is sent each time the
// status moves between COLD, NORMAL and HOT while the alert window is
// active. The first reading only raises an event if it is an alarm.
type Alerter struct {
	sender Sender
	window *window.Window
	log    *loglimiter.LogLimiter

	mu   sync.Mutex
	last comfort.Status
	sent int
}

// ResultReady implements analysis.Listener.
func (a *Alerter) ResultReady(r *analysis.Result) {
	switch r.Status {
	case comfort.Cold, comfort.Normal, comfort.Hot:
	default:
		return
	}

	a.mu.Lock()
	prev := a.last
	a.last = r.Status
	a.mu.Unlock()

	if r.Status == prev || (prev == "" && !r.Status.IsAlarm()) {
		return
	}
	if a.window != nil && !a.window.Active() {
		a.log.Printf("comfort changed to %s outside of alert window", r.Status)
		return
	}

	details := map[string]interface{}{
		"description": map[string]interface{}{
			"type": EventType,
			"details": map[string]interface{}{
				"status":   string(r.Status),
				"previous": string(prev),
				"value":    r.Value,
				"count":    r.Total,
				"message":  r.Message,
			},
		},
	}
	if err := a.sender.Send(EventType, details); err != nil {
		a.log.Printf("could not queue comfort event: %v", err)
		return
	}
	log.Printf("comfort event queued: %s -> %s", prev, r.Status)

	a.mu.Lock()
	a.sent++
	a.mu.Unlock()
}

// Sent returns the number of events queued.
func (a *Alerter) Sent() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sent
}
