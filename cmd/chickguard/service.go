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

package main

import (
	"encoding/json"
	"errors"

	"github.com/godbus/dbus"
	"github.com/godbus/dbus/introspect"

	"github.com/chickguard/chickguard/analysis"
	"github.com/chickguard/chickguard/headers"
)

const (
	dbusName = "org.chickguard.monitor"
	dbusPath = "/org/chickguard/monitor"
)

type service struct {
	status    func() analysis.Report
	snapshots *snapshotter
	info      *headers.HeaderInfo
}

// startService exports the monitor on the system bus. The returned
// function withdraws it again.
func startService(status func() analysis.Report, snapshots *snapshotter, info *headers.HeaderInfo) (func(), error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	reply, err := conn.RequestName(dbusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, errors.New("name already taken")
	}

	s := &service{
		status:    status,
		snapshots: snapshots,
		info:      info,
	}
	conn.Export(s, dbusPath, dbusName)
	conn.Export(genIntrospectable(s), dbusPath, "org.freedesktop.DBus.Introspectable")
	return func() {
		conn.Export(nil, dbusPath, dbusName)
		conn.Export(nil, dbusPath, "org.freedesktop.DBus.Introspectable")
		conn.ReleaseName(dbusName)
	}, nil
}

func genIntrospectable(v interface{}) introspect.Introspectable {
	node := &introspect.Node{
		Interfaces: []introspect.Interface{{
			Name:    dbusName,
			Methods: introspect.Methods(v),
		}},
	}
	return introspect.NewIntrospectable(node)
}

func makeDbusError(name string, err error) *dbus.Error {
	return &dbus.Error{
		Name: dbusName + "." + name,
		Body: []interface{}{err.Error()},
	}
}

// Status returns the comfort report for the latest frame as JSON.
func (s *service) Status() (string, *dbus.Error) {
	buf, err := json.Marshal(s.status())
	if err != nil {
		return "", makeDbusError("Status", err)
	}
	return string(buf), nil
}

// CameraInfo returns the frame source description as YAML.
func (s *service) CameraInfo() (string, *dbus.Error) {
	return s.info.String(), nil
}

// TakeSnapshot will save the latest frame as a colourised still
func (s *service) TakeSnapshot() *dbus.Error {
	if err := s.snapshots.take(false); err != nil {
		return makeDbusError("TakeSnapshot", err)
	}
	return nil
}

// TakeRawSnapshot will save the latest frame as an intensity still
func (s *service) TakeRawSnapshot() *dbus.Error {
	if err := s.snapshots.take(true); err != nil {
		return makeDbusError("TakeRawSnapshot", err)
	}
	return nil
}
