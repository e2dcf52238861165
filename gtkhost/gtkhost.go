//go:build linux

// Package gtkhost implements the native side of trayaccess with GTK 3: a
// main-loop dispatcher, a drop-down window wrapper, and a composite status
// item built from a toggle button and either a popover menu or a dedicated
// window.
//
// The package adapts what GTK already provides; presentation policy lives in
// the trayaccess package and works the same against any toolkit.
package gtkhost

import "github.com/gotk3/gotk3/glib"

// Loop schedules work onto the GTK main loop. It implements
// [github.com/shelepuginivan/trayaccess.MainLoop].
type Loop struct{}

// Schedule runs fn on the GTK main loop. It may be called from any
// goroutine.
func (Loop) Schedule(fn func()) {
	glib.IdleAdd(fn)
}
