//go:build linux

package gtkhost

import (
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"

	"github.com/shelepuginivan/trayaccess"
)

// Window adapts a GTK window to [trayaccess.PopupWindow].
//
// Drop-down windows of a bar are reused between presentations, so Close
// hides the window rather than destroying it.
type Window struct {
	window *gtk.Window
}

// NewWindow wraps an existing GTK window.
func NewWindow(window *gtk.Window) *Window {
	return &Window{window: window}
}

// Underlying returns the wrapped GTK window.
func (w *Window) Underlying() *gtk.Window {
	return w.window
}

// IsVisible reports whether the window is currently shown.
func (w *Window) IsVisible() bool {
	return w.window.GetVisible()
}

// Close hides the window.
func (w *Window) Close() {
	w.window.Hide()
}

// present shows the window and gives it keyboard focus.
func (w *Window) present() {
	w.window.ShowAll()
	w.window.Present()
}

// ObserveFocusGained registers fn for keyboard focus entering the window.
func (w *Window) ObserveFocusGained(fn func()) *trayaccess.Observation {
	handle := w.window.Connect("focus-in-event", func(window *gtk.Window, event *gdk.Event) bool {
		fn()
		return false
	})

	return trayaccess.NewObservation(func() {
		w.window.HandlerDisconnect(handle)
	})
}

// ObserveFocusLost registers fn for keyboard focus leaving the window.
func (w *Window) ObserveFocusLost(fn func()) *trayaccess.Observation {
	handle := w.window.Connect("focus-out-event", func(window *gtk.Window, event *gdk.Event) bool {
		fn()
		return false
	})

	return trayaccess.NewObservation(func() {
		w.window.HandlerDisconnect(handle)
	})
}
