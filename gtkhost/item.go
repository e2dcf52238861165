//go:build linux

package gtkhost

import (
	"github.com/gotk3/gotk3/gtk"

	"github.com/shelepuginivan/trayaccess"
	"github.com/shelepuginivan/trayaccess/sni"
)

// Item adapts one bar slot to [trayaccess.StatusItem]: a toggle button
// together with the drop-down surface behind it, and optionally the remote
// StatusNotifierItem the slot represents.
//
// All presentation flows through the button's active state. Showing and
// hiding the surface happens in the internal toggled handler, so a user
// click, [Item.SetPresented], and a popover dismissed by clicking elsewhere
// all converge on the same signal, which is also the one reported to
// [Item.ObserveButtonState] subscribers.
type Item struct {
	button  *gtk.ToggleButton
	popover *gtk.Popover
	window  *Window
	remote  *sni.Item
}

// NewMenuItem returns an [Item] whose drop-down is a popover menu attached
// to the button. remote may be nil for slots without a StatusNotifierItem
// behind them.
//
// Dismissing the popover by clicking elsewhere releases the button, so the
// toggle state keeps tracking the menu.
func NewMenuItem(button *gtk.ToggleButton, popover *gtk.Popover, remote *sni.Item) *Item {
	item := &Item{
		button:  button,
		popover: popover,
		remote:  remote,
	}

	button.Connect("toggled", func() {
		if button.GetActive() {
			popover.Popup()
			item.notifyMenuOpened()
		} else {
			popover.Popdown()
			item.notifyMenuClosed()
		}
	})

	popover.Connect("closed", func() {
		button.SetActive(false)
	})

	return item
}

// NewWindowItem returns an [Item] whose drop-down is a dedicated window.
// remote may be nil for slots without a StatusNotifierItem behind them.
//
// The window is shown with keyboard focus, so its focus events drive the
// presentation state; the button state is only the visual toggle.
func NewWindowItem(button *gtk.ToggleButton, window *Window, remote *sni.Item) *Item {
	item := &Item{
		button: button,
		window: window,
		remote: remote,
	}

	button.Connect("toggled", func() {
		if button.GetActive() {
			window.present()
		} else {
			window.Close()
		}
	})

	return item
}

// Button returns the item's toggle button, for packing into the bar.
func (item *Item) Button() *gtk.ToggleButton {
	return item.button
}

// Remote returns the remote StatusNotifierItem behind the slot, or nil.
func (item *Item) Remote() *sni.Item {
	return item.remote
}

// SurfaceKind reports how the item presents its drop-down.
//
// When a remote item exists its ItemIsMenu property is queried on every
// call: the application can replace the remote object at any time, and a
// cached answer would attribute signals to the wrong kind of surface. A
// failed query reports [trayaccess.SurfaceUnknown], which ignores button
// signals instead of guessing.
func (item *Item) SurfaceKind() trayaccess.SurfaceKind {
	if item.remote != nil {
		isMenu, err := item.remote.IsMenuBased()
		if err != nil {
			return trayaccess.SurfaceUnknown
		}

		if isMenu {
			return trayaccess.SurfaceMenu
		}

		return trayaccess.SurfaceWindow
	}

	if item.popover != nil {
		return trayaccess.SurfaceMenu
	}

	if item.window != nil {
		return trayaccess.SurfaceWindow
	}

	return trayaccess.SurfaceUnknown
}

// SetPresented shows or hides the drop-down by driving the button's active
// state. Setting the state the button is already in does nothing.
func (item *Item) SetPresented(presented bool) {
	if item.button.GetActive() == presented {
		return
	}

	item.button.SetActive(presented)
}

// TogglePresented flips the drop-down between shown and hidden.
func (item *Item) TogglePresented() {
	item.SetPresented(!item.button.GetActive())
}

// ObserveButtonState registers fn for toggle-state changes of the button.
func (item *Item) ObserveButtonState(fn func(trayaccess.ButtonState)) *trayaccess.Observation {
	handle := item.button.Connect("toggled", func() {
		if item.button.GetActive() {
			fn(trayaccess.ButtonOn)
		} else {
			fn(trayaccess.ButtonOff)
		}
	})

	return trayaccess.NewObservation(func() {
		item.button.HandlerDisconnect(handle)
	})
}

// notifyMenuOpened sends the dbusmenu opened event to the remote menu, so
// the application can refresh dynamic entries. Slots without a remote, and
// remotes without a reachable menu, are skipped.
func (item *Item) notifyMenuOpened() {
	if item.remote == nil {
		return
	}

	menu, err := item.remote.Menu()
	if err != nil {
		return
	}

	menu.Opened()
}

// notifyMenuClosed sends the dbusmenu closed event to the remote menu.
func (item *Item) notifyMenuClosed() {
	if item.remote == nil {
		return
	}

	menu, err := item.remote.Menu()
	if err != nil {
		return
	}

	menu.Closed()
}
