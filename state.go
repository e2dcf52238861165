package trayaccess

// ButtonState represents the state of a status item's toggle button.
type ButtonState int

const (
	// The button is released and the drop-down is hidden.
	ButtonOff ButtonState = iota

	// The button is pressed and the drop-down is shown.
	ButtonOn

	// The button changed without a definite direction, such as a toggle in
	// the inconsistent state. Hosts present the drop-down in this state, so
	// it counts as shown.
	ButtonMixed
)

// String returns a human-readable name of the button state.
func (s ButtonState) String() string {
	switch s {
	case ButtonOff:
		return "off"
	case ButtonOn:
		return "on"
	case ButtonMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// SurfaceKind represents how a status item presents its drop-down.
type SurfaceKind int

const (
	// The kind could not be determined, for example because the item is gone
	// or the query failed. Button signals are ignored for unknown surfaces.
	SurfaceUnknown SurfaceKind = iota

	// The drop-down is a menu rendered by the host itself, such as a popover
	// attached to the button. The button state tracks the menu reliably,
	// making it the authoritative signal channel.
	SurfaceMenu

	// The drop-down is a dedicated window with its own keyboard focus. The
	// button state is not trustworthy for this kind; focus events of the
	// window are the only authoritative channel.
	SurfaceWindow
)

// String returns a human-readable name of the surface kind.
func (k SurfaceKind) String() string {
	switch k {
	case SurfaceMenu:
		return "menu"
	case SurfaceWindow:
		return "window"
	default:
		return "unknown"
	}
}
