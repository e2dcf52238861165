package trayaccess

// StatusItem is the live native representation of one status bar slot: a
// toggle-style button together with its drop-down surface. Implementations
// adapt a concrete toolkit, such as a GTK toggle button with a popover.
//
// Methods are called on the toolkit main loop.
type StatusItem interface {
	// SurfaceKind reports how the item presents its drop-down. It is queried
	// fresh on every signal and must never be served from a cache, because
	// the underlying native objects can be replaced at any time.
	SurfaceKind() SurfaceKind

	// SetPresented shows or hides the drop-down. Setting the state it is
	// already in does nothing, which keeps write round-trips from ringing.
	SetPresented(presented bool)

	// TogglePresented flips the drop-down between shown and hidden.
	TogglePresented()

	// ObserveButtonState registers an observer for toggle-state changes of
	// the item's button. The returned [Observation] disconnects it.
	ObserveButtonState(fn func(ButtonState)) *Observation
}

// PopupWindow is the live native window backing a window-kind drop-down.
//
// Methods are called on the toolkit main loop.
type PopupWindow interface {
	// IsVisible reports whether the window is currently shown.
	IsVisible() bool

	// Close hides the window. Hosts reuse drop-down windows, so Close must
	// hide rather than destroy.
	Close()

	// ObserveFocusGained registers an observer that runs when the window
	// gains keyboard focus. The returned [Observation] disconnects it.
	ObserveFocusGained(fn func()) *Observation

	// ObserveFocusLost registers an observer that runs when the window loses
	// keyboard focus. The returned [Observation] disconnects it.
	ObserveFocusLost(fn func()) *Observation
}

// Resolver looks up the live native objects of a status bar by slot index and
// reports when they become available. [Registry] is the standard
// implementation; tests inject fakes.
//
// Lookups happen at use time, on every signal. Holding on to a resolved
// object across signals is a bug: the host may have replaced it.
type Resolver interface {
	// StatusItem returns the live item registered at index, or false when
	// none is registered yet.
	StatusItem(index int) (StatusItem, bool)

	// Window returns the live drop-down window registered at index, or false
	// when none is registered yet.
	Window(index int) (PopupWindow, bool)

	// OnAvailable registers a callback for status item availability at
	// index. The callback runs immediately if an item is already registered,
	// and runs again on every later registration at the same index, which is
	// how replacements are announced. The returned [Observation] removes the
	// callback.
	OnAvailable(index int, fn func()) *Observation

	// SetPresented shows or hides the drop-down of the item at index. It
	// does nothing when no item is registered.
	SetPresented(index int, presented bool)

	// SetKnownPresented records the presentation state learned from window
	// focus events. It is bookkeeping only and does not touch the item.
	SetKnownPresented(index int, presented bool)
}

// MainLoop schedules work onto the toolkit's serialized main loop. All native
// object access goes through it.
type MainLoop interface {
	// Schedule runs fn on the main loop. It may be called from any
	// goroutine; fn runs asynchronously.
	Schedule(fn func())
}
