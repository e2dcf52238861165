package trayaccess

import "sync"

// Observation is a handle to a registered observer. Releasing it removes the
// observer from whatever it was watching; the watched object itself is not
// affected.
//
// Native objects of a status bar can be destroyed and recreated at any time,
// so every subscription is scoped by an Observation and released before a
// replacement is installed. A released token never fires again.
type Observation struct {
	mu      sync.Mutex
	release func()
}

// NewObservation returns an [Observation] that runs release when released.
//
// Implementations of [StatusItem], [PopupWindow], and [Resolver] wrap their
// native disconnect primitives with it, for example a GLib signal handler
// disconnect.
func NewObservation(release func()) *Observation {
	return &Observation{release: release}
}

// Release removes the observer. It is safe to call on a nil Observation and
// safe to call multiple times; only the first call has an effect.
func (o *Observation) Release() {
	if o == nil {
		return
	}

	o.mu.Lock()
	release := o.release
	o.release = nil
	o.mu.Unlock()

	if release != nil {
		release()
	}
}

// observerSet holds the native subscriptions of a [Presenter], one slot per
// signal kind. A nil slot means no live subscription of that kind. Setters
// release the previous token first, so at most one subscription of each kind
// is live at a time.
type observerSet struct {
	buttonState *Observation
	focusGained *Observation
	focusLost   *Observation
}

// setButtonState replaces the button-state subscription.
func (s *observerSet) setButtonState(observation *Observation) {
	s.buttonState.Release()
	s.buttonState = observation
}

// setFocus replaces the focus subscription pair.
func (s *observerSet) setFocus(gained, lost *Observation) {
	s.focusGained.Release()
	s.focusLost.Release()
	s.focusGained = gained
	s.focusLost = lost
}

// releaseAll releases every held subscription.
func (s *observerSet) releaseAll() {
	s.setButtonState(nil)
	s.setFocus(nil, nil)
}
