package trayaccess

import "sync"

// Registry maps slot indexes to the live native objects of a status bar. It
// implements [Resolver].
//
// The host registers objects as it creates them and registers replacements
// when its scene is rebuilt. Consumers never hold resolved objects across
// signals; every use starts with a fresh lookup, so a replaced object is
// picked up immediately.
type Registry struct {
	mu             sync.RWMutex
	items          map[int]StatusItem
	windows        map[int]PopupWindow
	knownPresented map[int]bool
	waiters        map[int]map[int]func()
	nextWaiterID   int
}

// NewRegistry returns a new empty [Registry].
func NewRegistry() *Registry {
	return &Registry{
		items:          make(map[int]StatusItem),
		windows:        make(map[int]PopupWindow),
		knownPresented: make(map[int]bool),
		waiters:        make(map[int]map[int]func()),
	}
}

// RegisterStatusItem registers the live item at index, replacing any previous
// registration. Availability callbacks for index run after the item is
// stored, outside the registry's lock.
//
// Hosts call this when the native objects of a slot have been created, which
// is also how a [Presenter] waiting on the slot learns it can subscribe.
func (r *Registry) RegisterStatusItem(index int, item StatusItem) {
	r.mu.Lock()

	r.items[index] = item

	waiters := make([]func(), 0, len(r.waiters[index]))
	for _, waiter := range r.waiters[index] {
		waiters = append(waiters, waiter)
	}

	r.mu.Unlock()

	for _, waiter := range waiters {
		waiter()
	}
}

// UnregisterStatusItem removes the item registered at index. Lookups for the
// index report absence until a new item is registered.
func (r *Registry) UnregisterStatusItem(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, index)
}

// RegisterWindow registers the live drop-down window at index, replacing any
// previous registration.
//
// Register the slot's window before its item: availability is announced on
// [Registry.RegisterStatusItem], and subscribers expect to find the window
// already in place when it fires.
func (r *Registry) RegisterWindow(index int, window PopupWindow) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.windows[index] = window
}

// UnregisterWindow removes the window registered at index and clears the
// known presentation state derived from it. A later window at the same index
// starts from a clean slate.
func (r *Registry) UnregisterWindow(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.windows, index)
	delete(r.knownPresented, index)
}

// StatusItem returns the live item registered at index, or false when none
// is registered.
func (r *Registry) StatusItem(index int) (StatusItem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[index]
	return item, ok
}

// Window returns the live drop-down window registered at index, or false
// when none is registered.
func (r *Registry) Window(index int) (PopupWindow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	window, ok := r.windows[index]
	return window, ok
}

// OnAvailable registers a callback for status item availability at index.
//
// The callback runs immediately if an item is already registered, and runs
// again on every later [Registry.RegisterStatusItem] at the same index.
// Callbacks run outside the registry's lock and may use the registry freely.
// The returned [Observation] removes the callback.
func (r *Registry) OnAvailable(index int, fn func()) *Observation {
	r.mu.Lock()

	id := r.nextWaiterID
	r.nextWaiterID++

	if r.waiters[index] == nil {
		r.waiters[index] = make(map[int]func())
	}
	r.waiters[index][id] = fn

	_, available := r.items[index]

	r.mu.Unlock()

	if available {
		fn()
	}

	return NewObservation(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		delete(r.waiters[index], id)
	})
}

// SetPresented shows or hides the drop-down of the item at index. It does
// nothing when no item is registered, which is the expected state while the
// host is still composing its scene.
func (r *Registry) SetPresented(index int, presented bool) {
	item, ok := r.StatusItem(index)
	if !ok {
		return
	}

	item.SetPresented(presented)
}

// TogglePresented flips the drop-down of the item at index between shown and
// hidden. It does nothing when no item is registered.
func (r *Registry) TogglePresented(index int) {
	item, ok := r.StatusItem(index)
	if !ok {
		return
	}

	item.TogglePresented()
}

// SetKnownPresented records the presentation state learned from window focus
// events for index. The value is kept separately from the item and survives
// item replacement; it is cleared by [Registry.UnregisterWindow].
func (r *Registry) SetKnownPresented(index int, presented bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.knownPresented[index] = presented
}

// KnownPresented returns the presentation state last recorded for index, or
// false when none was recorded.
func (r *Registry) KnownPresented(index int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.knownPresented[index]
}
