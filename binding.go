package trayaccess

import "sync"

// Binding is a two-way boolean shared between application code and a
// [Presenter]. It carries the shown/hidden state of one status item's
// drop-down.
//
// Both sides read and write the same value: application writes flow to the
// native toggle through the presenter, and confirmed native transitions flow
// back to the application through observers. Observers run only when the
// value actually changes, which keeps the two directions from feeding back
// into each other.
type Binding struct {
	mu        sync.Mutex
	value     bool
	observers map[int]func(bool)
	nextID    int
}

// NewBinding returns a new [Binding] with value false.
func NewBinding() *Binding {
	return &Binding{
		observers: make(map[int]func(bool)),
	}
}

// Value returns the current value.
func (b *Binding) Value() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.value
}

// SetValue sets the value. If the value does not change, nothing happens.
// Otherwise every observer runs with the new value, outside the binding's
// lock, so observers may read or write the binding themselves.
func (b *Binding) SetValue(value bool) {
	b.mu.Lock()

	if b.value == value {
		b.mu.Unlock()
		return
	}

	b.value = value

	observers := make([]func(bool), 0, len(b.observers))
	for _, observer := range b.observers {
		observers = append(observers, observer)
	}

	b.mu.Unlock()

	for _, observer := range observers {
		observer(value)
	}
}

// Observe registers a callback that runs whenever the value changes. The
// returned [Observation] removes the callback when released.
func (b *Binding) Observe(observer func(bool)) *Observation {
	b.mu.Lock()

	id := b.nextID
	b.nextID++
	b.observers[id] = observer

	b.mu.Unlock()

	return NewObservation(func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		delete(b.observers, id)
	})
}
