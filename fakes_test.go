package trayaccess

import "sync"

// fakeStatusItem implements StatusItem and records every command it
// receives. Tests emit button-state changes through it.
type fakeStatusItem struct {
	mu        sync.Mutex
	kind      SurfaceKind
	presented []bool
	toggles   int
	observers map[int]func(ButtonState)
	nextID    int
}

func newFakeStatusItem(kind SurfaceKind) *fakeStatusItem {
	return &fakeStatusItem{
		kind:      kind,
		observers: make(map[int]func(ButtonState)),
	}
}

func (f *fakeStatusItem) SurfaceKind() SurfaceKind {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.kind
}

func (f *fakeStatusItem) setKind(kind SurfaceKind) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.kind = kind
}

func (f *fakeStatusItem) SetPresented(presented bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.presented = append(f.presented, presented)
}

func (f *fakeStatusItem) TogglePresented() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.toggles++
}

func (f *fakeStatusItem) ObserveButtonState(fn func(ButtonState)) *Observation {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.observers[id] = fn

	return NewObservation(func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		delete(f.observers, id)
	})
}

// emitButtonState delivers a button-state change to every live observer.
func (f *fakeStatusItem) emitButtonState(state ButtonState) {
	f.mu.Lock()
	observers := make([]func(ButtonState), 0, len(f.observers))
	for _, observer := range f.observers {
		observers = append(observers, observer)
	}
	f.mu.Unlock()

	for _, observer := range observers {
		observer(state)
	}
}

func (f *fakeStatusItem) liveObservers() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.observers)
}

func (f *fakeStatusItem) presentedCalls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make([]bool, len(f.presented))
	copy(calls, f.presented)
	return calls
}

// fakeWindow implements PopupWindow. Tests emit focus changes through it.
type fakeWindow struct {
	mu      sync.Mutex
	visible bool
	closes  int
	gained  map[int]func()
	lost    map[int]func()
	nextID  int
}

func newFakeWindow(visible bool) *fakeWindow {
	return &fakeWindow{
		visible: visible,
		gained:  make(map[int]func()),
		lost:    make(map[int]func()),
	}
}

func (f *fakeWindow) IsVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.visible
}

func (f *fakeWindow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closes++
	f.visible = false
}

func (f *fakeWindow) ObserveFocusGained(fn func()) *Observation {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.gained[id] = fn

	return NewObservation(func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		delete(f.gained, id)
	})
}

func (f *fakeWindow) ObserveFocusLost(fn func()) *Observation {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.lost[id] = fn

	return NewObservation(func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		delete(f.lost, id)
	})
}

func (f *fakeWindow) emitFocusGained() {
	f.mu.Lock()
	observers := make([]func(), 0, len(f.gained))
	for _, observer := range f.gained {
		observers = append(observers, observer)
	}
	f.mu.Unlock()

	for _, observer := range observers {
		observer()
	}
}

func (f *fakeWindow) emitFocusLost() {
	f.mu.Lock()
	observers := make([]func(), 0, len(f.lost))
	for _, observer := range f.lost {
		observers = append(observers, observer)
	}
	f.mu.Unlock()

	for _, observer := range observers {
		observer()
	}
}

func (f *fakeWindow) liveObservers() (gained, lost int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.gained), len(f.lost)
}

func (f *fakeWindow) closeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closes
}

// syncLoop runs scheduled functions immediately on the calling goroutine.
type syncLoop struct{}

func (syncLoop) Schedule(fn func()) {
	fn()
}

// queuedLoop collects scheduled functions until flushed, mimicking a main
// loop that has not spun yet.
type queuedLoop struct {
	fns []func()
}

func (l *queuedLoop) Schedule(fn func()) {
	l.fns = append(l.fns, fn)
}

func (l *queuedLoop) flush() {
	fns := l.fns
	l.fns = nil

	for _, fn := range fns {
		fn()
	}
}
