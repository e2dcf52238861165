package trayaccess

import "sync"

// phase is the lifecycle phase of a [Presenter].
type phase int

const (
	// The presenter was created but not yet attached.
	phaseIdle phase = iota

	// The presenter is attached and waiting for the native objects of its
	// slot to be registered.
	phaseAwaiting

	// The presenter is subscribed to native signals. It stays in this phase
	// when objects are replaced; observers are reinstalled in place.
	phaseSubscribed

	// The presenter was closed. Terminal.
	phaseClosed
)

// Presenter reconciles the native signals of one status bar slot into its
// [Binding] and pushes external binding writes back to the native toggle.
//
// Two native channels feed it:
//   - toggle-state changes of the item's button, trusted only for menu-kind
//     surfaces, and
//   - focus gained/lost of the drop-down window, the sole authority for
//     window-kind surfaces.
//
// Native objects are created asynchronously after the host composes its
// scene, so a presenter attaches before they exist and subscribes when the
// [Resolver] reports them available. Every native lookup that comes up empty
// degrades to a no-op; there is no failure mode, only signals that arrive
// once the objects are there.
type Presenter struct {
	resolver  Resolver
	loop      MainLoop
	index     int
	presented *Binding

	mu           sync.Mutex
	phase        phase
	introduced   bool
	observers    observerSet
	bindingObs   *Observation
	availability *Observation
	onStatusItem func(StatusItem)
}

// NewPresenter returns a new [Presenter] for the slot at index.
//
// The presented binding is owned by the caller: the presenter observes it for
// external writes and sets it on confirmed native transitions. Call
// [Presenter.Attach] to start reconciling.
func NewPresenter(resolver Resolver, loop MainLoop, index int, presented *Binding) *Presenter {
	return &Presenter{
		resolver:     resolver,
		loop:         loop,
		index:        index,
		presented:    presented,
		onStatusItem: func(StatusItem) {},
	}
}

// Index returns the slot index the presenter reconciles.
func (p *Presenter) Index() int {
	return p.index
}

// OnStatusItem sets a callback that runs once with the live [StatusItem] when
// the presenter first subscribes to it. It gives the application a hook to
// customize the native item, such as adjusting its button.
//
// This method should be called before [Presenter.Attach].
func (p *Presenter) OnStatusItem(callback func(StatusItem)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.onStatusItem = callback
}

// Attach starts the presenter: it subscribes to the binding and registers
// interest in the slot's native objects. If the objects are already
// registered, native subscriptions are installed before Attach returns;
// otherwise they are installed when the host registers them.
//
// Attach is idempotent. Calling it again, including after [Presenter.Close],
// does nothing.
func (p *Presenter) Attach() {
	p.mu.Lock()

	if p.phase != phaseIdle {
		p.mu.Unlock()
		return
	}

	p.phase = phaseAwaiting
	p.bindingObs = p.presented.Observe(p.handleBindingChange)

	p.mu.Unlock()

	// OnAvailable runs the callback synchronously when the item is already
	// registered, so it cannot be called under the lock.
	availability := p.resolver.OnAvailable(p.index, p.handleAvailable)

	p.mu.Lock()

	if p.phase == phaseClosed {
		p.mu.Unlock()
		availability.Release()
		return
	}

	p.availability = availability

	p.mu.Unlock()
}

// Close releases every subscription held by the presenter. The binding stays
// valid for the caller; it just stops being reconciled.
//
// The presenter cannot be reused after Close was called.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.phase == phaseClosed {
		return
	}

	p.phase = phaseClosed

	p.bindingObs.Release()
	p.availability.Release()
	p.bindingObs = nil
	p.availability = nil
	p.observers.releaseAll()
}

// handleAvailable runs when the resolver reports the slot's native objects
// registered. On the first report it moves the presenter to the subscribed
// phase; on later reports the objects were replaced and the observers are
// reinstalled in place.
func (p *Presenter) handleAvailable() {
	p.mu.Lock()

	switch p.phase {
	case phaseAwaiting, phaseSubscribed:
		p.phase = phaseSubscribed
	default:
		p.mu.Unlock()
		return
	}

	p.mu.Unlock()

	p.installButtonObserver()
	p.installWindowObservers()
	p.introduce()
}

// installButtonObserver subscribes to toggle-state changes of the slot's
// button. Any previous subscription is released first, so a replaced button
// never fires through a stale token. If the item is absent the subscription
// slot stays empty until the next availability report.
func (p *Presenter) installButtonObserver() {
	p.mu.Lock()
	p.observers.setButtonState(nil)
	p.mu.Unlock()

	item, ok := p.resolver.StatusItem(p.index)
	if !ok {
		return
	}

	observation := item.ObserveButtonState(p.handleButtonState)

	p.mu.Lock()

	if p.phase == phaseClosed {
		p.mu.Unlock()
		observation.Release()
		return
	}

	p.observers.setButtonState(observation)

	p.mu.Unlock()
}

// installWindowObservers subscribes to focus gained/lost of the slot's
// drop-down window. Any previous pair is released first. Menu-kind slots
// have no window registered, so the pair simply stays empty for them.
func (p *Presenter) installWindowObservers() {
	p.mu.Lock()
	p.observers.setFocus(nil, nil)
	p.mu.Unlock()

	window, ok := p.resolver.Window(p.index)
	if !ok {
		return
	}

	gained := window.ObserveFocusGained(p.handleFocusGained)
	lost := window.ObserveFocusLost(func() {
		// The handler acts on the window that lost focus, not on whatever
		// window is registered by the time the signal is delivered.
		p.handleFocusLost(window)
	})

	p.mu.Lock()

	if p.phase == phaseClosed {
		p.mu.Unlock()
		gained.Release()
		lost.Release()
		return
	}

	p.observers.setFocus(gained, lost)

	p.mu.Unlock()
}

// introduce runs the OnStatusItem callback the first time the live item is
// seen.
func (p *Presenter) introduce() {
	item, ok := p.resolver.StatusItem(p.index)
	if !ok {
		return
	}

	p.mu.Lock()

	if p.introduced || p.phase == phaseClosed {
		p.mu.Unlock()
		return
	}

	p.introduced = true
	callback := p.onStatusItem

	p.mu.Unlock()

	callback(item)
}

// handleButtonState handles a toggle-state change of the slot's button.
//
// The item and its surface kind are resolved at delivery time. Only menu-kind
// surfaces apply the signal: the toggle tracks a host-rendered menu reliably,
// while for window-kind surfaces its polarity is not trustworthy and focus
// events carry the truth instead. Any state other than off counts as shown.
func (p *Presenter) handleButtonState(state ButtonState) {
	item, ok := p.resolver.StatusItem(p.index)
	if !ok {
		return
	}

	if item.SurfaceKind() != SurfaceMenu {
		return
	}

	p.presented.SetValue(state != ButtonOff)
}

// handleFocusGained handles the drop-down window gaining keyboard focus. The
// window is frontmost, so the drop-down is shown regardless of what the
// binding said before.
func (p *Presenter) handleFocusGained() {
	p.resolver.SetKnownPresented(p.index, true)
	p.presented.SetValue(true)
}

// handleFocusLost handles the drop-down window losing keyboard focus. A
// window-kind drop-down dismisses when the user focuses elsewhere; if the
// host left it visible it is closed here, before the state is cleared, so
// the binding never reports hidden while the window still shows.
func (p *Presenter) handleFocusLost(window PopupWindow) {
	if window.IsVisible() {
		window.Close()
	}

	p.resolver.SetKnownPresented(p.index, false)
	p.presented.SetValue(false)
}

// handleBindingChange handles an external write to the binding. The write is
// forwarded to the native toggle on the main loop, fire-and-forget: if the
// item is not registered yet the command is dropped, and the binding settles
// when native signals confirm an actual transition.
func (p *Presenter) handleBindingChange(value bool) {
	p.loop.Schedule(func() {
		p.resolver.SetPresented(p.index, value)
	})
}
