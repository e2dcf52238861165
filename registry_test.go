package trayaccess

import "testing"

func TestRegistryStatusItemLookup(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.StatusItem(0); ok {
		t.Error("Expected no item in an empty registry")
	}

	item := newFakeStatusItem(SurfaceMenu)
	r.RegisterStatusItem(0, item)

	got, ok := r.StatusItem(0)
	if !ok {
		t.Fatal("Expected item after registration")
	}
	if got != StatusItem(item) {
		t.Error("Expected lookup to return the registered item")
	}

	if _, ok := r.StatusItem(1); ok {
		t.Error("Expected no item at an unregistered index")
	}

	r.UnregisterStatusItem(0)
	if _, ok := r.StatusItem(0); ok {
		t.Error("Expected no item after unregistration")
	}
}

func TestRegistryWindowLookup(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Window(0); ok {
		t.Error("Expected no window in an empty registry")
	}

	window := newFakeWindow(false)
	r.RegisterWindow(0, window)

	got, ok := r.Window(0)
	if !ok {
		t.Fatal("Expected window after registration")
	}
	if got != PopupWindow(window) {
		t.Error("Expected lookup to return the registered window")
	}

	r.UnregisterWindow(0)
	if _, ok := r.Window(0); ok {
		t.Error("Expected no window after unregistration")
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()

	first := newFakeStatusItem(SurfaceMenu)
	second := newFakeStatusItem(SurfaceMenu)

	r.RegisterStatusItem(3, first)
	r.RegisterStatusItem(3, second)

	got, ok := r.StatusItem(3)
	if !ok {
		t.Fatal("Expected item after registration")
	}
	if got != StatusItem(second) {
		t.Error("Expected the replacement item to win")
	}
}

func TestRegistryOnAvailableAlreadyRegistered(t *testing.T) {
	r := NewRegistry()
	r.RegisterStatusItem(0, newFakeStatusItem(SurfaceMenu))

	calls := 0
	r.OnAvailable(0, func() {
		calls++
	})

	if calls != 1 {
		t.Errorf("Expected immediate callback for a registered index, got %d calls", calls)
	}
}

func TestRegistryOnAvailableFiresOnRegistration(t *testing.T) {
	r := NewRegistry()

	calls := 0
	r.OnAvailable(2, func() {
		calls++
	})

	if calls != 0 {
		t.Fatalf("Expected no callback before registration, got %d calls", calls)
	}

	r.RegisterStatusItem(2, newFakeStatusItem(SurfaceMenu))
	if calls != 1 {
		t.Fatalf("Expected 1 callback after registration, got %d", calls)
	}

	// Replacement announces availability again.
	r.RegisterStatusItem(2, newFakeStatusItem(SurfaceMenu))
	if calls != 2 {
		t.Errorf("Expected 2 callbacks after replacement, got %d", calls)
	}

	// Other indexes do not fire this waiter.
	r.RegisterStatusItem(5, newFakeStatusItem(SurfaceMenu))
	if calls != 2 {
		t.Errorf("Expected callbacks only for the watched index, got %d", calls)
	}
}

func TestRegistryOnAvailableRelease(t *testing.T) {
	r := NewRegistry()

	calls := 0
	observation := r.OnAvailable(0, func() {
		calls++
	})

	observation.Release()
	r.RegisterStatusItem(0, newFakeStatusItem(SurfaceMenu))

	if calls != 0 {
		t.Errorf("Expected no callbacks after release, got %d", calls)
	}
}

func TestRegistryOnAvailableCallbackMayUseRegistry(t *testing.T) {
	r := NewRegistry()

	// The callback looks the item up again. This deadlocks if waiters run
	// under the registry's lock.
	var found bool
	r.OnAvailable(0, func() {
		_, found = r.StatusItem(0)
	})

	r.RegisterStatusItem(0, newFakeStatusItem(SurfaceMenu))

	if !found {
		t.Error("Expected callback to find the item it was notified about")
	}
}

func TestRegistrySetPresented(t *testing.T) {
	r := NewRegistry()

	// Absent item: command is dropped.
	r.SetPresented(0, true)

	item := newFakeStatusItem(SurfaceMenu)
	r.RegisterStatusItem(0, item)

	r.SetPresented(0, true)
	r.SetPresented(0, false)

	calls := item.presentedCalls()
	if len(calls) != 2 || calls[0] != true || calls[1] != false {
		t.Errorf("Expected presented calls [true false], got %v", calls)
	}
}

func TestRegistryTogglePresented(t *testing.T) {
	r := NewRegistry()

	// Absent item: command is dropped.
	r.TogglePresented(0)

	item := newFakeStatusItem(SurfaceMenu)
	r.RegisterStatusItem(0, item)
	r.TogglePresented(0)

	if item.toggles != 1 {
		t.Errorf("Expected 1 toggle, got %d", item.toggles)
	}
}

func TestRegistryKnownPresented(t *testing.T) {
	r := NewRegistry()

	if r.KnownPresented(0) {
		t.Error("Expected known state false for an unknown index")
	}

	r.SetKnownPresented(0, true)
	if !r.KnownPresented(0) {
		t.Error("Expected known state true after recording")
	}

	r.SetKnownPresented(0, false)
	if r.KnownPresented(0) {
		t.Error("Expected known state false after clearing")
	}
}

func TestRegistryUnregisterWindowClearsKnownPresented(t *testing.T) {
	r := NewRegistry()

	r.RegisterWindow(0, newFakeWindow(true))
	r.SetKnownPresented(0, true)

	r.UnregisterWindow(0)

	if r.KnownPresented(0) {
		t.Error("Expected known state cleared when the window is unregistered")
	}
}
