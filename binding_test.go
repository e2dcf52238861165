package trayaccess

import "testing"

func TestBindingInitialValue(t *testing.T) {
	b := NewBinding()

	if b.Value() {
		t.Error("Expected new binding to be false")
	}
}

func TestBindingSetValue(t *testing.T) {
	b := NewBinding()

	b.SetValue(true)
	if !b.Value() {
		t.Error("Expected value true after SetValue(true)")
	}

	b.SetValue(false)
	if b.Value() {
		t.Error("Expected value false after SetValue(false)")
	}
}

func TestBindingNotifiesOnTransitionsOnly(t *testing.T) {
	b := NewBinding()

	var calls []bool
	b.Observe(func(value bool) {
		calls = append(calls, value)
	})

	b.SetValue(false) // no transition
	b.SetValue(true)
	b.SetValue(true) // no transition
	b.SetValue(false)

	if len(calls) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(calls))
	}

	if calls[0] != true || calls[1] != false {
		t.Errorf("Expected notifications [true false], got %v", calls)
	}
}

func TestBindingObserverSeesNewValue(t *testing.T) {
	b := NewBinding()

	// The observer reads the binding it is observing. This deadlocks if
	// notifications run under the binding's lock.
	var seen bool
	b.Observe(func(bool) {
		seen = b.Value()
	})

	b.SetValue(true)

	if !seen {
		t.Error("Expected observer to read true from the binding")
	}
}

func TestBindingObserveRelease(t *testing.T) {
	b := NewBinding()

	calls := 0
	observation := b.Observe(func(bool) {
		calls++
	})

	b.SetValue(true)
	observation.Release()
	b.SetValue(false)

	if calls != 1 {
		t.Errorf("Expected 1 notification before release, got %d", calls)
	}

	// Releasing again must be harmless.
	observation.Release()
}

func TestBindingMultipleObservers(t *testing.T) {
	b := NewBinding()

	first := 0
	second := 0
	b.Observe(func(bool) { first++ })
	b.Observe(func(bool) { second++ })

	b.SetValue(true)

	if first != 1 || second != 1 {
		t.Errorf("Expected both observers to run once, got %d and %d", first, second)
	}
}
