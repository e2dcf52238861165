package sni

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
)

// Watcher implements the org.kde.StatusNotifierWatcher service that items and
// hosts register with. Desktops usually run one; applications embedding a
// [Monitor] can start their own with [Watcher.Listen] when the desktop does
// not provide it.
type Watcher struct {
	closed  bool
	conn    *dbus.Conn
	mu      sync.Mutex
	signals chan *dbus.Signal
	props   *prop.Properties
	hosts   []string
	items   []string

	// owners maps item identifiers to the unique name that registered them,
	// so items registered by well-known name can still be dropped when their
	// owner leaves the bus.
	owners map[string]string
}

// NewWatcher returns a new [Watcher].
func NewWatcher(conn *dbus.Conn) *Watcher {
	return &Watcher{
		closed:  false,
		conn:    conn,
		signals: make(chan *dbus.Signal, 64),
		owners:  make(map[string]string),
	}
}

// Listen claims the watcher name on D-Bus and starts serving registrations.
// An error is returned when another watcher already owns the name or after
// [Watcher.Close] was called.
func (w *Watcher) Listen() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("listen: watcher is closed")
	}

	reply, err := w.conn.RequestName(WatcherInterface, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("listen: failed to request name %s: %w", WatcherInterface, err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("listen: name %s already taken", WatcherInterface)
	}

	if err := w.conn.Export(w, WatcherPath, WatcherInterface); err != nil {
		return fmt.Errorf("listen: failed to export %s: %w", WatcherInterface, err)
	}

	props, err := prop.Export(w.conn, WatcherPath, prop.Map{
		WatcherInterface: {
			"RegisteredStatusNotifierItems": {
				Value:    []string{},
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"IsStatusNotifierHostRegistered": {
				Value:    false,
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"ProtocolVersion": {
				Value:    int32(1),
				Writable: false,
				Emit:     prop.EmitTrue,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("listen: failed to export properties: %w", err)
	}
	w.props = props

	w.subscribe()

	return nil
}

// Close releases the watcher name from D-Bus and stops serving.
//
// Watcher cannot be reused after Close was called.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true

	if _, err := w.conn.ReleaseName(WatcherInterface); err != nil {
		return err
	}

	for _, host := range w.hosts {
		w.conn.RemoveMatchSignal(
			dbus.WithMatchInterface("org.freedesktop.DBus"),
			dbus.WithMatchSender("org.freedesktop.DBus"),
			dbus.WithMatchMember("NameOwnerChanged"),
			dbus.WithMatchArg(0, host),
		)
	}

	for _, owner := range w.owners {
		w.conn.RemoveMatchSignal(
			dbus.WithMatchInterface("org.freedesktop.DBus"),
			dbus.WithMatchSender("org.freedesktop.DBus"),
			dbus.WithMatchMember("NameOwnerChanged"),
			dbus.WithMatchArg(0, owner),
		)
	}

	w.conn.RemoveSignal(w.signals)
	close(w.signals)

	return nil
}

// RegisterStatusNotifierItem handles item registration calls.
//
// Items register either by name, in which case the default object path is
// implied, or by object path alone, in which case the caller's unique name
// identifies them.
func (w *Watcher) RegisterStatusNotifierItem(name string, sender dbus.Sender) *dbus.Error {
	w.mu.Lock()
	defer w.mu.Unlock()

	identifier := name + ItemPath
	if strings.HasPrefix(name, "/") {
		identifier = string(sender) + name
	}

	if slices.Contains(w.items, identifier) {
		return nil
	}

	w.items = append(w.items, identifier)
	w.owners[identifier] = string(sender)

	// Items tend to disappear without unregistering. D-Bus reports the
	// vanished name through NameOwnerChanged with an empty new owner.
	w.conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, string(sender)),
	)

	w.conn.Emit(WatcherPath, WatcherInterface+".StatusNotifierItemRegistered", identifier)
	w.publish()

	return nil
}

// RegisterStatusNotifierHost handles host registration calls.
func (w *Watcher) RegisterStatusNotifierHost(name string) *dbus.Error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if slices.Contains(w.hosts, name) {
		return nil
	}

	w.hosts = append(w.hosts, name)

	w.conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, name),
	)

	w.conn.Emit(WatcherPath, WatcherInterface+".StatusNotifierHostRegistered", name)
	w.publish()

	return nil
}

// subscribe watches NameOwnerChanged to drop items and hosts whose owners
// left the bus.
func (w *Watcher) subscribe() {
	w.conn.Signal(w.signals)

	go func() {
		for signal := range w.signals {
			if signal.Name != "org.freedesktop.DBus.NameOwnerChanged" {
				continue
			}

			if len(signal.Body) < 3 {
				continue
			}

			name, ok := signal.Body[0].(string)
			if !ok {
				continue
			}

			newOwner, ok := signal.Body[2].(string)
			if !ok {
				continue
			}

			if newOwner == "" {
				w.tryUnregisterHost(name)
				w.tryUnregisterItem(name)
			}
		}
	}()
}

// tryUnregisterHost drops the host registered under name, if any.
func (w *Watcher) tryUnregisterHost(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := slices.Index(w.hosts, name)
	if idx == -1 {
		return
	}

	w.conn.RemoveMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, name),
	)

	w.hosts = slices.Delete(w.hosts, idx, idx+1)
	w.publish()
}

// tryUnregisterItem drops every item owned by the bus name that vanished. A
// single owner can hold several items.
func (w *Watcher) tryUnregisterItem(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var removed []string
	kept := w.items[:0]

	for _, item := range w.items {
		uniqueName, _ := splitItemName(item)
		if uniqueName == name || w.owners[item] == name {
			removed = append(removed, item)
			continue
		}

		kept = append(kept, item)
	}

	if len(removed) == 0 {
		return
	}

	w.items = kept

	w.conn.RemoveMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, name),
	)

	for _, identifier := range removed {
		delete(w.owners, identifier)
		w.conn.Emit(WatcherPath, WatcherInterface+".StatusNotifierItemUnregistered", identifier)
	}

	w.publish()
}

// publish updates the exported watcher properties.
func (w *Watcher) publish() {
	if w.props == nil {
		return
	}

	w.props.SetMust(WatcherInterface, "RegisteredStatusNotifierItems", w.items)
	w.props.SetMust(WatcherInterface, "IsStatusNotifierHostRegistered", len(w.hosts) > 0)
}
