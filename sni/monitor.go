package sni

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	WatcherInterface = "org.kde.StatusNotifierWatcher"
	WatcherPath      = "/StatusNotifierWatcher"
)

// Monitor tracks StatusNotifierItem registrations through the session's
// [StatusNotifierWatcher]. It registers itself as a StatusNotifierHost so
// the watcher knows a host is present, replays the items that were already
// registered, and then forwards registrations and unregistrations as they
// happen.
//
// Monitor reports item names only. Constructing [Item] proxies, and deciding
// when to drop them, is left to the caller, because the caller owns the
// native objects whose lifetime the proxies follow.
//
// [StatusNotifierWatcher]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/StatusNotifierWatcher/
type Monitor struct {
	name      string
	closed    bool
	conn      *dbus.Conn
	names     map[string]bool
	signals   chan *dbus.Signal
	mu        sync.Mutex
	onAdded   func(itemName string)
	onRemoved func(itemName string)
}

// NewMonitor returns a new [Monitor].
//
// Parameter id is used as a unique identifier for the host name, such as PID.
func NewMonitor(conn *dbus.Conn, id any) *Monitor {
	return &Monitor{
		name:      fmt.Sprintf("org.kde.StatusNotifierHost-%v", id),
		closed:    false,
		conn:      conn,
		names:     make(map[string]bool),
		signals:   make(chan *dbus.Signal, 64),
		onAdded:   func(string) {},
		onRemoved: func(string) {},
	}
}

// Name returns name of the host service the monitor registers.
func (m *Monitor) Name() string {
	return m.name
}

// OnAdded sets a callback that runs whenever an item is registered with the
// watcher. The item name can be passed to [NewItem] to build a proxy.
func (m *Monitor) OnAdded(callback func(itemName string)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onAdded = callback
}

// OnRemoved sets a callback that runs whenever an item is unregistered from
// the watcher.
func (m *Monitor) OnRemoved(callback func(itemName string)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onRemoved = callback
}

// Listen requests the host name on D-Bus, registers it with the watcher,
// subscribes to registration signals, and replays the items that are already
// registered through the OnAdded callback.
//
// This method should be called after [Monitor.OnAdded] and
// [Monitor.OnRemoved] callbacks were set.
//
// If Listen is called after [Monitor.Close], an error is returned.
func (m *Monitor) Listen() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("listen: monitor is closed")
	}

	reply, err := m.conn.RequestName(m.name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("listen: failed to request name %s: %w", m.name, err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("listen: name %s already taken", m.name)
	}

	// Register host in the watcher.
	call := m.conn.Object(
		WatcherInterface,
		dbus.ObjectPath(WatcherPath),
	).Call("RegisterStatusNotifierHost", 0, m.name)
	if call.Err != nil {
		return fmt.Errorf("listen: failed to register host: %w", call.Err)
	}

	if err := m.subscribe(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go m.replayRegisteredItems()

	return nil
}

// Close releases the host name from D-Bus and unsubscribes from signals.
//
// Monitor cannot be reused after Close was called.
func (m *Monitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true

	_, err := m.conn.ReleaseName(m.name)
	if err != nil {
		return err
	}

	if err := m.conn.RemoveMatchSignal(
		dbus.WithMatchInterface(WatcherInterface),
		dbus.WithMatchMember("StatusNotifierItemRegistered"),
	); err != nil {
		return err
	}

	if err := m.conn.RemoveMatchSignal(
		dbus.WithMatchInterface(WatcherInterface),
		dbus.WithMatchMember("StatusNotifierItemUnregistered"),
	); err != nil {
		return err
	}

	m.conn.RemoveSignal(m.signals)
	close(m.signals)

	return nil
}

// replayRegisteredItems reports the items that were registered with the
// watcher before the monitor started listening.
func (m *Monitor) replayRegisteredItems() {
	watcherObj := m.conn.Object(WatcherInterface, dbus.ObjectPath(WatcherPath))

	property, err := watcherObj.GetProperty(WatcherInterface + ".RegisteredStatusNotifierItems")
	if err != nil {
		return
	}

	registeredItems, ok := property.Value().([]string)
	if !ok {
		return
	}

	for _, itemName := range registeredItems {
		m.addItem(itemName)
	}
}

// subscribe subscribes to signals
//   - org.kde.StatusNotifierWatcher.StatusNotifierItemRegistered
//   - org.kde.StatusNotifierWatcher.StatusNotifierItemUnregistered
func (m *Monitor) subscribe() error {
	if err := m.conn.AddMatchSignal(
		dbus.WithMatchInterface(WatcherInterface),
		dbus.WithMatchMember("StatusNotifierItemRegistered"),
	); err != nil {
		return err
	}

	if err := m.conn.AddMatchSignal(
		dbus.WithMatchInterface(WatcherInterface),
		dbus.WithMatchMember("StatusNotifierItemUnregistered"),
	); err != nil {
		return err
	}

	m.conn.Signal(m.signals)

	go func() {
		for signal := range m.signals {
			switch signal.Name {
			case WatcherInterface + ".StatusNotifierItemRegistered":
				m.handleRegisteredSignal(signal)
			case WatcherInterface + ".StatusNotifierItemUnregistered":
				m.handleUnregisteredSignal(signal)
			}
		}
	}()

	return nil
}

// handleRegisteredSignal handles the
// org.kde.StatusNotifierWatcher.StatusNotifierItemRegistered signal.
func (m *Monitor) handleRegisteredSignal(signal *dbus.Signal) {
	itemName, err := itemNameFromSignal(signal)
	if err != nil {
		return
	}

	m.addItem(itemName)
}

// handleUnregisteredSignal handles the
// org.kde.StatusNotifierWatcher.StatusNotifierItemUnregistered signal.
func (m *Monitor) handleUnregisteredSignal(signal *dbus.Signal) {
	itemName, err := itemNameFromSignal(signal)
	if err != nil {
		return
	}

	m.mu.Lock()

	if m.closed || !m.names[itemName] {
		m.mu.Unlock()
		return
	}

	delete(m.names, itemName)
	onRemoved := m.onRemoved

	m.mu.Unlock()

	onRemoved(itemName)
}

// addItem marks itemName as known and reports it through the OnAdded
// callback. Names the monitor already knows are skipped, so a replay racing
// a registration signal reports each item once.
func (m *Monitor) addItem(itemName string) {
	m.mu.Lock()

	if m.closed || m.names[itemName] {
		m.mu.Unlock()
		return
	}

	m.names[itemName] = true
	onAdded := m.onAdded

	m.mu.Unlock()

	onAdded(itemName)
}

// itemNameFromSignal retrieves the item name carried by a watcher
// registration signal.
func itemNameFromSignal(signal *dbus.Signal) (string, error) {
	if len(signal.Body) < 1 {
		return "", fmt.Errorf("signal body is empty")
	}

	itemName, ok := signal.Body[0].(string)
	if !ok {
		return "", fmt.Errorf("invalid format of signal body")
	}

	return itemName, nil
}
