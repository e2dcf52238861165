package sni

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const MenuInterface = "com.canonical.dbusmenu"

// Menu is a proxy for the com.canonical.dbusmenu object backing an [Item]'s
// drop-down menu.
//
// Like [Item], the proxy holds no mirror of the remote menu. Hosts query
// [Menu.GetLayout] every time they present the drop-down, which makes the
// presentation itself the refresh mechanism.
type Menu struct {
	conn       *dbus.Conn
	object     dbus.BusObject
	uniqueName string

	// Version of the com.canonical.dbusmenu interface.
	Version uint
}

// NewMenu returns a proxy for the menu of the item with the given unique
// name, at the given object path.
func NewMenu(conn *dbus.Conn, uniqueName, path string) (*Menu, error) {
	obj := conn.Object(uniqueName, dbus.ObjectPath(path))

	// Check whether properties can be retrieved.
	call := obj.Call(getProperty, 0, MenuInterface, "Version")
	if call.Err != nil {
		return nil, fmt.Errorf("failed to resolve menu: %w", call.Err)
	}

	menu := Menu{
		conn:       conn,
		object:     obj,
		uniqueName: uniqueName,
	}

	version, err := obj.GetProperty(MenuInterface + ".Version")
	if err == nil {
		version.Store(&menu.Version)
	}

	return &menu, nil
}

// GetLayout provides the layout and the properties that are attached to the
// entries that are in the layout.
//
// parentID is the ID of the parent node for the returned layout. Use 0 to
// retrieve layout from root.
//
// recursionDepth is the number of recursion levels to use. This affects the
// resulting [LayoutNode]. Special cases are:
//   - -1: deliver all items (without recursion limit).
//   - 0: disable recursion (children slice will be empty).
//
// propertyNames is the list of properties associated with layout nodes.
// Special case is empty slice (or nil): all properties are returned.
func (m *Menu) GetLayout(parentID int, recursionDepth int, propertyNames []string) (uint32, *LayoutNode, error) {
	call := m.object.Call(
		MenuInterface+".GetLayout",
		0,
		parentID, recursionDepth, propertyNames,
	)

	if call.Err != nil {
		return 0, nil, call.Err
	}

	if len(call.Body) != 2 {
		return 0, nil, fmt.Errorf("layout: invalid response body format")
	}

	revision, ok := call.Body[0].(uint32)
	if !ok {
		return 0, nil, fmt.Errorf("layout: invalid revision type")
	}

	menu, err := NewLayoutNode(call.Body[1])
	if err != nil {
		return revision, nil, fmt.Errorf("layout: %w", err)
	}

	return revision, menu, nil
}

// Clicked tells the application that the target layout node was clicked.
func (m *Menu) Clicked(target *LayoutNode) error {
	return m.Event(target.ID, "clicked", 0, uint32(time.Now().Unix()))
}

// Hovered tells the application that the target layout node was hovered.
func (m *Menu) Hovered(target *LayoutNode) error {
	return m.Event(target.ID, "hovered", 0, uint32(time.Now().Unix()))
}

// Opened tells the application that the drop-down menu was presented by the
// host. Applications use it to refresh dynamic entries, so it should be sent
// every time the menu is shown.
func (m *Menu) Opened() error {
	return m.Event(0, "opened", 0, uint32(time.Now().Unix()))
}

// Closed tells the application that the drop-down menu was dismissed by the
// host.
func (m *Menu) Closed() error {
	return m.Event(0, "closed", 0, uint32(time.Now().Unix()))
}

// Event tells the application that an arbitrary event happened to layout node
// with the given ID. The root node has ID 0.
//
// Possible values for eventID are:
//   - clicked
//   - hovered
//   - opened
//   - closed
//
// Vendor-specific events can be sent by prefixing eventID with "x-<vendor>-".
func (m *Menu) Event(targetID int32, eventID string, data any, timestamp uint32) error {
	return m.object.Call(
		MenuInterface+".Event",
		0,
		targetID,
		eventID,
		dbus.MakeVariant(data),
		timestamp,
	).Err
}

// AboutToShow tells the application that target layout node is about to be
// shown by the applet. The returned value reports whether the layout should
// be refreshed before showing.
func (m *Menu) AboutToShow(target *LayoutNode) (bool, error) {
	call := m.object.Call(
		MenuInterface+".AboutToShow",
		0,
		target.ID,
	)

	if call.Err != nil {
		return false, fmt.Errorf("about to show: %w", call.Err)
	}

	if len(call.Body) != 1 {
		return false, fmt.Errorf("about to show: invalid response format")
	}

	needUpdate, ok := call.Body[0].(bool)
	if !ok {
		return false, fmt.Errorf("about to show: invalid response format")
	}

	return needUpdate, nil
}
