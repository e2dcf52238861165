package sni

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	ItemInterface = "org.kde.StatusNotifierItem"
	ItemPath      = "/StatusNotifierItem"
)

const getProperty = "org.freedesktop.DBus.Properties.Get"

type ItemCategory string

// StatusNotifierItem categories.
const (
	// The item describes the status of a generic application, for instance the
	// current state of a media player.
	ItemCategoryApplicationStatus ItemCategory = "ApplicationStatus"

	// The item describes the status of communication oriented applications, like
	// an instant messenger or an email client.
	ItemCategoryCommunications ItemCategory = "Communications"

	// The item describes services of the system not seen as a stand alone
	// application by the user, such as an indicator for the activity of a disk
	// indexing service.
	ItemCategorySystemServices ItemCategory = "SystemServices"

	// The item describes the state and control of a particular hardware, such as
	// an indicator of the battery charge or sound card volume control.
	ItemCategoryHardware ItemCategory = "Hardware"
)

type ItemStatus string

// StatusNotifierItem statuses.
const (
	// The item doesn't convey important information to the user, it can be
	// considered an "idle" status and is likely that visualizations will choose
	// to hide it.
	ItemStatusPassive ItemStatus = "Passive"

	// The item is active, is more important that the item will be shown in some
	// way to the user.
	ItemStatusActive ItemStatus = "Active"

	// The item carries really important information for the user, such as
	// battery charge running out. Visualizations should emphasize items with
	// NeedsAttention status in some way.
	ItemStatusNeedsAttention ItemStatus = "NeedsAttention"
)

// Item is a proxy for a remote [StatusNotifierItem] object.
//
// Every getter queries the remote object when called. In particular
// [Item.IsMenuBased] is consulted on each button signal of the slot, so the
// answer always describes the object as it is now, not as it was when the
// proxy was built.
//
// [StatusNotifierItem]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/StatusNotifierItem/
type Item struct {
	conn       *dbus.Conn
	object     dbus.BusObject
	uniqueName string
	objectPath string
}

// NewItem returns a proxy for the item registered under itemName.
//
// itemName is the watcher's registration format "<uniqueName><objectPath>",
// e.g. ":1.185/StatusNotifierItem". A bare unique name implies the default
// object path.
func NewItem(conn *dbus.Conn, itemName string) (*Item, error) {
	uniqueName, objectPath := splitItemName(itemName)
	obj := conn.Object(uniqueName, dbus.ObjectPath(objectPath))

	// Check whether properties can be retrieved.
	call := obj.Call(getProperty, 0, ItemInterface, "Title")
	if call.Err != nil {
		return nil, fmt.Errorf("failed to resolve item %s: %w", itemName, call.Err)
	}

	return &Item{
		conn:       conn,
		object:     obj,
		uniqueName: uniqueName,
		objectPath: objectPath,
	}, nil
}

// UniqueName returns the unique D-Bus name owning the item.
func (item *Item) UniqueName() string {
	return item.uniqueName
}

// ObjectPath returns the D-Bus object path of the item.
func (item *Item) ObjectPath() string {
	return item.objectPath
}

// ID returns the unique identifier for the application, such as the
// application name.
func (item *Item) ID() (string, error) {
	return item.stringProperty("Id")
}

// Title returns the name that describes the application. It can be more
// descriptive than the ID.
func (item *Item) Title() (string, error) {
	return item.stringProperty("Title")
}

// IconName returns the [Freedesktop-compliant] name of the icon that
// visualizes the item.
//
// [Freedesktop-compliant]: https://specifications.freedesktop.org/icon-naming-spec/latest/
func (item *Item) IconName() (string, error) {
	return item.stringProperty("IconName")
}

// Tooltip returns extra information that can be visualized by a tooltip.
func (item *Item) Tooltip() (string, error) {
	property, err := item.object.GetProperty(ItemInterface + ".ToolTip")
	if err != nil {
		return "", fmt.Errorf("property ToolTip: %w", err)
	}

	// Format of tooltip is as follows
	//
	//  [<icon-name>, <icon>, <tooltip>, <description>]
	//
	// We are interested in the 3rd item, as it is a text representation of the
	// tooltip.
	value, ok := property.Value().([]any)
	if !ok || len(value) < 3 {
		return "", fmt.Errorf("property ToolTip: invalid format")
	}

	tooltip, ok := value[2].(string)
	if !ok {
		return "", fmt.Errorf("property ToolTip: invalid format")
	}

	return tooltip, nil
}

// Category returns the category of the item.
func (item *Item) Category() (ItemCategory, error) {
	category, err := item.stringProperty("Category")
	if err != nil {
		return "", err
	}

	switch category {
	case "Communications":
		return ItemCategoryCommunications, nil
	case "SystemServices":
		return ItemCategorySystemServices, nil
	case "Hardware":
		return ItemCategoryHardware, nil
	default:
		return ItemCategoryApplicationStatus, nil
	}
}

// Status returns the status of the item or of the associated application.
func (item *Item) Status() (ItemStatus, error) {
	status, err := item.stringProperty("Status")
	if err != nil {
		return "", err
	}

	switch status {
	case "Passive":
		return ItemStatusPassive, nil
	case "NeedsAttention":
		return ItemStatusNeedsAttention, nil
	default:
		return ItemStatusActive, nil
	}
}

// IsMenuBased reports whether the item only supports a menu drop-down. Hosts
// present such items with a menu attached to the button; for all others the
// drop-down is whatever [Item.Activate] makes the application show, commonly
// a dedicated window.
func (item *Item) IsMenuBased() (bool, error) {
	property, err := item.object.GetProperty(ItemInterface + ".ItemIsMenu")
	if err != nil {
		return false, fmt.Errorf("property ItemIsMenu: %w", err)
	}

	var isMenu bool
	if err := property.Store(&isMenu); err != nil {
		return false, fmt.Errorf("property ItemIsMenu: %w", err)
	}

	return isMenu, nil
}

// MenuPath returns the D-Bus path to the object which implements the
// com.canonical.dbusmenu interface for the item.
func (item *Item) MenuPath() (string, error) {
	property, err := item.object.GetProperty(ItemInterface + ".Menu")
	if err != nil {
		return "", fmt.Errorf("property Menu: %w", err)
	}

	var path dbus.ObjectPath
	if err := property.Store(&path); err != nil {
		return "", fmt.Errorf("property Menu: %w", err)
	}

	return string(path), nil
}

// Menu returns a [Menu] proxy for the item's drop-down menu.
func (item *Item) Menu() (*Menu, error) {
	path, err := item.MenuPath()
	if err != nil {
		return nil, fmt.Errorf("menu: %w", err)
	}

	return NewMenu(item.conn, item.uniqueName, path)
}

// ContextMenu asks the status notifier item to show a context menu.
//
// This is typically a consequence of user input, such as mouse right click
// over the graphical representation of the item.
//
// The x and y parameters are in screen coordinates and is to be considered a
// hint to the item about where to show the context menu.
func (item *Item) ContextMenu(x, y int) error {
	return item.object.Call(
		ItemInterface+".ContextMenu",
		0,
		x, y,
	).Err
}

// Activate asks the status notifier item for activation. The application will
// perform any task is considered appropriate as an activation request.
//
// This is typically a consequence of user input, such as mouse left click over
// the graphical representation of the item.
//
// The x and y parameters are in screen coordinates and is to be considered a
// hint to the item where to show eventual windows (if any).
func (item *Item) Activate(x, y int) error {
	return item.object.Call(
		ItemInterface+".Activate",
		0,
		x, y,
	).Err
}

// SecondaryActivate is to be considered a secondary and less important form of
// activation compared to Activate. The application will perform any task is
// considered appropriate as an activation request.
//
// This is typically a consequence of user input, such as mouse middle click
// over the graphical representation of the item.
//
// The x and y parameters are in screen coordinates and is to be considered a
// hint to the item where to show eventual windows (if any).
func (item *Item) SecondaryActivate(x, y int) error {
	return item.object.Call(
		ItemInterface+".SecondaryActivate",
		0,
		x, y,
	).Err
}

// Scroll emits a scroll event on the status notifier item.
//
// This is caused from input such as mouse wheel over the graphical
// representation of the item.
//
// The delta parameter represent the amount of scroll. The orientation
// parameter represent orientation of the scroll request and its valid values
// are "horizontal" and "vertical".
func (item *Item) Scroll(delta int, orientation string) error {
	return item.object.Call(
		ItemInterface+".Scroll",
		0,
		delta, orientation,
	).Err
}

// stringProperty retrieves a string property of the item.
func (item *Item) stringProperty(name string) (string, error) {
	property, err := item.object.GetProperty(ItemInterface + "." + name)
	if err != nil {
		return "", fmt.Errorf("property %s: %w", name, err)
	}

	var value string
	if err := property.Store(&value); err != nil {
		return "", fmt.Errorf("property %s: %w", name, err)
	}

	return value, nil
}

// splitItemName splits an item name in the watcher's registration format
// "<uniqueName><objectPath>" into its parts. A name without an object path
// maps to the default [ItemPath].
func splitItemName(itemName string) (uniqueName, objectPath string) {
	uniqueName, objectPath, ok := strings.Cut(itemName, "/")
	if !ok {
		return uniqueName, ItemPath
	}

	return uniqueName, "/" + objectPath
}
