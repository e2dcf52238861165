package sni

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

// LayoutNode is one entry of a drop-down menu layout, as returned by
// [Menu.GetLayout]. The root node has ID 0 and carries the menu entries as
// children.
type LayoutNode struct {
	ID         int32
	Properties map[string]any
	Children   []*LayoutNode
}

// NewLayoutNode decodes a layout node from the D-Bus representation used by
// com.canonical.dbusmenu. Malformed children are skipped so that one broken
// entry does not take the whole menu down.
func NewLayoutNode(data any) (*LayoutNode, error) {
	arr, ok := data.([]any)
	if !ok || len(arr) != 3 {
		return nil, fmt.Errorf("menu node: invalid format")
	}

	id, ok := arr[0].(int32)
	if !ok {
		return nil, fmt.Errorf("menu node: invalid id")
	}

	props, ok := arr[1].(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("menu node: invalid props")
	}

	children, ok := arr[2].([]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("menu node: invalid children")
	}

	node := &LayoutNode{
		ID:         id,
		Properties: make(map[string]any, len(props)),
		Children:   make([]*LayoutNode, 0, len(children)),
	}

	for key, value := range props {
		node.Properties[key] = value.Value()
	}

	for _, child := range children {
		childNode, err := NewLayoutNode(child.Value())
		if err != nil {
			continue
		}

		node.Children = append(node.Children, childNode)
	}

	return node, nil
}

// Label returns the display label of the node with access-key underscores
// removed.
func (n *LayoutNode) Label() string {
	label, _ := n.Properties["label"].(string)
	return stripMnemonic(label)
}

// Visible reports whether the node should be shown. A missing property means
// visible.
func (n *LayoutNode) Visible() bool {
	visible, ok := n.Properties["visible"].(bool)
	return !ok || visible
}

// Enabled reports whether the node can be activated. A missing property means
// enabled.
func (n *LayoutNode) Enabled() bool {
	enabled, ok := n.Properties["enabled"].(bool)
	return !ok || enabled
}

// IsSeparator reports whether the node is a separator rather than a regular
// entry.
func (n *LayoutNode) IsSeparator() bool {
	nodeType, _ := n.Properties["type"].(string)
	return nodeType == "separator"
}

// HasSubmenu reports whether the node opens a submenu of its children.
func (n *LayoutNode) HasSubmenu() bool {
	display, _ := n.Properties["children-display"].(string)
	return display == "submenu"
}

// stripMnemonic removes access-key underscores from a menu label. A single
// underscore marks the following character as the access key; two
// underscores stand for a literal one.
func stripMnemonic(label string) string {
	if !strings.ContainsRune(label, '_') {
		return label
	}

	var b strings.Builder
	b.Grow(len(label))

	for i := 0; i < len(label); i++ {
		if label[i] == '_' {
			if i+1 < len(label) {
				i++
				b.WriteByte(label[i])
			}
			continue
		}

		b.WriteByte(label[i])
	}

	return b.String()
}
