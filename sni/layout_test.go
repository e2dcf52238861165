package sni

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

// layoutData builds the D-Bus wire representation of a layout node, the way
// com.canonical.dbusmenu.GetLayout returns it.
func layoutData(id int32, props map[string]any, children ...any) []any {
	variantProps := make(map[string]dbus.Variant, len(props))
	for key, value := range props {
		variantProps[key] = dbus.MakeVariant(value)
	}

	variantChildren := make([]dbus.Variant, 0, len(children))
	for _, child := range children {
		variantChildren = append(variantChildren, dbus.MakeVariant(child))
	}

	return []any{id, variantProps, variantChildren}
}

func TestNewLayoutNode(t *testing.T) {
	data := layoutData(0, map[string]any{"children-display": "submenu"},
		layoutData(1, map[string]any{"label": "_Open"}),
		layoutData(2, map[string]any{"type": "separator"}),
		layoutData(3, map[string]any{"label": "Quit", "enabled": false}),
	)

	node, err := NewLayoutNode(data)
	if err != nil {
		t.Fatalf("Failed to decode layout: %v", err)
	}

	if node.ID != 0 {
		t.Errorf("Expected root ID 0, got %d", node.ID)
	}

	if !node.HasSubmenu() {
		t.Error("Expected root node to report a submenu")
	}

	if len(node.Children) != 3 {
		t.Fatalf("Expected 3 children, got %d", len(node.Children))
	}

	open := node.Children[0]
	if open.Label() != "Open" {
		t.Errorf("Expected label %q, got %q", "Open", open.Label())
	}
	if !open.Enabled() || !open.Visible() {
		t.Error("Expected missing enabled and visible properties to default to true")
	}

	if !node.Children[1].IsSeparator() {
		t.Error("Expected second child to be a separator")
	}

	quit := node.Children[2]
	if quit.Enabled() {
		t.Error("Expected third child to be disabled")
	}
	if quit.IsSeparator() {
		t.Error("Expected third child not to be a separator")
	}
}

func TestNewLayoutNodeSkipsMalformedChildren(t *testing.T) {
	data := layoutData(0, nil,
		layoutData(1, map[string]any{"label": "Good"}),
		"not a node",
		layoutData(2, map[string]any{"label": "Also good"}),
	)

	node, err := NewLayoutNode(data)
	if err != nil {
		t.Fatalf("Failed to decode layout: %v", err)
	}

	if len(node.Children) != 2 {
		t.Errorf("Expected malformed child skipped, got %d children", len(node.Children))
	}
}

func TestNewLayoutNodeInvalidRoot(t *testing.T) {
	invalid := []any{
		"not a layout",
		[]any{int32(0), map[string]dbus.Variant{}},
		[]any{"id", map[string]dbus.Variant{}, []dbus.Variant{}},
	}

	for _, data := range invalid {
		if _, err := NewLayoutNode(data); err == nil {
			t.Errorf("Expected error for %#v", data)
		}
	}
}

func TestStripMnemonic(t *testing.T) {
	testCases := []struct {
		label string
		want  string
	}{
		{"_File", "File"},
		{"Save _As", "Save As"},
		{"A__B", "A_B"},
		{"plain", "plain"},
		{"trailing_", "trailing"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := stripMnemonic(tc.label); got != tc.want {
			t.Errorf("stripMnemonic(%q): expected %q, got %q", tc.label, tc.want, got)
		}
	}
}
