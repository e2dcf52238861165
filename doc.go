// Package trayaccess exposes the presentation state of a status bar
// drop-down as a two-way boolean [Binding]. It sits between a tray host
// toolkit and application code: the host reports what the native objects do,
// the application reads and writes one bool, and the package keeps the two
// in agreement.
//
// # Usage
//
// Access to one drop-down consists of a [Registry], a [Binding], and a
// [Presenter]:
//   - [Registry] maps slot indexes to live native objects. The host
//     registers a [StatusItem], and a [PopupWindow] for window-backed
//     drop-downs, as it creates them, and registers replacements whenever it
//     rebuilds its scene. One registry serves the whole bar.
//   - [Binding] carries the shown/hidden state of one slot. Application code
//     reads it, observes it, and writes it to show or hide the drop-down.
//   - [Presenter] reconciles native signals into the binding. It folds the
//     button's toggle state and the drop-down window's focus into one bool
//     and pushes external binding writes back to the native toggle.
//
// Native objects are created asynchronously after the host composes its
// scene, so a presenter attaches before they exist and subscribes once the
// registry reports them available. All native effects are scheduled onto the
// toolkit's serialized main loop through [MainLoop]; lookups that come up
// empty degrade to no-ops rather than errors.
//
// Subpackages adapt concrete systems: sni speaks the [StatusNotifierItem]
// and com.canonical.dbusmenu protocols over D-Bus, and gtkhost implements
// the native interfaces with GTK 3.
//
// [StatusNotifierItem]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/
package trayaccess
