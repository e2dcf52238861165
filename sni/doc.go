// Package sni provides client proxies for the [StatusNotifierItem] and
// com.canonical.dbusmenu D-Bus interfaces, the remote side of a status bar
// slot.
//
// Proxies are stateless: every getter queries the remote object when called.
// Tray applications replace their items and menus at will, and a host
// decision made from a stale mirror presents the wrong drop-down, so remote
// state is never cached on this side of the bus.
//
// [Monitor] tracks item registrations through the session's
// StatusNotifierWatcher. It requires a watcher service to be present on the
// bus; desktop environments ship one, and [Watcher] can serve the role when
// none is running.
//
// [StatusNotifierItem]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/
package sni
