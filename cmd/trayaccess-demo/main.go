//go:build linux

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
	"github.com/shelepuginivan/trayaccess"
	"github.com/shelepuginivan/trayaccess/gtkhost"
	"github.com/shelepuginivan/trayaccess/sni"
	"github.com/urfave/cli/v2"
)

var logger = log.New(log.Writer(), "[trayaccess-demo] ", log.LstdFlags|log.Lmicroseconds)

func main() {
	app := cli.NewApp()
	app.Name = "trayaccess-demo"
	app.Usage = "Minimal GTK bar that presents status notifier drop-downs"
	app.Version = "0.1.0"

	runCmd := &cli.Command{
		Name:  "run",
		Usage: "Start the demo bar",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file",
				Value:   "~/.config/trayaccess/config.toml",
			},
		},
		Action: func(c *cli.Context) error {
			return runBar(c.String("config"))
		},
	}

	app.Commands = []*cli.Command{runCmd}

	if err := app.Run(os.Args); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

func runBar(configPath string) error {
	cfg, err := LoadAndValidateConfig(configPath)
	if err != nil {
		return err
	}

	gtk.Init(nil)

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	// Stand in as the watcher when the desktop does not run one, so items
	// still have something to register with.
	watcher := sni.NewWatcher(conn)
	if err := watcher.Listen(); err != nil {
		logger.Printf("Using the watcher provided by the desktop: %v", err)
	} else {
		defer watcher.Close()
		logger.Printf("Started an embedded %s", sni.WatcherInterface)
	}

	b, err := newBar(cfg, conn)
	if err != nil {
		return err
	}

	if err := b.listen(); err != nil {
		return err
	}
	defer b.monitor.Close()

	gtk.Main()

	return nil
}

// bar owns the GTK widgets and presentation state of the demo. All fields
// are touched on the GTK main loop only, so no lock is needed.
type bar struct {
	cfg      *Config
	conn     *dbus.Conn
	window   *gtk.Window
	box      *gtk.Box
	registry *trayaccess.Registry
	monitor  *sni.Monitor
	loop     gtkhost.Loop

	slots     map[string]*slot
	nextIndex int
}

// slot ties one status notifier item to its spot on the bar.
type slot struct {
	index      int
	item       *gtkhost.Item
	window     *gtk.Window
	binding    *trayaccess.Binding
	presenter  *trayaccess.Presenter
	bindingObs *trayaccess.Observation
}

func newBar(cfg *Config, conn *dbus.Conn) (*bar, error) {
	window, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return nil, fmt.Errorf("failed to create bar window: %w", err)
	}

	window.SetTitle("trayaccess-demo")
	window.SetDecorated(false)
	window.SetSkipTaskbarHint(true)
	window.SetDefaultSize(-1, cfg.Bar.Height)
	window.Connect("destroy", func() {
		gtk.MainQuit()
	})

	box, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, cfg.Bar.Spacing)
	if err != nil {
		return nil, fmt.Errorf("failed to create bar box: %w", err)
	}

	window.Add(box)
	window.ShowAll()

	hostID := cfg.HostID
	if hostID == 0 {
		hostID = os.Getpid()
	}

	return &bar{
		cfg:      cfg,
		conn:     conn,
		window:   window,
		box:      box,
		registry: trayaccess.NewRegistry(),
		monitor:  sni.NewMonitor(conn, hostID),
		slots:    make(map[string]*slot),
	}, nil
}

// listen subscribes to item registrations. Monitor callbacks arrive on the
// D-Bus signal goroutine, so the bar reschedules them onto the GTK loop.
func (b *bar) listen() error {
	b.monitor.OnAdded(func(itemName string) {
		b.loop.Schedule(func() { b.addItem(itemName) })
	})
	b.monitor.OnRemoved(func(itemName string) {
		b.loop.Schedule(func() { b.removeItem(itemName) })
	})

	if err := b.monitor.Listen(); err != nil {
		return fmt.Errorf("failed to listen for status notifier items: %w", err)
	}

	logger.Printf("Listening as %s", b.monitor.Name())

	return nil
}

func (b *bar) addItem(itemName string) {
	if _, ok := b.slots[itemName]; ok {
		return
	}

	remote, err := sni.NewItem(b.conn, itemName)
	if err != nil {
		logger.Printf("Skipping %s: %v", itemName, err)
		return
	}

	label, err := remote.Title()
	if err != nil || label == "" {
		label, _ = remote.ID()
	}
	if label == "" {
		label = remote.UniqueName()
	}

	button, err := gtk.ToggleButtonNewWithLabel(label)
	if err != nil {
		logger.Printf("Skipping %s: %v", itemName, err)
		return
	}
	button.SetRelief(gtk.RELIEF_NONE)

	if tooltip, err := remote.Tooltip(); err == nil && tooltip != "" {
		button.SetTooltipText(tooltip)
	}

	if iconName, err := remote.IconName(); err == nil && iconName != "" {
		if image, err := gtk.ImageNewFromIconName(iconName, gtk.ICON_SIZE_MENU); err == nil {
			button.SetImage(image)
			button.SetAlwaysShowImage(true)
		}
	}

	index := b.nextIndex
	b.nextIndex++

	menuBased, err := remote.IsMenuBased()
	if err != nil {
		menuBased = false
	}

	s := &slot{index: index}

	if menuBased {
		popover, err := b.buildMenuPopover(button, remote)
		if err != nil {
			logger.Printf("Skipping %s: %v", itemName, err)
			return
		}
		s.item = gtkhost.NewMenuItem(button, popover, remote)
	} else {
		dropdown, err := b.buildDropdownWindow(remote, label)
		if err != nil {
			logger.Printf("Skipping %s: %v", itemName, err)
			return
		}
		s.window = dropdown

		hosted := gtkhost.NewWindow(dropdown)

		// The window has to be in place before the item registers:
		// presenters subscribe as soon as the item shows up.
		b.registry.RegisterWindow(index, hosted)
		s.item = gtkhost.NewWindowItem(button, hosted, remote)
	}

	b.box.PackStart(button, false, false, 0)
	b.box.ShowAll()

	b.registry.RegisterStatusItem(index, s.item)

	s.binding = trayaccess.NewBinding()
	s.presenter = trayaccess.NewPresenter(b.registry, b.loop, index, s.binding)
	s.bindingObs = s.binding.Observe(func(presented bool) {
		logger.Printf("%s drop-down presented=%v", itemName, presented)
	})
	s.presenter.Attach()

	b.slots[itemName] = s

	logger.Printf("Added %s at index %d", itemName, index)
}

func (b *bar) removeItem(itemName string) {
	s, ok := b.slots[itemName]
	if !ok {
		return
	}
	delete(b.slots, itemName)

	s.presenter.Close()
	s.bindingObs.Release()

	b.registry.UnregisterStatusItem(s.index)
	if s.window != nil {
		b.registry.UnregisterWindow(s.index)
	}

	b.box.Remove(s.item.Button())
	if s.window != nil {
		s.window.Destroy()
	}

	logger.Printf("Removed %s", itemName)
}

// buildMenuPopover prepares the popover of a menu-based item. The refresh
// handler is connected before the presentation handler, so every click
// rebuilds the layout before the popover comes up.
func (b *bar) buildMenuPopover(button *gtk.ToggleButton, remote *sni.Item) (*gtk.Popover, error) {
	popover, err := gtk.PopoverNew(button)
	if err != nil {
		return nil, fmt.Errorf("failed to create popover: %w", err)
	}

	button.Connect("toggled", func() {
		if button.GetActive() {
			b.populateMenu(popover, remote)
		}
	})

	return popover, nil
}

func (b *bar) populateMenu(popover *gtk.Popover, remote *sni.Item) {
	menu, err := remote.Menu()
	if err != nil {
		logger.Printf("Failed to open menu: %v", err)
		return
	}

	_, root, err := menu.GetLayout(0, -1, nil)
	if err != nil {
		logger.Printf("Failed to fetch menu layout: %v", err)
		return
	}

	if needUpdate, err := menu.AboutToShow(root); err == nil && needUpdate {
		if _, refreshed, err := menu.GetLayout(0, -1, nil); err == nil {
			root = refreshed
		}
	}

	popover.GetChildren().Foreach(func(item interface{}) {
		if widget, ok := item.(*gtk.Widget); ok {
			popover.Remove(widget)
		}
	})

	menuBox, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 5)
	if err != nil {
		logger.Printf("Failed to create menu box: %v", err)
		return
	}
	menuBox.SetMarginStart(10)
	menuBox.SetMarginEnd(10)
	menuBox.SetMarginTop(10)
	menuBox.SetMarginBottom(10)

	for _, child := range root.Children {
		b.renderLayoutNode(menuBox, popover, menu, child, 0)
	}

	popover.Add(menuBox)
	menuBox.ShowAll()
}

func (b *bar) renderLayoutNode(box *gtk.Box, popover *gtk.Popover, menu *sni.Menu, node *sni.LayoutNode, depth int) {
	if !node.Visible() {
		return
	}

	if node.IsSeparator() {
		separator, err := gtk.SeparatorNew(gtk.ORIENTATION_HORIZONTAL)
		if err != nil {
			return
		}
		box.PackStart(separator, false, false, 2)
		return
	}

	if node.HasSubmenu() {
		header, err := gtk.LabelNew(node.Label())
		if err != nil {
			return
		}
		header.SetHAlign(gtk.ALIGN_START)
		header.SetMarginStart(depth * 12)
		box.PackStart(header, false, false, 0)

		for _, child := range node.Children {
			b.renderLayoutNode(box, popover, menu, child, depth+1)
		}
		return
	}

	entry, err := gtk.ButtonNewWithLabel(node.Label())
	if err != nil {
		return
	}
	entry.SetRelief(gtk.RELIEF_NONE)
	entry.SetMarginStart(depth * 12)
	entry.SetSensitive(node.Enabled())
	entry.Connect("clicked", func() {
		if err := menu.Clicked(node); err != nil {
			logger.Printf("Failed to send click: %v", err)
		}
		popover.Popdown()
	})

	box.PackStart(entry, false, false, 0)
}

// buildDropdownWindow creates the drop-down window of an item that has no
// menu. It offers the item's Activate method, which such items rely on.
func (b *bar) buildDropdownWindow(remote *sni.Item, title string) (*gtk.Window, error) {
	window, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return nil, fmt.Errorf("failed to create drop-down window: %w", err)
	}

	window.SetTitle(title)
	window.SetDecorated(false)
	window.SetSkipTaskbarHint(true)
	window.SetDefaultSize(b.cfg.Window.Width, b.cfg.Window.Height)

	contentBox, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to create drop-down box: %w", err)
	}
	contentBox.SetMarginStart(10)
	contentBox.SetMarginEnd(10)
	contentBox.SetMarginTop(10)
	contentBox.SetMarginBottom(10)

	titleLabel, err := gtk.LabelNew(title)
	if err != nil {
		return nil, fmt.Errorf("failed to create drop-down label: %w", err)
	}
	titleLabel.SetHAlign(gtk.ALIGN_START)
	contentBox.PackStart(titleLabel, false, false, 0)

	activateButton, err := gtk.ButtonNewWithLabel("Activate")
	if err != nil {
		return nil, fmt.Errorf("failed to create activate button: %w", err)
	}
	activateButton.Connect("clicked", func() {
		if err := remote.Activate(0, 0); err != nil {
			logger.Printf("Failed to activate: %v", err)
		}
	})
	contentBox.PackStart(activateButton, false, false, 0)

	window.Add(contentBox)

	// Closing from the window manager hides the window instead of tearing
	// down a widget the bar still references.
	window.Connect("delete-event", func(w *gtk.Window, event *gdk.Event) bool {
		w.Hide()
		return true
	})

	return window, nil
}
