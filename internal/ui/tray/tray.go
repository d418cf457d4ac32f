// Package tray builds the system tray menu.
package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"cozyfocus/internal/core/model"
	"cozyfocus/internal/display"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart       func()
	OnPause       func()
	OnResume      func()
	OnStop        func()
	OnShow        func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	resumeItem *fyne.MenuItem
	stopItem   *fyne.MenuItem
	menu       *fyne.Menu
	snapshot   model.TimerSnapshot
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:        app,
		callbacks:  callbacks,
		statusItem: fyne.NewMenuItem("", nil),
		startItem:  fyne.NewMenuItem("Start focus", callback(callbacks.OnStart)),
		pauseItem:  fyne.NewMenuItem("Pause", callback(callbacks.OnPause)),
		resumeItem: fyne.NewMenuItem("Resume", callback(callbacks.OnResume)),
		stopItem:   fyne.NewMenuItem("Stop", callback(callbacks.OnStop)),
	}
	manager.statusItem.Disabled = true

	quit := fyne.NewMenuItem("Quit", callback(callbacks.OnQuit))
	quit.IsQuit = true
	manager.menu = fyne.NewMenu("CozyFocus",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.resumeItem,
		manager.stopItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show CozyFocus", callback(callbacks.OnShow)),
		fyne.NewMenuItem("Preferences", callback(callbacks.OnPreferences)),
		quit,
	)

	manager.SetSnapshot(model.IdleSnapshot())
	return manager
}

// SetSnapshot updates the status line and the enabled items.
func (manager *Manager) SetSnapshot(snapshot model.TimerSnapshot) {
	manager.snapshot = snapshot
	manager.statusItem.Label = StatusLine(snapshot)

	controls := display.ControlsFor(snapshot.Status)
	manager.startItem.Disabled = !controls.Start
	manager.pauseItem.Disabled = !controls.Pause
	manager.resumeItem.Disabled = !controls.Resume
	manager.stopItem.Disabled = !controls.Stop
	manager.refreshMenu()
}

// Snapshot returns the state the menu currently shows.
func (manager *Manager) Snapshot() model.TimerSnapshot {
	return manager.snapshot
}

// StatusLine is the tray's disabled first item.
func StatusLine(snapshot model.TimerSnapshot) string {
	label := display.StatusLabel(snapshot.Status)
	if snapshot.Status == model.StatusIdle || snapshot.Status == "" {
		return label
	}
	return fmt.Sprintf("%s · %s", label, display.FormatDuration(snapshot.RemainingSeconds))
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}

func callback(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
	}
}
