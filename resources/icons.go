// Package resources provides the app and tray icons.
package resources

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"

	"cozyfocus/internal/core/model"
)

// A tomato shaped badge; %s is the body color.
const iconTemplate = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
<circle cx="32" cy="36" r="24" fill="%s"/>
<path d="M32 12c-4 0-8 3-9 6 4-1 7 0 9 2 2-2 5-3 9-2-1-3-5-6-9-6z" fill="#5B8C51"/>
<rect x="30" y="6" width="4" height="8" rx="2" fill="#5B8C51"/>
<circle cx="24" cy="30" r="4" fill="#FFFFFF" fill-opacity="0.35"/>
</svg>`

var statusColors = map[model.TimerStatus]string{
	model.StatusIdle:   "#B9A89A",
	model.StatusFocus:  "#E8603C",
	model.StatusBreak:  "#6DB38A",
	model.StatusPaused: "#E8B04F",
}

var iconCache sync.Map

// AppIcon returns the application icon.
func AppIcon() fyne.Resource {
	return icon("cozyfocus.svg", statusColors[model.StatusFocus])
}

// TrayIcon returns the tray icon tinted for status.
func TrayIcon(status model.TimerStatus) fyne.Resource {
	fill, ok := statusColors[status]
	if !ok {
		status, fill = model.StatusIdle, statusColors[model.StatusIdle]
	}
	return icon(fmt.Sprintf("tray-%s.svg", status), fill)
}

func icon(name, fill string) fyne.Resource {
	if cached, ok := iconCache.Load(name); ok {
		return cached.(fyne.Resource)
	}
	resource := fyne.NewStaticResource(name, []byte(fmt.Sprintf(iconTemplate, fill)))
	iconCache.Store(name, resource)
	return resource
}
