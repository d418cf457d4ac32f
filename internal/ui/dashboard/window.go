// Package dashboard is the main window: the timer with its controls and
// the achievement gallery.
package dashboard

import (
	"context"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"cozyfocus/internal/core/celebration"
	"cozyfocus/internal/core/model"
	"cozyfocus/internal/core/signal"
	"cozyfocus/internal/core/timer"
	"cozyfocus/internal/display"
)

// TimerControls sends timer commands to the engine.
type TimerControls interface {
	Start(ctx context.Context)
	Pause(ctx context.Context)
	Resume(ctx context.Context)
	Stop(ctx context.Context)
}

// Window is the dashboard.
type Window struct {
	window       fyne.Window
	timerStore   *timer.Store
	achievements *celebration.Store
	controls     TimerControls
	schedule     func() model.EngineConfig
	scope        signal.Scope

	timeText     *canvas.Text
	statusLabel  *widget.Label
	progress     *widget.ProgressBar
	startButton  *widget.Button
	pauseButton  *widget.Button
	resumeButton *widget.Button
	stopButton   *widget.Button
	summary      *widget.Label
	gallery      *fyne.Container
}

// New creates the dashboard. schedule returns the configured session
// lengths used for the progress bar.
func New(app fyne.App, timerStore *timer.Store, controls TimerControls, achievements *celebration.Store, schedule func() model.EngineConfig) *Window {
	dashboard := &Window{
		window:       app.NewWindow("CozyFocus"),
		timerStore:   timerStore,
		achievements: achievements,
		controls:     controls,
		schedule:     schedule,
		timeText:     canvas.NewText("00:00", color.NRGBA{R: 0xE8, G: 0x8D, B: 0x4F, A: 0xFF}),
		statusLabel:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
		progress:     widget.NewProgressBar(),
		summary:      widget.NewLabel(""),
		gallery:      container.NewVBox(),
	}
	dashboard.timeText.TextSize = 56
	dashboard.timeText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	dashboard.timeText.Alignment = fyne.TextAlignCenter
	dashboard.progress.TextFormatter = func() string { return "" }

	ctx := context.Background()
	dashboard.startButton = widget.NewButton("Start", func() { controls.Start(ctx) })
	dashboard.startButton.Importance = widget.HighImportance
	dashboard.pauseButton = widget.NewButton("Pause", func() { controls.Pause(ctx) })
	dashboard.resumeButton = widget.NewButton("Resume", func() { controls.Resume(ctx) })
	dashboard.stopButton = widget.NewButton("Stop", func() { controls.Stop(ctx) })

	timerPanel := container.NewVBox(
		dashboard.timeText,
		dashboard.statusLabel,
		dashboard.progress,
		container.NewHBox(
			layout.NewSpacer(),
			dashboard.startButton,
			dashboard.pauseButton,
			dashboard.resumeButton,
			dashboard.stopButton,
			layout.NewSpacer(),
		),
	)
	galleryPanel := container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("Achievements", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			dashboard.summary,
		),
		nil, nil, nil,
		container.NewVScroll(dashboard.gallery),
	)

	dashboard.window.SetContent(container.NewBorder(
		container.NewPadded(timerPanel), nil, nil, nil,
		container.NewPadded(galleryPanel),
	))
	dashboard.window.Resize(fyne.NewSize(440, 620))
	dashboard.window.SetCloseIntercept(dashboard.window.Hide)

	dashboard.refreshTimer(timerStore.Snapshot())
	dashboard.refreshGallery()
	return dashboard
}

// Bind subscribes the widgets to the stores.
func (dashboard *Window) Bind() {
	dashboard.scope.Add(dashboard.timerStore.Subscribe(func(snapshot model.TimerSnapshot) {
		fyne.Do(func() { dashboard.refreshTimer(snapshot) })
	}))
	dashboard.scope.Add(dashboard.achievements.Subscribe(func() {
		fyne.Do(dashboard.refreshGallery)
	}))
}

// Show brings the window to the front.
func (dashboard *Window) Show() {
	dashboard.window.Show()
	dashboard.window.RequestFocus()
}

// Window returns the underlying fyne window.
func (dashboard *Window) Window() fyne.Window {
	return dashboard.window
}

// Close releases the store subscriptions.
func (dashboard *Window) Close() error {
	return dashboard.scope.Close()
}

func (dashboard *Window) refreshTimer(snapshot model.TimerSnapshot) {
	dashboard.timeText.Text = display.FormatDuration(snapshot.RemainingSeconds)
	dashboard.timeText.Refresh()
	dashboard.statusLabel.SetText(display.StatusLabel(snapshot.Status))

	total := display.SessionTotal(snapshot.Status, dashboard.schedule())
	dashboard.progress.SetValue(display.Progress(snapshot.RemainingSeconds, total))

	controls := display.ControlsFor(snapshot.Status)
	setEnabled(dashboard.startButton, controls.Start)
	setEnabled(dashboard.pauseButton, controls.Pause)
	setEnabled(dashboard.resumeButton, controls.Resume)
	setEnabled(dashboard.stopButton, controls.Stop)
}

func (dashboard *Window) refreshGallery() {
	achievements := dashboard.achievements.Achievements()
	if dashboard.achievements.Loading() && len(achievements) == 0 {
		dashboard.summary.SetText("Loading achievements...")
	} else {
		dashboard.summary.SetText(fmt.Sprintf("%d of %d unlocked · %d sessions",
			display.UnlockedCount(achievements), len(achievements), dashboard.achievements.TotalSessions()))
	}

	dashboard.gallery.RemoveAll()
	for _, row := range display.Gallery(achievements, dashboard.achievements.IsNew) {
		dashboard.gallery.Add(dashboard.galleryRow(row))
	}
	dashboard.gallery.Refresh()
}

func (dashboard *Window) galleryRow(row display.GalleryRow) fyne.CanvasObject {
	swatch := canvas.NewCircle(row.Style.Color)
	if !row.Unlocked {
		swatch.FillColor = row.Style.Glow(0x40)
	}
	swatch.Resize(fyne.NewSize(14, 14))
	swatch.Move(fyne.NewPos(2, 10))
	icon := container.NewWithoutLayout(swatch)

	title := widget.NewLabelWithStyle(row.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: row.Unlocked})
	detail := row.Description
	if row.UnlockedOn != "" {
		detail = fmt.Sprintf("%s · %s", row.Description, row.UnlockedOn)
	}
	text := container.NewVBox(title, widget.NewLabel(detail))

	var trailing fyne.CanvasObject = layout.NewSpacer()
	if row.New {
		id := row.ID
		badge := widget.NewButton("NEW", func() {
			dashboard.achievements.MarkViewed(id)
		})
		badge.Importance = widget.WarningImportance
		trailing = badge
	}
	return container.NewBorder(nil, nil, container.NewGridWrap(fyne.NewSize(18, 34), icon), trailing, text)
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}
