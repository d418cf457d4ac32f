// Package preferences holds the user settings and their editor window.
package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"cozyfocus/internal/core/celebration"
)

var duplicateChoices = []string{"Celebrate every unlock", "Skip repeats already waiting"}

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   Settings
	onSave     func(Settings)
	focus      *widget.Entry
	breakEntry *widget.Entry
	reduced    *widget.Check
	autostart  *widget.Check
	duplicates *widget.RadioGroup
	errorLabel *widget.Label
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	prefs := &Window{
		window:     app.NewWindow("CozyFocus Settings"),
		onSave:     onSave,
		focus:      widget.NewEntry(),
		breakEntry: widget.NewEntry(),
		reduced:    widget.NewCheck("Reduce motion (no particles)", nil),
		autostart:  widget.NewCheck("Start at login", nil),
		duplicates: widget.NewRadioGroup(duplicateChoices, nil),
		errorLabel: widget.NewLabel(""),
	}
	prefs.errorLabel.Importance = widget.DangerImportance
	prefs.errorLabel.Hide()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Focus length"), prefs.focus, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break length"), prefs.breakEntry, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Celebrations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.reduced,
		prefs.duplicates,
		widget.NewLabelWithStyle("System", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.autostart,
		prefs.errorLabel,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", prefs.window.Hide)
	buttons := container.NewHBox(layout.NewSpacer(), cancelButton, saveButton)

	prefs.window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	prefs.window.Resize(fyne.NewSize(400, 360))
	prefs.window.SetCloseIntercept(prefs.window.Hide)
	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.UpdateSettings(prefs.settings)
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.focus.SetText(strconv.Itoa(int(settings.FocusDuration / time.Minute)))
	prefs.breakEntry.SetText(strconv.Itoa(int(settings.BreakDuration / time.Minute)))
	prefs.reduced.SetChecked(settings.ReducedMotion)
	prefs.autostart.SetChecked(settings.Autostart)
	if settings.DuplicateUnlocks == celebration.DuplicatesSkipPending {
		prefs.duplicates.SetSelected(duplicateChoices[1])
	} else {
		prefs.duplicates.SetSelected(duplicateChoices[0])
	}
	prefs.errorLabel.Hide()
}

func (prefs *Window) handleSave() {
	settings, err := Apply(prefs.settings, Form{
		FocusMinutes:  prefs.focus.Text,
		BreakMinutes:  prefs.breakEntry.Text,
		ReducedMotion: prefs.reduced.Checked,
		Autostart:     prefs.autostart.Checked,
		SkipPending:   prefs.duplicates.Selected == duplicateChoices[1],
	})
	if err != nil {
		prefs.errorLabel.SetText(err.Error())
		prefs.errorLabel.Show()
		return
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// Form is the raw input of the preferences window.
type Form struct {
	FocusMinutes  string
	BreakMinutes  string
	ReducedMotion bool
	Autostart     bool
	SkipPending   bool
}

// Apply validates form on top of settings.
func Apply(settings Settings, form Form) (Settings, error) {
	focus, err := parseMinutes("focus length", form.FocusMinutes, MaxFocusMinutes)
	if err != nil {
		return settings, err
	}
	breakLength, err := parseMinutes("break length", form.BreakMinutes, MaxBreakMinutes)
	if err != nil {
		return settings, err
	}

	settings.FocusDuration = focus
	settings.BreakDuration = breakLength
	settings.ReducedMotion = form.ReducedMotion
	settings.Autostart = form.Autostart
	settings.DuplicateUnlocks = celebration.DuplicatesQueue
	if form.SkipPending {
		settings.DuplicateUnlocks = celebration.DuplicatesSkipPending
	}
	return settings, nil
}

func parseMinutes(field, value string, maxMinutes int) (time.Duration, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || minutes <= 0 || minutes > maxMinutes {
		return 0, fmt.Errorf("%s must be between 1 and %d minutes", field, maxMinutes)
	}
	return time.Duration(minutes) * time.Minute, nil
}
