// Package overlay shows the celebration window driven by the
// presentation controller.
package overlay

import (
	"context"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"cozyfocus/internal/core/presentation"
	"cozyfocus/internal/display"
	"cozyfocus/internal/ui/animation"
)

// Dismisser closes the current celebration.
type Dismisser interface {
	Dismiss()
}

const (
	overlayWidthFraction  = float32(0.28)
	overlayHeightFraction = float32(0.32)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)
	glowRadius            = float32(46)
)

var (
	cardColor   = color.NRGBA{R: 0x2B, G: 0x22, B: 0x1C, A: 0xF2}
	fadedColor  = color.NRGBA{R: 0x2B, G: 0x22, B: 0x1C, A: 0x99}
	textColor   = color.NRGBA{R: 0xFF, G: 0xF8, B: 0xEE, A: 0xFF}
	mutedColor  = color.NRGBA{R: 0xE6, G: 0xD5, B: 0xC3, A: 0xFF}
	accentColor = []color.NRGBA{
		{R: 0xFF, G: 0xF8, B: 0xEE, A: 0xFF},
		{R: 0xFF, G: 0xB3, B: 0x47, A: 0xFF},
		{R: 0xF2, G: 0x8C, B: 0xA8, A: 0xFF},
	}
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window renders presentation views.
type Window struct {
	window     fyne.Window
	dismisser  Dismisser
	engine     *animation.Engine
	background *canvas.Rectangle
	glow       *canvas.Circle
	glowCell   *fyne.Container
	badge      *canvas.Text
	tierLabel  *canvas.Text
	title      *canvas.Text
	subtitle   *canvas.Text
	button     *widget.Button
	particles  *fyne.Container
	dots       []*canvas.Circle

	shown       bool
	shownKey    uuid.UUID
	tierColor   color.NRGBA
	cancelCtx   context.CancelFunc
	particleRun bool
}

// New creates the overlay. It stays hidden until a view has an item.
func New(app fyne.App, dismisser Dismisser) *Window {
	window := app.NewWindow("CozyFocus")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	overlay := &Window{
		window:     window,
		dismisser:  dismisser,
		background: canvas.NewRectangle(cardColor),
		glow:       canvas.NewCircle(color.Transparent),
		badge:      canvas.NewText("★", textColor),
		tierLabel:  canvas.NewText("", mutedColor),
		title:      canvas.NewText("", textColor),
		subtitle:   canvas.NewText("", mutedColor),
		particles:  container.NewWithoutLayout(),
	}
	overlay.background.CornerRadius = 18
	overlay.glowCell = container.NewGridWrap(fyne.NewSize(glowRadius*2, glowRadius*2), overlay.glow)
	overlay.badge.TextSize = 44
	overlay.badge.Alignment = fyne.TextAlignCenter
	overlay.tierLabel.TextSize = 12
	overlay.tierLabel.Alignment = fyne.TextAlignCenter
	overlay.tierLabel.TextStyle = fyne.TextStyle{Bold: true}
	overlay.title.TextSize = 22
	overlay.title.Alignment = fyne.TextAlignCenter
	overlay.title.TextStyle = fyne.TextStyle{Bold: true}
	overlay.subtitle.TextSize = 14
	overlay.subtitle.Alignment = fyne.TextAlignCenter

	overlay.button = widget.NewButton("Continue", overlay.dismiss)
	overlay.button.Importance = widget.HighImportance

	overlay.engine = animation.New(animation.DefaultConfig(), func(particles []animation.Particle) {
		fyne.Do(func() { overlay.drawParticles(particles) })
	})

	badge := container.NewStack(container.NewCenter(overlay.glowCell), overlay.badge)
	card := container.NewVBox(
		badge,
		overlay.tierLabel,
		overlay.title,
		overlay.subtitle,
		container.NewCenter(overlay.button),
	)
	root := container.NewStack(
		overlay.background,
		overlay.particles,
		newTapCatcher(overlay.dismiss),
		container.NewPadded(container.NewCenter(card)),
	)
	window.SetContent(root)
	window.SetCloseIntercept(overlay.dismiss)
	window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		switch event.Name {
		case fyne.KeyEscape, fyne.KeyReturn, fyne.KeyEnter, fyne.KeySpace:
			overlay.dismiss()
		}
	})
	return overlay
}

// Render applies view. Safe to call from any goroutine.
func (overlay *Window) Render(view presentation.View) {
	fyne.Do(func() {
		overlay.render(view)
	})
}

// Close stops the particle effect and hides the window.
func (overlay *Window) Close() {
	overlay.stopParticles()
	overlay.window.Hide()
	overlay.shown = false
}

func (overlay *Window) render(view presentation.View) {
	if !view.HasItem {
		overlay.Close()
		return
	}

	if !overlay.shown || overlay.shownKey != view.Entry.Key {
		overlay.setItem(view)
	}

	// Entering and exiting frames are drawn faded.
	if view.State == presentation.StateVisible {
		overlay.background.FillColor = cardColor
		overlay.glow.FillColor = overlay.tierColor
	} else {
		overlay.background.FillColor = fadedColor
		overlay.glow.FillColor = display.StyleFor(view.Entry.Item.Tier).Glow(0x55)
	}
	overlay.background.Refresh()
	overlay.glow.Refresh()

	if view.State == presentation.StateExiting {
		overlay.button.Disable()
	} else {
		overlay.button.Enable()
	}

	if view.ShowParticles {
		overlay.startParticles(view.Tier)
	} else {
		overlay.stopParticles()
	}
}

func (overlay *Window) setItem(view presentation.View) {
	item := view.Entry.Item
	style := display.StyleFor(item.Tier)

	overlay.shownKey = view.Entry.Key
	overlay.tierColor = style.Glow(0xCC)
	overlay.badge.Color = style.Color
	overlay.tierLabel.Text = style.Label + " achievement"
	overlay.title.Text = item.Title
	overlay.subtitle.Text = item.Description
	overlay.badge.Refresh()
	overlay.tierLabel.Refresh()
	overlay.title.Refresh()
	overlay.subtitle.Refresh()

	overlay.stopParticles()
	overlay.window.SetTitle(item.Title)
	if !overlay.shown {
		overlay.resizeToScreenFraction()
		overlay.window.Show()
		overlay.shown = true
	}
	overlay.window.RequestFocus()
	overlay.window.Canvas().Focus(overlay.button)
}

func (overlay *Window) startParticles(tier presentation.TierConfig) {
	if overlay.particleRun {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	overlay.cancelCtx = cancel
	overlay.particleRun = true
	overlay.ensureDots(tier.ParticleCount)
	overlay.engine.Start(ctx, tier.ParticleType, tier.ParticleCount)
}

func (overlay *Window) stopParticles() {
	if overlay.cancelCtx != nil {
		overlay.cancelCtx()
		overlay.cancelCtx = nil
	}
	overlay.engine.Stop()
	overlay.particleRun = false
	for _, dot := range overlay.dots {
		dot.Hide()
	}
}

func (overlay *Window) ensureDots(count int) {
	for len(overlay.dots) < count {
		dot := canvas.NewCircle(color.Transparent)
		dot.Hide()
		overlay.dots = append(overlay.dots, dot)
		overlay.particles.Add(dot)
	}
}

func (overlay *Window) drawParticles(particles []animation.Particle) {
	if !overlay.particleRun {
		return
	}
	size := overlay.particles.Size()
	for i, dot := range overlay.dots {
		if i >= len(particles) {
			dot.Hide()
			continue
		}
		particle := particles[i]
		fill := overlay.tierColor
		if particle.Palette > 0 {
			fill = accentColor[(particle.Palette-1)%len(accentColor)]
		}
		fill.A = uint8(float32(fill.A) * clamp01(particle.Alpha))
		dot.FillColor = fill
		dot.Resize(fyne.NewSize(particle.Size, particle.Size))
		dot.Move(fyne.NewPos(particle.X*size.Width, particle.Y*size.Height))
		dot.Show()
		dot.Refresh()
	}
}

func (overlay *Window) dismiss() {
	if overlay.dismisser != nil {
		overlay.dismisser.Dismiss()
	}
}

func (overlay *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := overlay.window.Canvas().Size()
	// Canvas size can be reused as a proxy for monitor size when it is clearly screen-like.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	minSize := overlay.window.Content().MinSize()
	width := max(screenSize.Width*overlayWidthFraction, minSize.Width)
	height := max(screenSize.Height*overlayHeightFraction, minSize.Height)
	overlay.window.Resize(fyne.NewSize(width, height))
	overlay.window.CenterOnScreen()
}

func clamp01(value float32) float32 {
	return min(max(value, 0), 1)
}

// tapCatcher turns a tap anywhere on the backdrop into a dismissal.
type tapCatcher struct {
	widget.BaseWidget
	onTapped func()
}

func newTapCatcher(onTapped func()) *tapCatcher {
	catcher := &tapCatcher{onTapped: onTapped}
	catcher.ExtendBaseWidget(catcher)
	return catcher
}

func (catcher *tapCatcher) Tapped(*fyne.PointEvent) {
	if catcher.onTapped != nil {
		catcher.onTapped()
	}
}

func (catcher *tapCatcher) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}
