package main

import (
	"context"
	"errors"
	"log"

	"cozyfocus/internal/core/celebration"
	"cozyfocus/internal/core/clock"
	"cozyfocus/internal/core/engine"
	"cozyfocus/internal/core/ipc"
	"cozyfocus/internal/core/model"
	"cozyfocus/internal/core/presentation"
	"cozyfocus/internal/core/signal"
	"cozyfocus/internal/core/timer"
	"cozyfocus/internal/platform"
	"cozyfocus/internal/storage"
	"cozyfocus/internal/ui/dashboard"
	"cozyfocus/internal/ui/overlay"
	"cozyfocus/internal/ui/preferences"
	"cozyfocus/internal/ui/tray"
	"cozyfocus/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appName = "CozyFocus"

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if err := platform.ActivateRunning(appName); err != nil {
				log.Printf("single instance: activate running: %v", err)
			}
			return
		}
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	service := platform.NewService()
	configRoot, err := service.ConfigDir()
	if err != nil {
		log.Printf("config dir: %v", err)
		return
	}
	dir := storage.NewDir(configRoot, appName)
	settings, err := dir.LoadSettings()
	if err != nil {
		log.Printf("settings: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := ipc.NewLoop()
	go loop.Run(ctx)
	bus := ipc.NewBus(loop)

	focusEngine := engine.New(settings.EngineConfig(), bus, engine.Options{Progress: dir.Progress()})
	if err := focusEngine.Load(); err != nil {
		log.Printf("engine: %v", err)
	}

	timerStore := timer.NewStore()
	reconciler := timer.NewReconciler(timerStore, bus, focusEngine, loop)
	if err := reconciler.Mount(ctx); err != nil {
		log.Printf("timer: mount: %v", err)
	}

	celebrations := celebration.NewStore(celebration.Config{
		Duplicates: settings.DuplicateUnlocks,
		Viewed:     dir.Viewed(),
	})
	if err := celebrations.Load(); err != nil {
		log.Printf("celebrations: %v", err)
	}
	binder := celebration.NewBinder(celebrations, bus, focusEngine, loop)
	if err := binder.Mount(ctx); err != nil {
		log.Printf("celebrations: mount: %v", err)
	}

	controller := presentation.New(celebrations, clock.New(), loop, settings.PresentationConfig())

	fyneApp := app.NewWithID("com.cozyfocus.app")
	fyneApp.SetIcon(resources.AppIcon())

	var scope signal.Scope
	overlayWindow := overlay.New(fyneApp, controller)
	scope.Add(controller.Subscribe(overlayWindow.Render))

	board := dashboard.New(fyneApp, timerStore, reconciler, celebrations, func() model.EngineConfig {
		return settings.EngineConfig()
	})
	board.Bind()

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		if err := dir.SaveSettings(settings); err != nil {
			log.Printf("settings: %v", err)
		}
		focusEngine.UpdateConfig(settings.EngineConfig())
		controller.SetReducedMotion(settings.ReducedMotion)
		celebrations.SetDuplicatePolicy(settings.DuplicateUnlocks)
		applyAutostart(service, settings.Autostart)
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		desktopApp.SetSystemTrayWindow(board.Window())
		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnStart:       func() { reconciler.Start(ctx) },
			OnPause:       func() { reconciler.Pause(ctx) },
			OnResume:      func() { reconciler.Resume(ctx) },
			OnStop:        func() { reconciler.Stop(ctx) },
			OnShow:        board.Show,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.TrayIcon(model.StatusIdle))
		scope.Add(timerStore.Subscribe(func(snapshot model.TimerSnapshot) {
			fyne.Do(func() {
				trayManager.SetSnapshot(snapshot)
				desktopApp.SetSystemTrayIcon(resources.TrayIcon(snapshot.Status))
			})
		}))
	} else {
		log.Printf("system tray unsupported on this platform")
	}

	guard.OnActivate(func() {
		fyne.Do(board.Show)
	})

	controller.Start()
	board.Show()
	fyneApp.Run()

	closeAll(
		controller.Close,
		scope.Close,
		board.Close,
		binder.Close,
		reconciler.Close,
	)
	focusEngine.Close()
	bus.Close()
	loop.Close()
}

func applyAutostart(service platform.Service, enabled bool) {
	entry, err := platform.CurrentLaunchEntry(appName)
	if err != nil {
		log.Printf("autostart: %v", err)
		return
	}
	if err := service.SetAutostart(entry, enabled); err != nil {
		log.Printf("autostart: %v", err)
	}
}

func closeAll(closers ...func() error) {
	for _, closer := range closers {
		if err := closer(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
