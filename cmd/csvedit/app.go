package main

import (
	"csvedit/internal/config"
	"csvedit/internal/controllers"
	"csvedit/internal/editor"
	"csvedit/internal/logger"
	"csvedit/internal/shutdown"
	"csvedit/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

// Application owns the Fyne app, the main window and its controller
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger

	editor     *editor.Editor
	controller *controllers.MainController
	view       *views.MainView
	shutdown   *shutdown.Manager
}

// NewApplication creates the window and wires view, controller and editor
func NewApplication(cfg *config.Config, ed *editor.Editor, log logger.Logger) (*Application, error) {
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))
	window.CenterOnScreen()
	window.SetMaster()

	mainView := views.NewMainView(window, AppName, ed)
	mainController := controllers.NewMainController(ed, fyneApp.Preferences(), log)
	mainController.SetMainView(mainView)
	mainController.SetIOTimeout(cfg.IO.Timeout)
	mainController.SetVersion(AppVersion)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     log,
		editor:     ed,
		controller: mainController,
		view:       mainView,
		shutdown:   shutdown.NewManager(log),
	}

	application.shutdown.Register("ui", shutdown.Func(func() {
		fyne.Do(fyneApp.Quit)
	}))
	application.shutdown.Register("controller", mainController)

	mainController.SetQuitFunc(func() {
		go application.shutdown.Shutdown()
	})

	application.setupWindowEvents()

	log.Info("Application", "initialized", map[string]interface{}{
		"window_width":  cfg.Window.Width,
		"window_height": cfg.Window.Height,
		"delimiter":     cfg.CSV.Delimiter,
		"quote":         cfg.CSV.Quote,
		"ragged_policy": cfg.CSV.RaggedPolicy,
	})

	return application, nil
}

// Run shows the window, opens path once the event loop is up and blocks
// until the application quits.
func (app *Application) Run(path string) error {
	app.shutdown.Listen()

	app.fyneApp.Lifecycle().SetOnStarted(func() {
		app.logger.Info("Application", "event loop started", nil)
		if path != "" {
			app.controller.OpenPath(path)
		}
	})

	app.view.Show()
	app.fyneApp.Run()

	app.shutdown.Shutdown()
	app.logger.Info("Application", "terminated", nil)
	return nil
}

// setupWindowEvents routes window close through the unsaved-changes check
func (app *Application) setupWindowEvents() {
	app.window.SetCloseIntercept(func() {
		app.logger.Info("Application", "window close requested", map[string]interface{}{
			"dirty": app.editor.IsDirty(),
		})
		app.controller.RequestQuit()
	})
}
