package mirage

import (
	"reflect"
)

// RendererName identifies a concrete renderer module.
// Keep names aligned with ensureSingleRenderer tags.
type RendererName string

const (
	RendererRaymarch RendererName = "raymarch"
)

// Renderer is an alias to Module for semantic clarity in APIs.
type Renderer interface {
	Module
}

// ensureWindowResource guarantees a single shared WindowState resource exists.
// If missing, it creates one with provided overrides or sensible defaults.
func ensureWindowResource(app *App, width, height int, title string) {
	t := reflect.TypeOf((*WindowState)(nil)).Elem()
	if _, ok := app.resources[t]; ok {
		return
	}
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Mirage"
	}
	ws := createWindowState(width, height, title)
	app.addResources(ws)
	app.Logger().Infof("Created shared window (%dx%d) '%s'", width, height, title)
}

// UseRenderer installs exactly one renderer module, enforcing exclusivity
// via ensureSingleRenderer, and ensures a shared WindowState exists.
func (app *App) UseRenderer(name RendererName, mod Module) *App {
	ensureSingleRenderer(app, string(name))
	ensureWindowResource(app, 0, 0, "")
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	return app
}

// UseRendererWithWindow installs the renderer and ensures a shared window
// with explicit size and title.
func (app *App) UseRendererWithWindow(name RendererName, mod Module, width, height int, title string) *App {
	ensureSingleRenderer(app, string(name))
	ensureWindowResource(app, width, height, title)
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	return app
}

// UseRaymarch selects the raymarching renderer and ensures a shared window
// with the given parameters. For advanced options, configure a
// RaymarchModule and call UseRendererWithWindow directly.
func (app *App) UseRaymarch(width, height int, title string) *App {
	return app.UseRendererWithWindow(RendererRaymarch, RaymarchModule{
		WindowWidth:  width,
		WindowHeight: height,
		WindowTitle:  title,
	}, width, height, title)
}
