package ui

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	fynedialog "fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"
	nativedialog "github.com/sqweek/dialog"

	"worldmap_viewer/engine"
	"worldmap_viewer/io/config"
	"worldmap_viewer/models/consts"
	"worldmap_viewer/ui/forms/editors"
	"worldmap_viewer/ui/forms/selections"
)

type widgetState int

const (
	stateIdle widgetState = iota
	stateLoading
	stateReady
	stateFailed
)

type (
	Gui interface {
		App() fyne.App
		Window() fyne.Window
		Load()
		Run()
	}
	gui struct {
		app    fyne.App
		window fyne.Window

		banner    *widget.Label
		picker    *selections.Locations
		mapWidget *editors.MapWidget
		session   *editors.Session

		importItem *fyne.MenuItem
		registry   []consts.Location
		state      widgetState
	}
)

func New() Gui {
	a := app.New()
	g := &gui{
		app:    a,
		window: a.NewWindow("World Map Viewer"),
		state:  stateIdle,
	}
	g.registry = startupRegistry()

	heading := widget.NewLabelWithStyle("Interactive World Map", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	g.banner = widget.NewLabel("")
	g.banner.Importance = widget.DangerImportance
	g.banner.Wrapping = fyne.TextWrapWord
	g.banner.Hide()

	g.picker = selections.NewLocations(g.registry)

	g.mapWidget = editors.NewMapWidget()
	g.mapWidget.SetMinSize(fyne.NewSize(640, 420))

	top := container.NewVBox(heading, g.picker, g.banner)
	g.window.SetContent(container.NewBorder(top, nil, nil, nil, g.mapWidget))

	x, y := config.WindowSize()
	g.window.Resize(fyne.NewSize(x, y))

	g.importItem = fyne.NewMenuItem("Import Locations...", g.importLocations)
	g.importItem.Disabled = true
	g.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			g.importItem,
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Quit", func() { g.window.Close() }),
		)))

	// Release markers, popup and timers when the view goes away.
	g.window.SetOnClosed(func() { g.session.Teardown() })
	return g
}

// startupRegistry merges the optional user locations file after the
// built-in entries; duplicate display names keep the built-in.
func startupRegistry() []consts.Location {
	registry := append([]consts.Location{}, consts.Locations...)
	path := config.LocationsFile()
	user, err := config.UserLocations(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("locations file skipped")
		}
		return registry
	}
	return mergeLocations(registry, user)
}

func mergeLocations(base, extra []consts.Location) []consts.Location {
	seen := map[string]bool{}
	for _, loc := range base {
		seen[loc.Name] = true
	}
	for _, loc := range extra {
		if loc.Name == "" || seen[loc.Name] {
			continue
		}
		seen[loc.Name] = true
		base = append(base, loc)
	}
	return base
}

func (g *gui) App() fyne.App {
	return g.app
}

func (g *gui) Window() fyne.Window {
	return g.window
}

// Load kicks off the one-shot engine load. The dropdown stays disabled
// until the session is ready; a failure of any class lands in the
// banner and the widget stays in Failed until the process restarts.
func (g *gui) Load() {
	if g.state != stateIdle {
		return
	}
	g.state = stateLoading
	go func() {
		eng, err := engine.Load(config.APIKey())
		fyne.Do(func() { g.finishLoad(eng, err) })
	}()
}

func (g *gui) finishLoad(eng *engine.Engine, err error) {
	if err != nil {
		g.fail(err.Error())
		return
	}
	s, err := editors.NewSession(g.mapWidget, eng, g.registry)
	if err != nil {
		g.fail(err.Error())
		return
	}
	g.session = s
	g.state = stateReady
	g.picker.Bind(s)
	g.importItem.Disabled = false
	log.Info().Msg("widget ready")
}

func (g *gui) fail(msg string) {
	g.state = stateFailed
	g.banner.SetText(msg)
	g.banner.Show()
	log.Error().Str("reason", msg).Msg("widget failed")
}

func (g *gui) importLocations() {
	go func() {
		path, err := nativedialog.File().
			Filter("Locations file", "json").
			Title("Import Locations").
			Load()
		if err != nil {
			// Cancelled.
			return
		}
		locs, err := config.UserLocations(path)
		fyne.Do(func() {
			if err != nil {
				fynedialog.ShowError(err, g.window)
				return
			}
			g.addLocations(locs)
		})
	}()
}

func (g *gui) addLocations(locs []consts.Location) {
	if g.session == nil {
		return
	}
	merged := mergeLocations(g.registry, locs)
	added := merged[len(g.registry):]
	g.registry = merged
	for _, loc := range added {
		g.session.AddLocation(loc)
	}
	g.picker.SetOptions(g.session.Names())
}

func (g *gui) Run() {
	g.window.ShowAndRun()
}
