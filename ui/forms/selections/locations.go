package selections

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"worldmap_viewer/models/consts"
	"worldmap_viewer/ui/forms/editors"
)

// Locations binds the location dropdown to the map session: a
// selection pans the camera and bounces the matching marker. The
// dropdown stays disabled until a live session is bound.
type Locations struct {
	widget.BaseWidget
	sel      *widget.Select
	session  *editors.Session
	selected string
}

func NewLocations(registry []consts.Location) *Locations {
	l := &Locations{}
	names := make([]string, 0, len(registry))
	for _, loc := range registry {
		names = append(names, loc.Name)
	}
	l.sel = widget.NewSelect(names, l.onSelect)
	l.sel.PlaceHolder = "Select a location"
	l.sel.Disable()
	l.ExtendBaseWidget(l)
	return l
}

// Bind attaches a ready session and enables the dropdown.
func (l *Locations) Bind(s *editors.Session) {
	l.session = s
	l.sel.Enable()
}

// SetOptions replaces the dropdown entries, keeping the order given.
func (l *Locations) SetOptions(names []string) {
	l.sel.SetOptions(names)
}

// Select drives the dropdown programmatically.
func (l *Locations) Select(name string) {
	l.sel.SetSelected(name)
}

// Selected returns the last accepted selection.
func (l *Locations) Selected() string {
	return l.selected
}

// Enabled reports whether the dropdown accepts input.
func (l *Locations) Enabled() bool {
	return !l.sel.Disabled()
}

func (l *Locations) onSelect(name string) {
	if l.session == nil {
		return
	}
	if _, ok := l.session.Lookup(name); !ok {
		// The dropdown only offers registry names; anything else is
		// ignored rather than treated as an error.
		log.Debug().Str("name", name).Msg("selection not in registry")
		return
	}
	l.selected = name
	l.session.PanTo(name)
	l.session.Emphasize(name)
}

func (l *Locations) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(
		container.NewBorder(nil, nil, widget.NewLabel("Location:"), nil, l.sel))
}
