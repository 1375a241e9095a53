package editors

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"worldmap_viewer/engine"
	"worldmap_viewer/io/config"
	"worldmap_viewer/models/consts"
)

// Session owns the live map state: the camera, the shared popup, and
// one marker per registry entry, keyed by display name. It is created
// once after the engine loads and torn down when the view goes away.
type Session struct {
	mu       sync.Mutex
	w        *MapWidget
	registry []consts.Location
	markers  map[string]*Marker
	torn     bool
}

// NewSession initializes the map: camera on the primary location at
// the default zoom, popup closed, one marker per registry entry. Any
// panic during construction is converted to an *engine.InitError so a
// bad setup degrades to a banner message instead of a crash.
func NewSession(w *MapWidget, source TileSource, registry []consts.Location) (s *Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, engine.WrapInit(fmt.Errorf("%v", r))
		}
	}()
	if w == nil {
		return nil, engine.WrapInit(errors.New("no map widget"))
	}
	if source == nil {
		return nil, engine.WrapInit(errors.New("no map engine"))
	}
	if len(registry) == 0 {
		return nil, engine.WrapInit(errors.New("empty location registry"))
	}

	w.SetSource(source)
	primary := registry[0]
	w.SetCamera(primary.Lat, primary.Lng, config.DefaultZoom())

	s = &Session{w: w, markers: map[string]*Marker{}}
	for _, loc := range registry {
		s.addLocation(loc)
	}
	log.Info().Int("markers", len(s.markers)).Msg("map session initialized")
	return s, nil
}

func (s *Session) addLocation(loc consts.Location) {
	if _, dup := s.markers[loc.Name]; dup {
		return
	}
	s.registry = append(s.registry, loc)
	m := s.w.AddMarker(loc, func(m *Marker) {
		s.w.OpenPopup(popupContent(m.Location()), m)
	})
	s.markers[loc.Name] = m
}

// AddLocation registers an extra location on a live session, e.g. from
// a user import. Duplicate display names are ignored.
func (s *Session) AddLocation(loc consts.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.torn {
		return
	}
	s.addLocation(loc)
}

func popupContent(loc consts.Location) string {
	return fmt.Sprintf("%s\n%.4f, %.4f", loc.Name, loc.Lat, loc.Lng)
}

// Lookup finds a registry entry by display name, case-sensitive.
func (s *Session) Lookup(name string) (consts.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, loc := range s.registry {
		if loc.Name == name {
			return loc, true
		}
	}
	return consts.Location{}, false
}

// Names returns the session's display names in registry order.
func (s *Session) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.registry))
	for _, loc := range s.registry {
		out = append(out, loc.Name)
	}
	return out
}

// Marker returns the marker handle for a display name.
func (s *Session) Marker(name string) (*Marker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.markers[name]
	return m, ok
}

// MarkerCount reports the number of live markers.
func (s *Session) MarkerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}

// PanTo eases the camera to the named location and resets the zoom.
// Unknown names are a no-op; the dropdown only offers registry names.
func (s *Session) PanTo(name string) {
	loc, ok := s.Lookup(name)
	if !ok {
		return
	}
	s.w.AnimateTo(loc.Lat, loc.Lng, config.DefaultZoom(), config.PanDuration())
}

// Emphasize bounces the named location's marker; the bounce stops by
// itself. Unknown names are a no-op.
func (s *Session) Emphasize(name string) {
	m, ok := s.Marker(name)
	if !ok {
		return
	}
	m.Bounce(config.BounceDuration())
}

// Teardown closes the popup, cancels every animation, and detaches all
// markers. Safe on a nil session, and safe to call more than once.
func (s *Session) Teardown() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.torn {
		s.mu.Unlock()
		return
	}
	s.torn = true
	s.markers = map[string]*Marker{}
	s.mu.Unlock()

	if s.w != nil {
		s.w.ClosePopup()
		s.w.StopAnimations()
		s.w.ClearMarkers()
	}
	log.Info().Msg("map session torn down")
}
