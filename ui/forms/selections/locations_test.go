package selections

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldmap_viewer/engine"
	"worldmap_viewer/io/config"
	"worldmap_viewer/models/consts"
	"worldmap_viewer/ui/forms/editors"
)

type fakeSource struct{}

func (fakeSource) CachedTile(z, x, y int) (image.Image, bool) {
	return image.NewRGBA(image.Rect(0, 0, engine.TileSize, engine.TileSize)), true
}

func (fakeSource) GetTile(z, x, y int) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, engine.TileSize, engine.TileSize)), nil
}

func newTestPicker(t *testing.T) (*Locations, *editors.Session, *editors.MapWidget) {
	t.Helper()
	test.NewApp()
	config.Load()
	viper.Set("map.panMs", 0)
	t.Cleanup(func() { viper.Set("map.panMs", 600) })

	w := editors.NewMapWidget()
	win := test.NewWindow(w)
	t.Cleanup(win.Close)
	win.Resize(fyne.NewSize(800, 600))

	s, err := editors.NewSession(w, fakeSource{}, consts.Locations)
	require.NoError(t, err)
	t.Cleanup(s.Teardown)

	return NewLocations(consts.Locations), s, w
}

func TestPickerDisabledUntilBound(t *testing.T) {
	l, s, _ := newTestPicker(t)
	assert.False(t, l.Enabled())

	// Selections before the session is ready go nowhere.
	l.onSelect("Tokyo")
	assert.Empty(t, l.Selected())

	l.Bind(s)
	assert.True(t, l.Enabled())
}

func TestPickerOffersRegistryOrder(t *testing.T) {
	l, _, _ := newTestPicker(t)
	assert.Equal(t, consts.Names(), l.sel.Options)
	assert.Equal(t, "Select a location", l.sel.PlaceHolder)
}

func TestSelectPansAndBounces(t *testing.T) {
	l, s, w := newTestPicker(t)
	l.Bind(s)

	l.Select("Tokyo")

	assert.Equal(t, "Tokyo", l.Selected())
	lat, lng := w.Center()
	assert.InDelta(t, 35.6762, lat, 1e-9)
	assert.InDelta(t, 139.6503, lng, 1e-9)
	assert.Equal(t, 12, w.Zoom())

	tokyo, ok := s.Marker("Tokyo")
	require.True(t, ok)
	assert.True(t, tokyo.Bouncing())

	for _, name := range []string{"London", "New York", "Sydney"} {
		m, _ := s.Marker(name)
		assert.False(t, m.Bouncing(), name)
	}
}

func TestSelectUnknownNameIsNoOp(t *testing.T) {
	l, s, w := newTestPicker(t)
	l.Bind(s)
	l.Select("Tokyo")

	lat, lng := w.Center()
	l.onSelect("Atlantis")

	assert.Equal(t, "Tokyo", l.Selected())
	lat2, lng2 := w.Center()
	assert.Equal(t, lat, lat2)
	assert.Equal(t, lng, lng2)
}

func TestSetOptionsAfterImport(t *testing.T) {
	l, s, _ := newTestPicker(t)
	l.Bind(s)

	s.AddLocation(consts.Location{Key: "oslo", Name: "Oslo", Lat: 59.9139, Lng: 10.7522})
	l.SetOptions(s.Names())

	assert.Equal(t, append(consts.Names(), "Oslo"), l.sel.Options)
}
