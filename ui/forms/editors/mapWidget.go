package editors

import (
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"worldmap_viewer/engine"
	"worldmap_viewer/models/consts"
)

const (
	markerSize      = 12
	markerHitRadius = 14
	bounceHeight    = 16
	dropHeight      = 40
	dropDuration    = 400 * time.Millisecond
	popupWidth      = 200
	popupHeight     = 56
)

// TileSource supplies raster tiles for the camera. *engine.Engine
// satisfies it; tests substitute a fake.
type TileSource interface {
	CachedTile(z, x, y int) (image.Image, bool)
	GetTile(z, x, y int) (image.Image, error)
}

type tileRef struct {
	z, x, y int
}

// MapWidget renders the world for a camera (center lat/lng + zoom),
// the location markers, and the single shared popup. It owns no
// location semantics; the Session drives it.
type MapWidget struct {
	widget.BaseWidget

	source TileSource

	centerLat float64
	centerLng float64
	zoom      int

	markers []*Marker

	popupOpen    bool
	popupContent string
	popupAnchor  *Marker

	camAnim *fyne.Animation

	pending map[tileRef]bool
	failed  map[tileRef]bool

	minSize fyne.Size
}

func NewMapWidget() *MapWidget {
	w := &MapWidget{
		zoom:    1,
		pending: map[tileRef]bool{},
		failed:  map[tileRef]bool{},
		minSize: fyne.NewSize(1, 1),
	}
	w.ExtendBaseWidget(w)
	return w
}

func (w *MapWidget) SetSource(source TileSource) {
	w.source = source
	w.Refresh()
}

func (w *MapWidget) MinSize() fyne.Size {
	return w.minSize
}

func (w *MapWidget) SetMinSize(size fyne.Size) {
	w.minSize = size
	w.Refresh()
}

// SetCamera moves the camera without animation.
func (w *MapWidget) SetCamera(lat, lng float64, zoom int) {
	w.stopCameraAnimation()
	w.centerLat, w.centerLng = lat, lng
	w.zoom = zoom
	w.Refresh()
}

func (w *MapWidget) Center() (lat, lng float64) {
	return w.centerLat, w.centerLng
}

func (w *MapWidget) Zoom() int {
	return w.zoom
}

// AnimateTo eases the camera center to the target over d. Zoom snaps
// at the start so the tile fetches for the destination begin
// immediately. A non-positive d moves the camera at once.
func (w *MapWidget) AnimateTo(lat, lng float64, zoom int, d time.Duration) {
	if d <= 0 {
		w.SetCamera(lat, lng, zoom)
		return
	}
	w.stopCameraAnimation()
	w.zoom = zoom
	startLat, startLng := w.centerLat, w.centerLng
	anim := fyne.NewAnimation(d, func(p float32) {
		t := easeOutCubic(float64(p))
		w.centerLat = startLat + (lat-startLat)*t
		w.centerLng = startLng + (lng-startLng)*t
		w.Refresh()
	})
	w.camAnim = anim
	anim.Start()
}

func (w *MapWidget) stopCameraAnimation() {
	if w.camAnim != nil {
		w.camAnim.Stop()
		w.camAnim = nil
	}
}

// easeOutCubic decelerates toward the end of the animation.
func easeOutCubic(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return 1 - math.Pow(1-t, 3)
}

// AddMarker places a marker for loc and starts its entrance drop. The
// click handler receives the marker itself, so each handler is bound
// to exactly one location.
func (w *MapWidget) AddMarker(loc consts.Location, onClick func(*Marker)) *Marker {
	m := &Marker{w: w, loc: loc, title: loc.Name, onClick: onClick}
	w.markers = append(w.markers, m)
	m.drop()
	w.Refresh()
	return m
}

// ClearMarkers stops every marker animation and detaches all markers.
func (w *MapWidget) ClearMarkers() {
	for _, m := range w.markers {
		m.stopAnimations()
		m.onClick = nil
	}
	w.markers = nil
	w.Refresh()
}

// StopAnimations halts the camera and every marker mid-flight.
func (w *MapWidget) StopAnimations() {
	w.stopCameraAnimation()
	for _, m := range w.markers {
		m.stopAnimations()
	}
}

// OpenPopup shows the shared popup anchored to m. There is only ever
// one popup: opening it for another marker moves and refills it.
func (w *MapWidget) OpenPopup(content string, m *Marker) {
	w.popupOpen = true
	w.popupContent = content
	w.popupAnchor = m
	w.Refresh()
}

func (w *MapWidget) ClosePopup() {
	w.popupOpen = false
	w.popupContent = ""
	w.popupAnchor = nil
	w.Refresh()
}

func (w *MapWidget) PopupOpen() bool {
	return w.popupOpen
}

func (w *MapWidget) PopupContent() string {
	return w.popupContent
}

// Tapped hit-tests the markers, topmost first.
func (w *MapWidget) Tapped(ev *fyne.PointEvent) {
	for i := len(w.markers) - 1; i >= 0; i-- {
		m := w.markers[i]
		pos := w.markerScreenPos(m, w.Size())
		dx := float64(ev.Position.X - pos.X)
		dy := float64(ev.Position.Y - pos.Y)
		if dx*dx+dy*dy <= markerHitRadius*markerHitRadius {
			if m.onClick != nil {
				m.onClick(m)
			}
			return
		}
	}
}

// markerScreenPos converts a marker's coordinates to widget space for
// the current camera, including any animation offset.
func (w *MapWidget) markerScreenPos(m *Marker, size fyne.Size) fyne.Position {
	cx, cy := engine.Project(w.centerLat, w.centerLng, w.zoom)
	mx, my := engine.Project(m.loc.Lat, m.loc.Lng, w.zoom)
	x := float32(mx-cx) + size.Width/2
	y := float32(my-cy) + size.Height/2 - m.offset()
	return fyne.NewPos(x, y)
}

func (w *MapWidget) requestTile(z, x, y int) {
	k := tileRef{z, x, y}
	if w.source == nil || w.pending[k] || w.failed[k] {
		return
	}
	w.pending[k] = true
	go func() {
		_, err := w.source.GetTile(z, x, y)
		fyne.Do(func() {
			delete(w.pending, k)
			if err != nil {
				w.failed[k] = true
				log.Warn().Err(err).Msg("tile fetch failed")
				return
			}
			w.Refresh()
		})
	}()
}

func (w *MapWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.NRGBA{R: 222, G: 235, B: 247, A: 255})
	return &mapWidgetRenderer{w: w, bg: bg, objects: []fyne.CanvasObject{bg}}
}

type mapWidgetRenderer struct {
	w       *MapWidget
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *mapWidgetRenderer) Layout(size fyne.Size) {
	r.rebuild(size)
}

func (r *mapWidgetRenderer) MinSize() fyne.Size {
	return r.w.MinSize()
}

func (r *mapWidgetRenderer) Refresh() {
	r.rebuild(r.w.Size())
	canvas.Refresh(r.w)
}

func (r *mapWidgetRenderer) Destroy() {}

func (r *mapWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *mapWidgetRenderer) rebuild(size fyne.Size) {
	r.bg.Resize(size)
	objects := []fyne.CanvasObject{r.bg}
	if size.Width > 0 && size.Height > 0 {
		objects = append(objects, r.tileObjects(size)...)
		objects = append(objects, r.markerObjects(size)...)
		objects = append(objects, r.popupObjects(size)...)
	}
	r.objects = objects
}

// tileObjects lays out the visible tile grid for the camera, drawing
// cached tiles and requesting the rest.
func (r *mapWidgetRenderer) tileObjects(size fyne.Size) []fyne.CanvasObject {
	w := r.w
	if w.source == nil {
		return nil
	}
	cx, cy := engine.Project(w.centerLat, w.centerLng, w.zoom)
	topLeftX := cx - float64(size.Width)/2
	topLeftY := cy - float64(size.Height)/2

	tx0 := int(math.Floor(topLeftX / engine.TileSize))
	ty0 := int(math.Floor(topLeftY / engine.TileSize))
	tx1 := int(math.Floor((topLeftX + float64(size.Width)) / engine.TileSize))
	ty1 := int(math.Floor((topLeftY + float64(size.Height)) / engine.TileSize))

	maxTile := 1 << uint(w.zoom)
	var out []fyne.CanvasObject
	for ty := ty0; ty <= ty1; ty++ {
		if ty < 0 || ty >= maxTile {
			continue
		}
		for tx := tx0; tx <= tx1; tx++ {
			// The world wraps horizontally.
			wx := ((tx % maxTile) + maxTile) % maxTile
			img, ok := w.source.CachedTile(w.zoom, wx, ty)
			if !ok {
				w.requestTile(w.zoom, wx, ty)
				continue
			}
			tile := canvas.NewImageFromImage(img)
			tile.FillMode = canvas.ImageFillStretch
			tile.Move(fyne.NewPos(
				float32(float64(tx*engine.TileSize)-topLeftX),
				float32(float64(ty*engine.TileSize)-topLeftY),
			))
			tile.Resize(fyne.NewSize(engine.TileSize, engine.TileSize))
			out = append(out, tile)
		}
	}
	return out
}

func (r *mapWidgetRenderer) markerObjects(size fyne.Size) []fyne.CanvasObject {
	w := r.w
	var out []fyne.CanvasObject
	for _, m := range w.markers {
		pos := w.markerScreenPos(m, size)
		circle := canvas.NewCircle(color.NRGBA{R: 219, G: 68, B: 55, A: 255})
		circle.StrokeColor = color.NRGBA{R: 130, G: 20, B: 10, A: 255}
		circle.StrokeWidth = 2
		circle.Resize(fyne.NewSize(markerSize, markerSize))
		circle.Move(fyne.NewPos(pos.X-markerSize/2, pos.Y-markerSize/2))
		out = append(out, circle)
	}
	return out
}

func (r *mapWidgetRenderer) popupObjects(size fyne.Size) []fyne.CanvasObject {
	w := r.w
	if !w.popupOpen || w.popupAnchor == nil {
		return nil
	}
	anchor := w.markerScreenPos(w.popupAnchor, size)
	box := canvas.NewRectangle(color.NRGBA{R: 255, G: 255, B: 255, A: 235})
	box.StrokeColor = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
	box.StrokeWidth = 1
	box.CornerRadius = 4
	box.Resize(fyne.NewSize(popupWidth, popupHeight))
	box.Move(fyne.NewPos(anchor.X-popupWidth/2, anchor.Y-popupHeight-markerSize))

	label := widget.NewLabel(w.popupContent)
	label.Resize(fyne.NewSize(popupWidth, popupHeight))
	label.Move(fyne.NewPos(anchor.X-popupWidth/2, anchor.Y-popupHeight-markerSize))
	return []fyne.CanvasObject{box, label}
}

// Marker is one pin on the map, bound to a single location.
type Marker struct {
	w       *MapWidget
	loc     consts.Location
	title   string
	onClick func(*Marker)

	mu          sync.Mutex
	bouncing    bool
	animOffset  float32
	anim        *fyne.Animation
	bounceTimer *time.Timer
}

func (m *Marker) Location() consts.Location {
	return m.loc
}

func (m *Marker) Title() string {
	return m.title
}

// Bouncing reports whether the bounce animation is running.
func (m *Marker) Bouncing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bouncing
}

func (m *Marker) offset() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.animOffset
}

// drop plays the entrance animation: the pin falls onto its position.
func (m *Marker) drop() {
	m.startAnim(fyne.NewAnimation(dropDuration, func(p float32) {
		t := easeOutCubic(float64(p))
		m.setOffset(float32((1 - t) * dropHeight))
		m.w.Refresh()
	}))
}

// Bounce starts the emphasis animation and arms a timer that ends it
// after d. The timer handle stays on the marker so teardown can cancel
// it; the callback itself only touches guarded state, so it is
// harmless if it fires after the marker was detached.
func (m *Marker) Bounce(d time.Duration) {
	m.mu.Lock()
	m.bouncing = true
	if m.bounceTimer != nil {
		m.bounceTimer.Stop()
	}
	m.mu.Unlock()

	m.startAnim(fyne.NewAnimation(d, func(p float32) {
		m.setOffset(float32(bounceHeight * math.Abs(math.Sin(float64(p)*3*math.Pi))))
		if p >= 1 {
			m.setOffset(0)
		}
		m.w.Refresh()
	}))

	timer := time.AfterFunc(d, func() {
		m.mu.Lock()
		m.bouncing = false
		m.animOffset = 0
		m.mu.Unlock()
		fyne.Do(m.w.Refresh)
	})
	m.mu.Lock()
	m.bounceTimer = timer
	m.mu.Unlock()
}

func (m *Marker) setOffset(v float32) {
	m.mu.Lock()
	m.animOffset = v
	m.mu.Unlock()
}

func (m *Marker) startAnim(a *fyne.Animation) {
	m.mu.Lock()
	if m.anim != nil {
		m.anim.Stop()
	}
	m.anim = a
	m.mu.Unlock()
	a.Start()
}

func (m *Marker) stopAnimations() {
	m.mu.Lock()
	if m.anim != nil {
		m.anim.Stop()
		m.anim = nil
	}
	if m.bounceTimer != nil {
		m.bounceTimer.Stop()
		m.bounceTimer = nil
	}
	m.bouncing = false
	m.animOffset = 0
	m.mu.Unlock()
}
