package engine

import (
	"fmt"
	"image"
	"net/http"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"

	"worldmap_viewer/io/config"
)

// TileSize is the edge length in pixels of one raster tile.
const TileSize = 256

type tileKey struct {
	Z, X, Y int
}

// Engine is a live session against the hosted map engine. It fetches
// raster tiles for the session token and keeps a bounded in-memory
// cache of decoded tiles.
type Engine struct {
	endpoint string
	apiKey   string
	session  string
	client   *http.Client

	mu       sync.Mutex
	tiles    map[tileKey]image.Image
	order    []tileKey
	maxTiles int
}

func newEngine(endpoint, apiKey, session string, client *http.Client) *Engine {
	max := config.CacheTiles()
	if max <= 0 {
		max = 256
	}
	return &Engine{
		endpoint: endpoint,
		apiKey:   apiKey,
		session:  session,
		client:   client,
		tiles:    map[tileKey]image.Image{},
		maxTiles: max,
	}
}

// SessionToken returns the vendor session token.
func (e *Engine) SessionToken() string {
	return e.session
}

// CachedTile returns a tile already in the cache without touching the
// network.
func (e *Engine) CachedTile(z, x, y int) (image.Image, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	img, ok := e.tiles[tileKey{z, x, y}]
	return img, ok
}

// GetTile returns the tile at z/x/y, fetching and caching it if
// needed. Safe for concurrent use.
func (e *Engine) GetTile(z, x, y int) (image.Image, error) {
	if img, ok := e.CachedTile(z, x, y); ok {
		return img, nil
	}
	url := fmt.Sprintf("%s/v1/2dtiles/%d/%d/%d?session=%s&key=%s", e.endpoint, z, x, y, e.session, e.apiKey)
	resp, err := e.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch tile %d/%d/%d: %w", z, x, y, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch tile %d/%d/%d: %s", z, x, y, resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode tile %d/%d/%d: %w", z, x, y, err)
	}
	e.store(tileKey{z, x, y}, img)
	log.Debug().Int("z", z).Int("x", x).Int("y", y).Msg("tile cached")
	return img, nil
}

func (e *Engine) store(k tileKey, img image.Image) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.tiles[k]; ok {
		return
	}
	for len(e.order) >= e.maxTiles {
		oldest := e.order[0]
		e.order = e.order[1:]
		delete(e.tiles, oldest)
	}
	e.tiles[k] = img
	e.order = append(e.order, k)
}
