package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"worldmap_viewer/io/config"
)

// loader is the process-wide gate in front of the hosted engine: the
// session endpoint is hit at most once per process no matter how many
// times (or from how many goroutines) Load is called. The outcome,
// success or failure, is cached and handed to every caller.
type loader struct {
	endpoint string
	client   *http.Client

	once sync.Once
	eng  *Engine
	err  error
}

func newLoader(endpoint string, client *http.Client) *loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &loader{endpoint: endpoint, client: client}
}

var (
	defaultOnce   sync.Once
	defaultLoader *loader
)

// Load returns the live engine for this process, establishing the
// vendor session on first call. Blocking; the view calls it from a
// goroutine. An empty key is a configuration error and does not
// consume the one-shot gate.
func Load(apiKey string) (*Engine, error) {
	defaultOnce.Do(func() {
		defaultLoader = newLoader(config.Endpoint(), nil)
	})
	return defaultLoader.load(apiKey)
}

func (l *loader) load(apiKey string) (*Engine, error) {
	if apiKey == "" {
		return nil, &ConfigError{Message: msgMissingKey}
	}
	l.once.Do(func() {
		log.Debug().Str("endpoint", l.endpoint).Msg("fetching map engine session")
		l.eng, l.err = l.createSession(apiKey)
		if l.err != nil {
			log.Error().Err(l.err).Msg("map engine load failed")
		} else {
			log.Info().Msg("map engine ready")
		}
	})
	return l.eng, l.err
}

type sessionRequest struct {
	MapType  string `json:"mapType"`
	Language string `json:"language"`
	Region   string `json:"region"`
}

type sessionResponse struct {
	Session string `json:"session"`
	Expiry  string `json:"expiry"`
}

func (l *loader) createSession(apiKey string) (*Engine, error) {
	body, err := json.Marshal(sessionRequest{MapType: "roadmap", Language: "en-US", Region: "US"})
	if err != nil {
		return nil, &LoadError{Message: msgLoadFailed, Err: err}
	}
	url := fmt.Sprintf("%s/v1/createSession?key=%s", l.endpoint, apiKey)
	resp, err := l.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, &LoadError{Message: msgLoadFailed, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Message: msgLoadFailed, Err: fmt.Errorf("session endpoint returned %s", resp.Status)}
	}
	var sr sessionResponse
	if err = json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &LoadError{Message: msgLoadFailed, Err: err}
	}
	if sr.Session == "" {
		return nil, &LoadError{Message: msgLoadFailed, Err: fmt.Errorf("session endpoint returned no token")}
	}
	return newEngine(l.endpoint, apiKey, sr.Session, l.client), nil
}
