package config

import (
	"encoding/json"
	"fmt"
	"os"

	ordered "gitlab.com/c0b/go-ordered-json"

	"worldmap_viewer/models/consts"
)

// UserLocations parses an optional locations file: a JSON object of
// key -> {"name": ..., "lat": ..., "lng": ...}. The object is decoded
// with an order-preserving map so entries join the registry in the
// order the user declared them.
func UserLocations(path string) ([]consts.Location, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	om := ordered.NewOrderedMap()
	if err = om.UnmarshalJSON(b); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var out []consts.Location
	iter := om.EntriesIter()
	for {
		pair, ok := iter()
		if !ok {
			break
		}
		entry, ok := pair.Value.(*ordered.OrderedMap)
		if !ok {
			return nil, fmt.Errorf("parse %s: entry %q is not an object", path, pair.Key)
		}
		loc := consts.Location{Key: pair.Key}
		if name, ok := entry.GetValue("name"); ok {
			loc.Name, _ = name.(string)
		}
		if loc.Name == "" {
			loc.Name = pair.Key
		}
		if loc.Lat, err = numField(entry, "lat"); err != nil {
			return nil, fmt.Errorf("parse %s: entry %q: %w", path, pair.Key, err)
		}
		if loc.Lng, err = numField(entry, "lng"); err != nil {
			return nil, fmt.Errorf("parse %s: entry %q: %w", path, pair.Key, err)
		}
		out = append(out, loc)
	}
	return out, nil
}

func numField(om *ordered.OrderedMap, key string) (float64, error) {
	v, ok := om.GetValue(key)
	if !ok {
		return 0, fmt.Errorf("missing %q", key)
	}
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("%q is not a number", key)
}
