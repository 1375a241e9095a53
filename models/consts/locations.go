package consts

// Location is one named point on the world map.
type Location struct {
	Key  string
	Name string
	Lat  float64
	Lng  float64
}

// Locations is the built-in registry. Order matters: it drives the
// dropdown, and the first entry is the default map center.
var Locations = []Location{
	{"tokyo", "Tokyo", 35.6762, 139.6503},
	{"london", "London", 51.5074, -0.1278},
	{"new-york", "New York", 40.7128, -74.0060},
	{"sydney", "Sydney", -33.8688, 151.2093},
}

// Primary returns the default map center.
func Primary() Location {
	return Locations[0]
}

// Names returns display names in registry order.
func Names() []string {
	out := make([]string, 0, len(Locations))
	for _, l := range Locations {
		out = append(out, l.Name)
	}
	return out
}

// ByName looks up a location by its display name, case-sensitive.
func ByName(name string) (Location, bool) {
	for _, l := range Locations {
		if l.Name == name {
			return l, true
		}
	}
	return Location{}, false
}

// ByKey looks up a location by its registry key.
func ByKey(key string) (Location, bool) {
	for _, l := range Locations {
		if l.Key == key {
			return l, true
		}
	}
	return Location{}, false
}
