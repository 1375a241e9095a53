package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const apiKeyEnv = "GOOGLE_MAPS_API_KEY"

// Load reads .env.local/.env and the optional settings file, and seeds
// defaults for everything else. Missing files are not errors.
func Load() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	viper.SetDefault("logLevel", "info")

	viper.SetDefault("window.width", 1000)
	viper.SetDefault("window.height", 700)

	viper.SetDefault("map.zoom", 12)
	viper.SetDefault("map.panMs", 600)
	viper.SetDefault("map.bounceMs", 1500)

	viper.SetDefault("engine.endpoint", "https://tile.googleapis.com")
	viper.SetDefault("engine.cacheTiles", 256)

	viper.SetDefault("locations.file", "locations.json")

	viper.SetConfigName("worldmap_viewer.cfg")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig()
}

// APIKey returns the map engine API key, empty when unconfigured.
func APIKey() string {
	return os.Getenv(apiKeyEnv)
}

func LogLevel() string {
	return viper.GetString("logLevel")
}

func WindowSize() (float32, float32) {
	return float32(viper.GetInt("window.width")), float32(viper.GetInt("window.height"))
}

// DefaultZoom is the zoom level used for the initial view and after
// every pan.
func DefaultZoom() int {
	return viper.GetInt("map.zoom")
}

func PanDuration() time.Duration {
	return time.Duration(viper.GetInt("map.panMs")) * time.Millisecond
}

func BounceDuration() time.Duration {
	return time.Duration(viper.GetInt("map.bounceMs")) * time.Millisecond
}

func Endpoint() string {
	return viper.GetString("engine.endpoint")
}

func CacheTiles() int {
	return viper.GetInt("engine.cacheTiles")
}

// LocationsFile is the optional user locations file merged into the
// registry at startup.
func LocationsFile() string {
	return viper.GetString("locations.file")
}
