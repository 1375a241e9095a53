package main

import (
	"worldmap_viewer/io/config"
	"worldmap_viewer/io/logging"
	"worldmap_viewer/ui"
)

func main() {
	config.Load()
	logging.Setup(config.LogLevel())
	gui := ui.New()
	gui.Load()
	gui.Run()
}
