package main

import (
	"image"

	"github.com/theoremus-urban-solutions/fleet-tracks/config"
	"github.com/theoremus-urban-solutions/fleet-tracks/internal"
	"github.com/theoremus-urban-solutions/fleet-tracks/render"
)

// baseMap loads the map image, falling back to a plain canvas of the map
// size so a movie can still be filmed without the artwork.
func baseMap(m config.MapConfig) image.Image {
	img, err := render.LoadBaseMap(m.Image, m.Width, m.Height)
	if err == nil {
		return img
	}
	internal.Logger().Warn().Err(err).Str("map", m.Name).Str("image", m.Image).Msg("map image unavailable, using plain canvas")
	plain, err := render.LoadBaseMap("", m.Width, m.Height)
	if err != nil {
		return nil
	}
	return plain
}
