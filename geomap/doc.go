// Package geomap calibrates a map image against geographic coordinates.
//
// A Projection is built from two known pivots, each pairing a latitude and
// longitude with the pixel it lands on in the map image. The image is assumed
// to be a (possibly cropped or rescaled) Web-Mercator raster, so the two
// pivots are enough to recover the linear scale and offset on both axes.
//
// Example:
//
//	dublin := geomap.GeoPivot{Lat: 53.3244431, Lon: -6.385786, X: 182, Y: 353}
//	istanbul := geomap.GeoPivot{Lat: 41.0055005, Lon: 28.7319977, X: 1065, Y: 812}
//	proj, err := geomap.Calibrate(dublin, istanbul, 1122, 976)
//	if err != nil {
//	    // the pivots share a projected axis
//	}
//	x, y := proj.GeoToCanvas(48.8566, 2.3522)
//
// Thread safety: a Projection is immutable and safe for concurrent use.
package geomap
