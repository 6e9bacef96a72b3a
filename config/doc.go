// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Missing sections fall back to the defaults in defaults.go, which include
// the two stock map calibrations. Builders turn validated sections into the
// domain values used at runtime: projections, palettes and movie timings.
package config
