// Package fleettracks renders time-windowed vehicle tracks on calibrated
// maps.
//
// MovieOperator loads a time range from a record source, colorizes the
// tracks and renders one PNG frame per frame instant, then joins the frames
// into a video. PageDataSource serves the same tracks to web clients as the
// delta-encoded text payload, backed by a payload cache. Server exposes it
// over HTTP together with health and Prometheus metrics.
package fleettracks
