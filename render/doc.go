// Package render composes movie frames and turns them into a video.
//
// For every frame instant the FrameRenderer draws each visible track on an
// overlay copy of the base map: tail polylines, then body polylines, then a
// head circle at the latest body point. The overlay is alpha-blended onto the
// base map and the timer label is drawn on top. Frames are written as
// frame_%04d.png into a per-run directory, which VideoEncoder hands to ffmpeg.
package render
