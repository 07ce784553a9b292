// Package gifcore implements the decode/encode core of an animated-image
// codec: reconstructing a GIF frame's full-canvas RGBA pixels from its
// sparse palette-indexed sub-rectangle and the previous frame's disposal
// mode, and re-indexing an RGBA raster into a seeded palette with a
// cross-frame lookup cache on the way back out.
//
// Decoder and Encoder are single-threaded, cooperative handles: a Decoder
// parses a GIF once at Open and renders frames into a caller-owned Canvas;
// an Encoder is seeded from a Decoder's metadata and accepts frames in
// ascending index order before a single terminal Flush. Neither type is
// safe for concurrent use by multiple goroutines, though distinct
// instances may be used concurrently from distinct goroutines.
package gifcore
