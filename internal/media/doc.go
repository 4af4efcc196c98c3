// Package media decodes images and produces model-ready thumbnails.
//
// Decode is the single entry point for reading image files. It retries
// ESTALE opens, records decode latency, and classifies failures as
// indexerr.KindIO (open) or indexerr.KindCodec (decode). JPEG, PNG, GIF,
// BMP, TIFF and WebP are registered.
//
// Thumbnailer.ProcessBatch fits every image into a 224x224 box (no cropping,
// smaller images are scaled up) and returns packed RGB buffers in input
// order. It is fail-fast: one unreadable image fails the whole batch. Use
// imagestats.Engine.CalculateAverages when per-item failures must be
// tolerated.
package media
