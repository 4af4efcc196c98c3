package media

import (
	"context"
	"image"
	"math"

	"image-indexer/internal/logging"
	"image-indexer/internal/metrics"
	"image-indexer/internal/workers"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// Thumbnailer turns batches of images into fixed-format RGB buffers for
// model input. A batch either succeeds for every path or fails as a whole.
type Thumbnailer struct {
	size    int
	workers int
}

// NewThumbnailer creates a Thumbnailer fitting images into a
// ThumbnailSize x ThumbnailSize box, with one worker per CPU.
func NewThumbnailer() *Thumbnailer {
	return &Thumbnailer{
		size:    ThumbnailSize,
		workers: workers.ForCPU(0),
	}
}

// ProcessBatch returns one PixelBuffer per path, in input order. The first
// failing path aborts the batch: items not yet started are skipped and the
// error is returned with no buffers.
func (t *Thumbnailer) ProcessBatch(paths []string) ([]PixelBuffer, error) {
	metrics.BatchSize.WithLabelValues("thumbnails").Observe(float64(len(paths)))

	results := make([]PixelBuffer, len(paths))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(t.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := t.ProcessSingleImage(path)
			if err != nil {
				return err
			}
			results[i] = buf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.ThumbnailBatchesTotal.WithLabelValues("aborted").Inc()
		logging.Error("Thumbnail batch of %d images aborted: %v", len(paths), err)
		return nil, err
	}

	metrics.ThumbnailBatchesTotal.WithLabelValues("success").Inc()
	logging.Debug("Thumbnail batch of %d images complete", len(paths))
	return results, nil
}

// ProcessSingleImage decodes path, fits it into the bounding box preserving
// aspect ratio, and packs it as RGB. Alpha is dropped, not composited.
func (t *Thumbnailer) ProcessSingleImage(path string) (PixelBuffer, error) {
	img, err := Decode("thumbnail", path)
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("thumbnail", "error").Inc()
		return PixelBuffer{}, err
	}

	dims := DimensionsOf(img)
	w, h := FitDimensions(dims.Width, dims.Height, t.size)
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	metrics.ImageOperationsTotal.WithLabelValues("thumbnail", "success").Inc()
	return packRGB(resized), nil
}

// FitDimensions scales width x height so that both fit in bound x bound with
// the larger side equal to bound. Smaller images are scaled up. Each side is
// at least one pixel, and a degenerate input yields 0x0.
func FitDimensions(width, height, bound int) (int, int) {
	if width <= 0 || height <= 0 || bound <= 0 {
		return 0, 0
	}

	ratio := math.Min(float64(bound)/float64(width), float64(bound)/float64(height))
	w := max(int(math.Round(float64(width)*ratio)), 1)
	h := max(int(math.Round(float64(height)*ratio)), 1)
	return w, h
}

// packRGB copies the RGB channels of img into a tightly packed buffer.
func packRGB(img *image.NRGBA) PixelBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, 0, w*h*3)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			pix = append(pix, row[x], row[x+1], row[x+2])
		}
	}

	return PixelBuffer{Width: w, Height: h, Pix: pix}
}
