package imagestats

import (
	"image"

	"image-indexer/internal/filesystem"
	"image-indexer/internal/indexerr"
	"image-indexer/internal/logging"
	"image-indexer/internal/media"
	"image-indexer/internal/metrics"
	"image-indexer/internal/workers"

	"github.com/disintegration/imaging"
)

// ImageMetadata describes one successfully validated image.
type ImageMetadata struct {
	Path     string
	Width    int
	Height   int
	FileSize int64
	Format   string
}

// Engine computes image statistics. It holds no per-call state and is safe
// for concurrent use.
type Engine struct {
	workers int
}

// New creates an Engine whose batch calls use one worker per CPU.
func New() *Engine {
	return &Engine{workers: workers.ForCPU(0)}
}

// CalculateAverage returns the floor of the mean grayscale intensity of the
// image at path, in [0,255]. A zero-pixel image yields 0.
func (e *Engine) CalculateAverage(path string) (int, error) {
	img, err := media.Decode("average", path)
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("average", "error").Inc()
		return 0, err
	}

	metrics.ImageOperationsTotal.WithLabelValues("average", "success").Inc()
	return grayAverage(img), nil
}

// CalculateAverages computes the average of every path in parallel. The
// result always has len(paths) entries and result[i] belongs to paths[i].
// Unreadable or undecodable images yield 0 and never fail the batch.
func (e *Engine) CalculateAverages(paths []string) []int {
	metrics.BatchSize.WithLabelValues("averages").Observe(float64(len(paths)))

	return workers.Map(paths, e.workers, func(_ int, path string) int {
		return e.averageOrZero(path)
	})
}

// averageOrZero is the per-item step of CalculateAverages: any error becomes
// the sentinel 0.
func (e *Engine) averageOrZero(path string) int {
	avg, err := e.CalculateAverage(path)
	if err != nil {
		logging.Debug("Average of %s recorded as 0: %v", path, err)
		return 0
	}
	return avg
}

// GetDimensions decodes the image at path and returns its width and height.
func (e *Engine) GetDimensions(path string) (int, int, error) {
	img, err := media.Decode("dimensions", path)
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("dimensions", "error").Inc()
		return 0, 0, err
	}

	metrics.ImageOperationsTotal.WithLabelValues("dimensions", "success").Inc()
	dims := media.DimensionsOf(img)
	return dims.Width, dims.Height, nil
}

// ValidateImage checks that path exists and decodes. A path that cannot be
// stat'ed fails with KindInvalidPath; a file that does not decode fails with
// the decode error. The existence check is best effort: the file may change
// between the stat and the decode.
func (e *Engine) ValidateImage(path string) (ImageMetadata, error) {
	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("validate", "error").Inc()
		return ImageMetadata{}, indexerr.Wrap(indexerr.KindInvalidPath, "validate", path, err)
	}

	decoded, err := media.DecodeWithFormat("validate", path)
	if err != nil {
		metrics.ImageOperationsTotal.WithLabelValues("validate", "error").Inc()
		return ImageMetadata{}, err
	}

	metrics.ImageOperationsTotal.WithLabelValues("validate", "success").Inc()
	dims := media.DimensionsOf(decoded.Image)
	return ImageMetadata{
		Path:     path,
		Width:    dims.Width,
		Height:   dims.Height,
		FileSize: info.Size(),
		Format:   decoded.Format,
	}, nil
}

// BatchStatistics validates every path in order and summarizes the results.
func (e *Engine) BatchStatistics(paths []string) BatchStatistics {
	metrics.BatchSize.WithLabelValues("statistics").Observe(float64(len(paths)))

	var agg Aggregator
	for _, path := range paths {
		meta, err := e.ValidateImage(path)
		if err != nil {
			logging.Debug("Skipping %s in statistics: %v", path, err)
			agg.AddInvalid()
			continue
		}
		agg.AddValid(meta)
	}

	stats := agg.Statistics()
	metrics.RecordCorpus(stats.TotalFiles, stats.ValidFiles, stats.TotalSize, stats.AvgWidth, stats.AvgHeight)
	return stats
}

// Rec.709 luma weights scaled by lumaDiv. A pixel's luminance is the
// truncated weighted sum, so equal channels map to themselves.
const (
	lumaR   = 2126
	lumaG   = 7152
	lumaB   = 722
	lumaDiv = 10000
)

// grayAverage reduces img to 8-bit luminance and returns the floored mean.
// Alpha is ignored.
func grayAverage(img image.Image) int {
	src := imaging.Clone(img)

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	var sum uint64
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			sum += luma(row[x], row[x+1], row[x+2])
		}
	}

	return int(sum / uint64(w*h))
}

func luma(r, g, b uint8) uint64 {
	return (lumaR*uint64(r) + lumaG*uint64(g) + lumaB*uint64(b)) / lumaDiv
}
