package imagestats

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// BatchStatistics summarizes a set of images. Only valid images contribute
// to TotalSize and the averages. Averages are 0 when ValidFiles is 0.
type BatchStatistics struct {
	TotalFiles int
	ValidFiles int
	TotalSize  int64
	AvgWidth   int
	AvgHeight  int
}

func (s BatchStatistics) String() string {
	return fmt.Sprintf("%s of %s files valid, %s total, average %dx%d",
		humanize.Comma(int64(s.ValidFiles)),
		humanize.Comma(int64(s.TotalFiles)),
		humanize.IBytes(uint64(s.TotalSize)),
		s.AvgWidth, s.AvgHeight)
}

// Aggregator accumulates ImageMetadata into BatchStatistics. The zero value
// is ready to use. It is not safe for concurrent use.
type Aggregator struct {
	total       int
	valid       int
	size        int64
	widthTotal  uint64
	heightTotal uint64
}

// AddValid records a successfully validated image.
func (a *Aggregator) AddValid(meta ImageMetadata) {
	a.total++
	a.valid++
	a.size += meta.FileSize
	a.widthTotal += uint64(meta.Width)
	a.heightTotal += uint64(meta.Height)
}

// AddInvalid records an image that failed validation.
func (a *Aggregator) AddInvalid() {
	a.total++
}

// Statistics returns the summary so far. Averages are integer divisions.
func (a *Aggregator) Statistics() BatchStatistics {
	stats := BatchStatistics{
		TotalFiles: a.total,
		ValidFiles: a.valid,
		TotalSize:  a.size,
	}
	if a.valid > 0 {
		stats.AvgWidth = int(a.widthTotal / uint64(a.valid))
		stats.AvgHeight = int(a.heightTotal / uint64(a.valid))
	}
	return stats
}
