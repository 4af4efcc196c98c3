package indexer

import (
	"fmt"
	"os"
	"path/filepath"

	"image-indexer/internal/indexerr"
	"image-indexer/internal/logging"
)

// thumbnailChunk bounds how many decoded thumbnails are held in memory at once.
const thumbnailChunk = 256

// ExportThumbnails renders paths as 224x224-bounded RGB buffers and writes
// each one to dir as <index>_<width>x<height>.rgb, where index is the
// position in paths. Work proceeds in chunks; the first failing image stops
// the export and its chunk writes nothing. It returns the number of files
// written.
func (idx *Indexer) ExportThumbnails(paths []string, dir string) (int, error) {
	written := 0

	for start := 0; start < len(paths); start += thumbnailChunk {
		end := min(start+thumbnailChunk, len(paths))

		buffers, err := idx.thumbnailer.ProcessBatch(paths[start:end])
		if err != nil {
			return written, err
		}

		for i, buf := range buffers {
			name := fmt.Sprintf("%d_%dx%d.rgb", start+i, buf.Width, buf.Height)
			out := filepath.Join(dir, name)
			if err := os.WriteFile(out, buf.Pix, 0o644); err != nil {
				return written, indexerr.Wrap(indexerr.KindIO, "export_thumbnail", out, err)
			}
			written++
		}

		logging.Info("Thumbnail export progress: %d/%d images", end, len(paths))
	}

	return written, nil
}
