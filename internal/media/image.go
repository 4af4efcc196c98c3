package media

import (
	"bufio"
	"bytes"
	"image"
	"time"

	"image-indexer/internal/filesystem"
	"image-indexer/internal/indexerr"
	"image-indexer/internal/logging"
	"image-indexer/internal/metrics"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode opens and fully decodes the image at path. op labels metrics and
// errors. Open failures are KindIO, decode failures KindCodec. The file is
// closed before Decode returns. EXIF orientation is not applied, so the
// reported dimensions are the stored ones.
func Decode(op, path string) (image.Image, error) {
	img, _, err := decode(op, path)
	return img, err
}

// Decoded is a decoded image and its channel layout label.
type Decoded struct {
	Image  image.Image
	Format string
}

// DecodeWithFormat is Decode plus a channel layout label that also accounts
// for what the source file declared (see SourceColorFormat).
func DecodeWithFormat(op, path string) (Decoded, error) {
	img, hdr, err := decode(op, path)
	if err != nil {
		return Decoded{}, err
	}
	return Decoded{Image: img, Format: hdr.colorFormat(img)}, nil
}

func decode(op, path string) (image.Image, sourceHeader, error) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, sourceHeader{}, indexerr.Wrap(indexerr.KindIO, op, path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	r := bufio.NewReader(file)
	hdr := sniffHeader(r)

	start := time.Now()
	img, err := imaging.Decode(r)
	metrics.ImageDecodeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, hdr, indexerr.Wrap(indexerr.KindCodec, op, path, err)
	}

	return img, hdr, nil
}

var (
	gifMagic     = []byte("GIF8")
	pngSignature = []byte("\x89PNG\r\n\x1a\n")
)

// PNG color types 0 (gray) and 4 (gray+alpha).
const (
	pngColorGray      = 0
	pngColorGrayAlpha = 4
)

// sourceHeader keeps the facts about a file that its decoded color model
// loses: Go decodes gray+alpha PNGs to NRGBA, and GIF frames always carry
// an alpha channel.
type sourceHeader struct {
	gif     bool
	pngGray bool
}

// sniffHeader peeks at the first bytes of r without consuming them.
func sniffHeader(r *bufio.Reader) sourceHeader {
	b, _ := r.Peek(26)

	var h sourceHeader
	switch {
	case bytes.HasPrefix(b, gifMagic):
		h.gif = true
	case len(b) == 26 && bytes.HasPrefix(b, pngSignature) && string(b[12:16]) == "IHDR":
		h.pngGray = b[25] == pngColorGray || b[25] == pngColorGrayAlpha
	}
	return h
}

func (h sourceHeader) colorFormat(img image.Image) string {
	return SourceColorFormat(img, h.gif, h.pngGray)
}

// SourceColorFormat refines ColorFormat with what the source declared. GIFs
// are always Rgba8. A grayscale PNG that decoded with an alpha channel is
// La8 or La16.
func SourceColorFormat(img image.Image, gif, grayPNG bool) string {
	if gif {
		return "Rgba8"
	}
	if grayPNG {
		switch img.(type) {
		case *image.NRGBA:
			return "La8"
		case *image.NRGBA64:
			return "La16"
		}
	}
	return ColorFormat(img)
}

// ImageDimensions holds image width and height
type ImageDimensions struct {
	Width  int
	Height int
}

// DimensionsOf returns the size of an already decoded image.
func DimensionsOf(img image.Image) ImageDimensions {
	b := img.Bounds()
	return ImageDimensions{Width: b.Dx(), Height: b.Dy()}
}

// ColorFormat names the channel layout of a decoded image: L8, L16, Rgb8,
// Rgba8, Rgb16 or Rgba16. It sees only the Go color model, so it cannot
// report La8/La16; use DecodeWithFormat for files. Non-premultiplied models always carry an alpha
// channel. Premultiplied and paletted images report alpha only when some
// pixel is not fully opaque, since decoders use them for alpha-less sources.
func ColorFormat(img image.Image) string {
	switch m := img.(type) {
	case *image.Gray:
		return "L8"
	case *image.Gray16:
		return "L16"
	case *image.YCbCr, *image.CMYK:
		return "Rgb8"
	case *image.RGBA:
		if m.Opaque() {
			return "Rgb8"
		}
		return "Rgba8"
	case *image.NRGBA, *image.NYCbCrA:
		return "Rgba8"
	case *image.Paletted:
		if m.Opaque() {
			return "Rgb8"
		}
		return "Rgba8"
	case *image.RGBA64:
		if m.Opaque() {
			return "Rgb16"
		}
		return "Rgba16"
	case *image.NRGBA64:
		return "Rgba16"
	default:
		return "Unknown"
	}
}
