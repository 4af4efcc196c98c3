package media

// ThumbnailSize is the edge of the square bounding box thumbnails fit into.
const ThumbnailSize = 224

// PixelBuffer is a packed, row-major RGB image: Pix holds Width*Height*3
// bytes with no padding between rows. Dimensions vary per image because
// thumbnails are fitted, never cropped.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}
