package story

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// MaxPixels caps the declared size of a background before it is decoded.
const MaxPixels = 64 << 20

// ErrImageTooLarge is returned for backgrounds declaring more than
// MaxPixels pixels.
var ErrImageTooLarge = errors.New("image too large")

// LoadImage decodes a PNG, JPEG or WEBP file. The header is checked first,
// so an oversized image is rejected without allocating its pixels.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, errors.Wrap(err, "decode image header")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.Errorf("empty %s image", format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, errors.Wrapf(ErrImageTooLarge, "%s %dx%d", format, cfg.Width, cfg.Height)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "rewind image")
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	if img.Bounds().Empty() {
		return nil, errors.Errorf("empty %s image", format)
	}
	return img, nil
}
