// cover.go - Cover-fit scaling and background preparation.
package story

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// CoverFit crops the centre of src to the w:h aspect ratio and scales the
// crop to exactly w×h. The result has no empty borders, and the work is
// bounded by the source and target sizes whatever the source shape.
func CoverFit(src image.Image, w, h int) *image.NRGBA {
	cw, ch := coverCrop(src.Bounds().Dx(), src.Bounds().Dy(), w, h)
	cropped := imaging.CropCenter(src, cw, ch)

	scaled := resize.Resize(uint(w), uint(h), cropped, resize.Lanczos3)
	if out, ok := scaled.(*image.NRGBA); ok && out.Bounds() == image.Rect(0, 0, w, h) {
		return out
	}
	return imaging.Clone(scaled)
}

// coverCrop returns the largest centred region of an sw×sh source with the
// w:h aspect ratio, at least one pixel on each side.
func coverCrop(sw, sh, w, h int) (int, int) {
	srcRatio := float64(sw) / float64(sh)
	targetRatio := float64(w) / float64(h)

	cw, ch := sw, sh
	if srcRatio > targetRatio {
		// Wider than the target: keep the height, trim the sides.
		cw = int(math.Round(float64(sh) * targetRatio))
	} else {
		ch = int(math.Round(float64(sw) / targetRatio))
	}
	return min(max(cw, 1), sw), min(max(ch, 1), sh)
}

// Backdrop cover-fits src to w×h and blurs it with a Gaussian of sigma.
func Backdrop(src image.Image, w, h int, sigma float64) *image.NRGBA {
	fitted := CoverFit(src, w, h)
	if sigma <= 0 {
		return fitted
	}
	return imaging.Blur(fitted, sigma)
}
