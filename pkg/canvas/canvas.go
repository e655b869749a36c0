// Package canvas provides the raster primitives the presets are built from:
// transparent surface allocation, drop-shadow synthesis and source-over
// compositing of positioned layers.
package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Shadow defaults used by the studio presets
const (
	DefaultShadowOpacity = 0.15
	DefaultShadowBlur    = 25.0
)

// Layer places an image on a canvas with its top-left corner at (X, Y)
type Layer struct {
	Image image.Image
	X     int
	Y     int
}

// At is shorthand for a Layer at rounded float coordinates
func At(img image.Image, x, y float64) Layer {
	return Layer{Image: img, X: Round(x), Y: Round(y)}
}

// Allocate returns a fully transparent surface of exactly width x height pixels
func Allocate(width, height int) *image.NRGBA {
	return imaging.New(width, height, color.NRGBA{})
}

// Composite paints layers onto base in order with source-over blending.
// Later layers cover earlier ones. Pixels falling outside base are clipped.
// The base image is left untouched; a new image is returned.
func Composite(base image.Image, layers ...Layer) *image.NRGBA {
	dst := imaging.Clone(base)
	for _, l := range layers {
		if l.Image == nil {
			continue
		}
		dst = imaging.Overlay(dst, l.Image, image.Pt(l.X, l.Y), 1.0)
	}
	return dst
}

// Shadow derives a soft drop shadow from the silhouette of img: the image is
// blurred with a gaussian of the given radius, its color forced to black and
// its alpha scaled by opacity.
func Shadow(img image.Image, opacity, blurRadius float64) *image.NRGBA {
	opacity = math.Min(math.Max(opacity, 0), 1)
	blurred := Blur(img, blurRadius)
	return imaging.AdjustFunc(blurred, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{A: uint8(math.Round(float64(c.A) * opacity))}
	})
}

// Blur applies a gaussian blur; radius is used as the standard deviation
func Blur(img image.Image, radius float64) *image.NRGBA {
	return imaging.Blur(img, radius)
}

// Dim multiplies the color channels by factor, leaving alpha as is
func Dim(img image.Image, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: scaleChannel(c.R, factor),
			G: scaleChannel(c.G, factor),
			B: scaleChannel(c.B, factor),
			A: c.A,
		}
	})
}

// ScaleToWidth resizes img to the given width keeping its aspect ratio
func ScaleToWidth(img image.Image, width int) *image.NRGBA {
	if width < 1 {
		width = 1
	}
	if img.Bounds().Dx() == width {
		return imaging.Clone(img)
	}
	return imaging.Clone(resize.Resize(uint(width), 0, img, resize.Lanczos3))
}

// TrimToContent crops img to the bounding box of pixels whose alpha exceeds
// threshold*255. It reports false, and returns img unchanged, when no pixel qualifies.
func TrimToContent(img *image.NRGBA, threshold float64) (*image.NRGBA, bool) {
	bbox, ok := alphaBBox(img, threshold)
	if !ok {
		return img, false
	}
	if bbox == img.Bounds() {
		return img, true
	}
	return imaging.Crop(img, bbox), true
}

// alphaBBox scans the alpha channel for the smallest rectangle holding every
// pixel above the threshold
func alphaBBox(img *image.NRGBA, threshold float64) (image.Rectangle, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	th := uint8(math.Min(math.Max(threshold, 0), 1) * 255)

	minX, minY := w, h
	maxX, maxY := -1, -1

	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			if img.Pix[row+x*4+3] <= th {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}

	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1).Add(b.Min), true
}

// Round converts a layout coordinate to the nearest integer pixel
func Round(v float64) int {
	return int(math.Round(v))
}

func scaleChannel(v uint8, factor float64) uint8 {
	return uint8(math.Min(math.Max(math.Round(float64(v)*factor), 0), 255))
}
