package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solid creates an opaque single-color image
func solid(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func TestAllocate(t *testing.T) {
	t.Parallel()

	for _, size := range [][2]int{{1, 1}, {160, 140}, {1201, 799}} {
		c := Allocate(size[0], size[1])
		assert.Equal(t, size[0], c.Bounds().Dx())
		assert.Equal(t, size[1], c.Bounds().Dy())
		for i := 3; i < len(c.Pix); i += 4 {
			if c.Pix[i] != 0 {
				t.Fatalf("pixel %d not transparent", i/4)
			}
		}
	}
}

func TestShadowScalesOpaqueAlpha(t *testing.T) {
	t.Parallel()

	subject := solid(50, 40, color.NRGBA{R: 200, G: 120, B: 10, A: 255})
	shadow := Shadow(subject, DefaultShadowOpacity, DefaultShadowBlur)

	require.Equal(t, subject.Bounds().Size(), shadow.Bounds().Size())
	for i := 0; i < len(shadow.Pix); i += 4 {
		assert.Equal(t, []uint8{0, 0, 0, 38}, shadow.Pix[i:i+4])
	}
}

func TestShadowKeepsSilhouette(t *testing.T) {
	t.Parallel()

	subject := Allocate(60, 60)
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			subject.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	shadow := Shadow(subject, 0.5, 3)
	center := shadow.NRGBAAt(30, 30)
	corner := shadow.NRGBAAt(0, 0)

	assert.Equal(t, uint8(0), center.R)
	assert.Greater(t, center.A, corner.A)
	assert.LessOrEqual(t, center.A, uint8(128))
}

func TestCompositeOrder(t *testing.T) {
	t.Parallel()

	base := Allocate(4, 2)
	red := solid(2, 2, color.NRGBA{R: 255, A: 255})
	blue := solid(2, 2, color.NRGBA{B: 255, A: 255})

	out := Composite(base, Layer{Image: red, X: 0}, Layer{Image: blue, X: 1})

	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, out.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, out.NRGBAAt(2, 1))
	assert.Equal(t, uint8(0), out.NRGBAAt(3, 0).A)

	// base is not modified
	assert.Equal(t, uint8(0), base.NRGBAAt(0, 0).A)
}

func TestCompositeClipsOverflow(t *testing.T) {
	t.Parallel()

	base := Allocate(3, 3)
	layer := solid(5, 5, color.NRGBA{G: 255, A: 255})

	out := Composite(base, Layer{Image: layer, X: 1, Y: 1})
	assert.Equal(t, image.Rect(0, 0, 3, 3), out.Bounds())
	assert.Equal(t, uint8(0), out.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(255), out.NRGBAAt(2, 2).A)
}

func TestCompositeBlendsTranslucentLayer(t *testing.T) {
	t.Parallel()

	base := solid(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	shade := solid(1, 1, color.NRGBA{A: 128})

	out := Composite(base, Layer{Image: shade})
	px := out.NRGBAAt(0, 0)
	assert.Equal(t, uint8(255), px.A)
	assert.InDelta(t, 127, int(px.R), 2)
}

func TestDim(t *testing.T) {
	t.Parallel()

	img := solid(2, 2, color.NRGBA{R: 200, G: 100, B: 3, A: 77})
	out := Dim(img, 0.5)
	assert.Equal(t, color.NRGBA{R: 100, G: 50, B: 2, A: 77}, out.NRGBAAt(1, 1))
}

func TestScaleToWidth(t *testing.T) {
	t.Parallel()

	img := solid(100, 50, color.NRGBA{R: 10, A: 255})
	out := ScaleToWidth(img, 92)
	assert.Equal(t, 92, out.Bounds().Dx())
	assert.Equal(t, 46, out.Bounds().Dy())

	same := ScaleToWidth(img, 100)
	assert.Equal(t, img.Bounds(), same.Bounds())
}

func TestTrimToContent(t *testing.T) {
	t.Parallel()

	img := Allocate(30, 20)
	for y := 5; y < 10; y++ {
		for x := 8; x < 20; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 1, A: 255})
		}
	}

	trimmed, ok := TrimToContent(img, 0.1)
	require.True(t, ok)
	assert.Equal(t, 12, trimmed.Bounds().Dx())
	assert.Equal(t, 5, trimmed.Bounds().Dy())

	_, ok = TrimToContent(Allocate(4, 4), 0.1)
	assert.False(t, ok)
}

func TestRound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 160, Round(1.6*100))
	assert.Equal(t, 140, Round(1.4*100))
	assert.Equal(t, 3, Round(2.5))
	assert.Equal(t, 2, Round(2.49))
}
