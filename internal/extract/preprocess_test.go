package extract

import (
	"image"
	"image/color"
	"testing"
)

// halfToneImage is black on the left half, white on the right.
func halfToneImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if x >= w/2 {
				v = 255
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestOtsuThresholdSeparatesBimodalImage(t *testing.T) {
	// A pure black/white image has a flat variance plateau over [0, 254];
	// the cut must land in its middle, not on the first tied value.
	th := otsuThreshold(halfToneImage(100, 40))
	if th != 127 {
		t.Fatalf("threshold = %d, want the plateau midpoint 127", th)
	}
}

func TestOtsuThresholdUniformImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
	if th := otsuThreshold(img); th != 128 {
		t.Fatalf("threshold = %d, want 128 for a single-tone image", th)
	}
}

func TestOtsuThresholdEmptyImage(t *testing.T) {
	if th := otsuThreshold(image.NewNRGBA(image.Rect(0, 0, 0, 0))); th != 128 {
		t.Fatalf("threshold = %d, want 128 fallback", th)
	}
}

func TestBinarizeProducesOnlyBlackAndWhite(t *testing.T) {
	out := binarize(halfToneImage(50, 20), 128)
	for y := 0; y < 20; y++ {
		for x := 0; x < 50; x++ {
			r := out.NRGBAAt(x, y).R
			if r != 0 && r != 255 {
				t.Fatalf("pixel (%d,%d) = %d, want 0 or 255", x, y, r)
			}
		}
	}
}

func TestPreprocessForOCRKeepsBounds(t *testing.T) {
	src := halfToneImage(64, 64)
	out := PreprocessForOCR(src)
	if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 64 {
		t.Fatalf("bounds changed: %v", out.Bounds())
	}
}
