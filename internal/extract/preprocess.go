package extract

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// PreprocessForOCR prepares a rasterized page for recognition: grayscale,
// light blur to knock out scan noise, contrast and sharpening, then a binary
// threshold picked automatically from the histogram.
func PreprocessForOCR(src image.Image) image.Image {
	img := imaging.Grayscale(src)
	img = imaging.Blur(img, 0.8)
	img = imaging.AdjustContrast(img, 20)
	img = imaging.Sharpen(img, 1.0)
	return binarize(img, otsuThreshold(img))
}

// otsuThreshold picks the grayscale cut that maximizes between-class variance.
func otsuThreshold(img *image.NRGBA) uint8 {
	var hist [256]int
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 128
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[img.NRGBAAt(x, y).R]++
		}
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	// Bimodal pages produce a flat plateau of maximal variance; the midpoint
	// of that plateau keeps near-black antialiased pixels on the dark side.
	var sumBack, weightBack float64
	maxVariance := -1.0
	plateauLo, plateauHi := 128, 128
	for i := 0; i < 256; i++ {
		weightBack += float64(hist[i])
		if weightBack == 0 {
			continue
		}
		weightFore := float64(total) - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(i) * float64(hist[i])

		meanBack := sumBack / weightBack
		meanFore := (sum - sumBack) / weightFore
		variance := weightBack * weightFore * (meanBack - meanFore) * (meanBack - meanFore)
		switch {
		case variance > maxVariance:
			maxVariance = variance
			plateauLo, plateauHi = i, i
		case variance == maxVariance:
			plateauHi = i
		}
	}
	return uint8((plateauLo + plateauHi) / 2)
}

func binarize(img *image.NRGBA, threshold uint8) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBA{A: 255}
			if img.NRGBAAt(x, y).R > threshold {
				c.R, c.G, c.B = 255, 255, 255
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}
