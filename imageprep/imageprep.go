// Package imageprep normalizes images before OCR. Steps run in a fixed
// order: color normalize, grayscale, contrast, threshold, denoise.
// Failures are pass-through degradations, never fatal: OCR on the raw
// image beats no OCR at all.
package imageprep

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// Params controls the preprocessing steps. A nil *Params at the
// pipeline boundary means "no preprocessing"; a nil pointer passed to
// Preprocess itself means "defaults", matching the two distinct
// absent-value meanings of the original contract.
type Params struct {
	Enhance        bool    `json:"enhance" yaml:"enhance"`
	Grayscale      bool    `json:"grayscale" yaml:"grayscale"`
	Contrast       float64 `json:"contrast" yaml:"contrast"`             // multiplicative, 1.0 = unchanged
	Threshold      int     `json:"threshold" yaml:"threshold"`           // 0 disables; 1-255 binarizes (grayscale only)
	NoiseReduction bool    `json:"noise_reduction" yaml:"noise_reduction"`
}

// DefaultParams returns the tuning that works for typical scanned text.
func DefaultParams() Params {
	return Params{
		Enhance:        true,
		Grayscale:      true,
		Contrast:       1.5,
		Threshold:      130,
		NoiseReduction: true,
	}
}

// Preprocess decodes the image at path and applies the configured
// steps. A decode failure is logged and reported with a nil image so
// the caller can fall back to the unprocessed file.
func Preprocess(path string, params *Params, lg *joblog.Log) image.Image {
	src, err := imaging.Open(path)
	if err != nil {
		lg.Warnf("Could not open image for preprocessing (%v), using original", err)
		return nil
	}
	return Apply(src, params)
}

// Apply runs the preprocessing steps on an already-decoded image.
func Apply(src image.Image, params *Params) image.Image {
	p := DefaultParams()
	if params != nil {
		p = *params
	}

	if !p.Enhance {
		return src
	}

	// Canonical color mode first so later steps see predictable pixels.
	img := imaging.Clone(src)

	if p.Grayscale {
		img = imaging.Grayscale(img)
	}

	if p.Contrast != 1.0 {
		// imaging expresses contrast as a -100..100 percentage.
		pct := (p.Contrast - 1.0) * 100
		if pct > 100 {
			pct = 100
		} else if pct < -100 {
			pct = -100
		}
		img = imaging.AdjustContrast(img, pct)
	}

	// Binarization is only meaningful on a desaturated image. The
	// cutoff clamps to the 8-bit range rather than wrapping.
	if p.Grayscale && p.Threshold > 0 {
		cutoff := p.Threshold
		if cutoff > 255 {
			cutoff = 255
		}
		img = binarize(img, uint8(cutoff))
	}

	if p.NoiseReduction {
		img = median3x3(img)
	}

	return img
}

// binarize maps every pixel above the cutoff to white and the rest to
// black. The input is grayscale, so reading one channel is enough.
func binarize(img *image.NRGBA, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := img.NRGBAAt(x, y).R
			var bw uint8
			if v > threshold {
				bw = 255
			}
			out.SetNRGBA(x, y, color.NRGBA{R: bw, G: bw, B: bw, A: 255})
		}
	}
	return out
}

// median3x3 applies a 3x3 median filter per channel. Border pixels use
// the available neighbors only.
func median3x3(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	var rs, gs, bs [9]uint8
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < b.Min.X || nx >= b.Max.X || ny < b.Min.Y || ny >= b.Max.Y {
						continue
					}
					c := img.NRGBAAt(nx, ny)
					rs[n], gs[n], bs[n] = c.R, c.G, c.B
					n++
				}
			}
			out.SetNRGBA(x, y, color.NRGBA{
				R: medianOf(rs[:n]),
				G: medianOf(gs[:n]),
				B: medianOf(bs[:n]),
				A: img.NRGBAAt(x, y).A,
			})
		}
	}
	return out
}

func medianOf(vals []uint8) uint8 {
	sorted := append([]uint8(nil), vals...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)/2]
}

// SaveTemp materializes an image as a temporary PNG for backends that
// only accept file paths. The returned cleanup removes the artifact and
// must be called once the consumer is done with it.
func SaveTemp(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "textextract-prep-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp image: %w", err)
	}
	path := f.Name()
	f.Close()

	if err := imaging.Save(img, path); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("saving temp image: %w", err)
	}
	return path, func() { os.Remove(path) }, nil
}
