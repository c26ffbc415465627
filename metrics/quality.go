// Package metrics - Pairwise image fidelity scores for the denoising pipeline.
//
// All scores degrade to Sentinel instead of returning an error when either
// image is invalid or the dimensions differ.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/nvr-ai/go-denoise/images"
)

const (
	// Sentinel is reported for invalid, empty or mismatched inputs.
	Sentinel = -1.0
	// PSNRSaturation is reported when MSE is too small to divide by.
	PSNRSaturation = 100.0

	peak       = 255.0
	mseEpsilon = 1e-10

	// SSIM stabilizers: (0.01*255)^2 and (0.03*255)^2.
	ssimC1 = 6.5025
	ssimC2 = 58.5225
)

// Comparison holds the three fidelity scores between two images.
type Comparison struct {
	MSE  float64 `json:"mse"`
	PSNR float64 `json:"psnr"`
	SSIM float64 `json:"ssim"`
}

// Valid reports whether the comparison was computed from comparable images.
func (c Comparison) Valid() bool {
	return c.MSE != Sentinel && c.SSIM != Sentinel
}

// Compare computes MSE, PSNR and SSIM between a reference and a candidate image.
//
// Arguments:
//   - reference: The ground-truth image.
//   - candidate: The image being scored.
//
// Returns:
//   - Comparison: Every field is Sentinel when the images are not comparable.
func Compare(reference, candidate *images.Image) Comparison {
	mse := MSE(reference, candidate)
	return Comparison{
		MSE:  mse,
		PSNR: psnrFromMSE(mse),
		SSIM: SSIM(reference, candidate),
	}
}

func comparable(a, b *images.Image) bool {
	return a.IsValid() && b.IsValid() && a.Width == b.Width && a.Height == b.Height
}

// MSE returns the mean of squared per-pixel differences, or Sentinel.
func MSE(a, b *images.Image) float64 {
	if !comparable(a, b) {
		return Sentinel
	}
	sum := 0.0
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			d := float64(a.At(x, y)) - float64(b.At(x, y))
			sum += d * d
		}
	}
	return sum / float64(a.Width*a.Height)
}

// PSNR returns 10*log10(255^2/MSE) in decibels.
//
// Identical images saturate at PSNRSaturation; incomparable inputs return Sentinel.
func PSNR(a, b *images.Image) float64 {
	return psnrFromMSE(MSE(a, b))
}

func psnrFromMSE(mse float64) float64 {
	if mse < 0 {
		return Sentinel
	}
	if mse < mseEpsilon {
		return PSNRSaturation
	}
	return 10.0 * math.Log10(peak*peak/mse)
}

// SSIM returns a global (non-windowed) structural similarity approximation.
//
// Means, sample variances and the sample covariance are taken over the whole
// image. A zero denominator yields 1.
func SSIM(a, b *images.Image) float64 {
	if !comparable(a, b) {
		return Sentinel
	}
	x := samples(a)
	y := samples(b)

	mu1 := stat.Mean(x, nil)
	mu2 := stat.Mean(y, nil)

	var sigma1, sigma2, sigma12 float64
	if len(x) > 1 {
		sigma1 = stat.Variance(x, nil)
		sigma2 = stat.Variance(y, nil)
		sigma12 = stat.Covariance(x, y, nil)
	}

	num := (2*mu1*mu2 + ssimC1) * (2*sigma12 + ssimC2)
	den := (mu1*mu1 + mu2*mu2 + ssimC1) * (sigma1 + sigma2 + ssimC2)
	if den == 0 {
		return 1.0
	}
	return num / den
}

func samples(img *images.Image) []float64 {
	px := img.Pixels()
	out := make([]float64, len(px))
	for i, v := range px {
		out[i] = float64(v)
	}
	return out
}
