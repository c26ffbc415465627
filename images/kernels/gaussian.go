package kernels

import "github.com/nvr-ai/go-denoise/images"

// gaussianWeights is the fixed 3x3 binomial kernel; the weights sum to gaussianNorm.
var gaussianWeights = [3][3]int{
	{1, 2, 1},
	{2, 4, 2},
	{1, 2, 1},
}

const gaussianNorm = 16.0

// Gaussian applies the fixed 3x3 weighted average to every interior pixel.
//
// The kernel does not grow with size: size only sets the untouched border
// margin of size/2 pixels. The weighted sum divided by 16 is truncated toward
// zero and clamped to [0, 255]. Even sizes and sizes below 3 are a no-op,
// since a 3x3 kernel needs a margin of at least one pixel.
//
// Arguments:
//   - img: The image to filter in place.
//   - size: The odd window size that determines the border margin.
//   - opt: Pooling and parallelism options.
func Gaussian(img *images.Image, size int, opt Options) {
	if size < 3 {
		return
	}
	filterInterior(img, size, opt, 0, func(src []int, width, x, y int, _ []int) int {
		sum := 0.0
		for ky := -1; ky <= 1; ky++ {
			row := (y + ky) * width
			for kx := -1; kx <= 1; kx++ {
				sum += float64(src[row+x+kx] * gaussianWeights[ky+1][kx+1])
			}
		}
		v := int(sum / gaussianNorm)
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return v
	})
}
