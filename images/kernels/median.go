package kernels

import (
	"slices"

	"github.com/nvr-ai/go-denoise/images"
)

// Median applies a rank-order filter over a size x size window.
//
// Every interior pixel takes the middle element of its sorted neighborhood.
// Pixels closer than size/2 to an edge are left as they are, and even or
// non-positive sizes leave the image untouched.
//
// Arguments:
//   - img: The image to filter in place.
//   - size: The odd window size (3, 5, 7, ...).
//   - opt: Pooling and parallelism options.
//
// @example
// kernels.Median(noisy, 3, kernels.Options{})
func Median(img *images.Image, size int, opt Options) {
	offset := size / 2
	filterInterior(img, size, opt, size*size, func(src []int, width, x, y int, window []int) int {
		n := 0
		for ky := -offset; ky <= offset; ky++ {
			row := (y + ky) * width
			for kx := -offset; kx <= offset; kx++ {
				window[n] = src[row+x+kx]
				n++
			}
		}
		slices.Sort(window)
		return window[len(window)/2]
	})
}
