package kernels

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-denoise/images"
)

// Kind identifies a smoothing operator in the filter bank.
type Kind string

const (
	// KindMedian is the rank-order filter.
	KindMedian Kind = "Median"
	// KindGaussian is the fixed-weight 3x3 smoothing filter.
	KindGaussian Kind = "Gaussian"
)

// ErrUnknownKind is returned by ParseKind and Apply for an unrecognized filter name.
var ErrUnknownKind = errors.New("unknown filter kind")

// String returns the name written to the results table.
func (k Kind) String() string {
	return string(k)
}

// ParseKind resolves a filter name case-insensitively.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "median":
		return KindMedian, nil
	case "gaussian":
		return KindGaussian, nil
	default:
		return "", errors.Wrapf(ErrUnknownKind, "%q", name)
	}
}

// Kinds returns every filter in the bank, in the order the batch driver applies them.
func Kinds() []Kind {
	return []Kind{KindMedian, KindGaussian}
}

// Options configures a filter call. Neither field changes the output.
type Options struct {
	Pool     *Pool // Optional buffer pool for the source snapshot.
	Parallel bool  // Enable row parallelism (useful for large rasters).
}

// Pool lets callers reuse grid buffers across many filter passes.
type Pool struct {
	grids sync.Pool // *[]int
}

// Get returns a buffer of exactly n samples. Contents are unspecified.
func (p *Pool) Get(n int) []int {
	if p == nil {
		return make([]int, n)
	}
	if v := p.grids.Get(); v != nil {
		buf := *(v.(*[]int))
		if cap(buf) >= n {
			return buf[:n]
		}
	}
	return make([]int, n)
}

// Put hands a buffer back for reuse. The caller must not touch it afterwards.
func (p *Pool) Put(buf []int) {
	if p == nil || buf == nil {
		return
	}
	p.grids.Put(&buf)
}

// Apply runs the filter of the given kind over img in place.
//
// Arguments:
//   - img: The image to filter.
//   - kind: The filter to apply.
//   - size: The odd window size; even or non-positive sizes leave img untouched.
//   - opt: Pooling and parallelism options.
//
// Returns:
//   - error: ErrUnknownKind for an unrecognized kind.
func Apply(img *images.Image, kind Kind, size int, opt Options) error {
	switch kind {
	case KindMedian:
		Median(img, size, opt)
	case KindGaussian:
		Gaussian(img, size, opt)
	default:
		return errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	return nil
}

// windowFunc computes the filtered value of the interior pixel (x, y) from src.
type windowFunc func(src []int, width, x, y int, scratch []int) int

// filterInterior evaluates fn on every pixel at least size/2 away from each
// edge and swaps the result into img in one step. Border pixels are copied
// through unchanged.
func filterInterior(img *images.Image, size int, opt Options, scratchLen int, fn windowFunc) {
	if size <= 0 || size%2 == 0 || !img.IsValid() {
		return
	}
	offset := size / 2
	w, h := img.Width, img.Height

	src := opt.Pool.Get(w * h)
	img.CopyPixels(src)
	dst := make([]int, len(src))
	copy(dst, src)

	rowTask := func(y int, scratch []int) {
		row := y * w
		for x := offset; x < w-offset; x++ {
			dst[row+x] = fn(src, w, x, y, scratch)
		}
	}

	first, last := offset, h-offset
	if !opt.Parallel || last-first < 4 {
		scratch := make([]int, scratchLen)
		for y := first; y < last; y++ {
			rowTask(y, scratch)
		}
	} else {
		chunk := chooseChunk(last - first)
		var wg sync.WaitGroup
		for start := first; start < last; start += chunk {
			end := start + chunk
			if end > last {
				end = last
			}
			wg.Add(1)
			go func(s, e int) {
				defer wg.Done()
				scratch := make([]int, scratchLen)
				for y := s; y < e; y++ {
					rowTask(y, scratch)
				}
			}(start, end)
		}
		wg.Wait()
	}

	// dst has exactly Width*Height samples, Replace cannot fail here.
	_ = img.Replace(dst)
	opt.Pool.Put(src)
}

// chooseChunk picks a row chunk size that balances goroutine overhead and cache locality.
func chooseChunk(n int) int {
	switch {
	case n >= 2048:
		return 128
	case n >= 512:
		return 64
	default:
		return 32
	}
}
