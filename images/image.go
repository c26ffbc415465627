// Package images - Greyscale raster definition and pixel access for the denoising pipeline.
package images

// DefaultMaxValue is the intensity ceiling used for synthesized images.
const DefaultMaxValue = 255

// Image represents a single-channel raster with integer samples stored row-major.
//
// The grid always holds exactly Width*Height samples and every sample lies in
// [0, MaxValue]. Filters swap the whole grid at once through Replace.
type Image struct {
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
	// The maximum intensity declared by the image header.
	MaxValue int `json:"max_value" yaml:"max_value"`

	pixels []int
}

// New creates a zero-filled image.
//
// Arguments:
//   - width: The number of columns. Negative values are treated as 0.
//   - height: The number of rows. Negative values are treated as 0.
//   - maxValue: The declared maximum intensity.
//
// Returns:
//   - *Image: The allocated image.
func New(width, height, maxValue int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{
		Width:    width,
		Height:   height,
		MaxValue: maxValue,
		pixels:   make([]int, width*height),
	}
}

// NewSynthetic builds the placeholder test image: a uniform background of 128
// with a 200-intensity square covering the middle half in each dimension.
//
// Arguments:
//   - width: The width of the image.
//   - height: The height of the image.
//
// Returns:
//   - *Image: The synthesized image.
//
// @example
// img := NewSynthetic(100, 100) // block spans [25, 75) on both axes
func NewSynthetic(width, height int) *Image {
	img := New(width, height, DefaultMaxValue)
	for i := range img.pixels {
		img.pixels[i] = 128
	}
	for y := height / 4; y < height*3/4; y++ {
		for x := width / 4; x < width*3/4; x++ {
			img.pixels[y*width+x] = 200
		}
	}
	return img
}

// IsValid reports whether the image has positive dimensions and a populated grid.
func (img *Image) IsValid() bool {
	return img != nil && img.Width > 0 && img.Height > 0 && len(img.pixels) > 0
}

// At returns the sample at (x, y), or 0 when the coordinate is out of bounds.
func (img *Image) At(x, y int) int {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return 0
	}
	return img.pixels[y*img.Width+x]
}

// Set writes v clamped to [0, 255] at (x, y). Out of bounds writes are ignored.
func (img *Image) Set(x, y, v int) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return
	}
	img.pixels[y*img.Width+x] = clamp(v, 0, 255)
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	out := &Image{
		Width:    img.Width,
		Height:   img.Height,
		MaxValue: img.MaxValue,
		pixels:   make([]int, len(img.pixels)),
	}
	copy(out.pixels, img.pixels)
	return out
}

// Pixels returns a copy of the row-major sample grid.
func (img *Image) Pixels() []int {
	out := make([]int, len(img.pixels))
	copy(out, img.pixels)
	return out
}

// CopyPixels copies the sample grid into dst and returns the number of samples copied.
func (img *Image) CopyPixels(dst []int) int {
	return copy(dst, img.pixels)
}

// Replace swaps in a complete grid produced by a filter pass.
//
// Arguments:
//   - grid: Row-major samples; must hold exactly Width*Height values.
//
// Returns:
//   - error: ErrGridSize if the grid does not match the image dimensions.
func (img *Image) Replace(grid []int) error {
	if len(grid) != img.Width*img.Height {
		return ErrGridSize
	}
	img.pixels = grid
	return nil
}

// Equal reports whether both images have the same metadata and samples.
func (img *Image) Equal(other *Image) bool {
	if img == nil || other == nil {
		return img == other
	}
	if img.Width != other.Width || img.Height != other.Height || img.MaxValue != other.MaxValue {
		return false
	}
	for i, v := range img.pixels {
		if other.pixels[i] != v {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
