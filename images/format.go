package images

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ImageFormat represents supported raster formats.
type ImageFormat string

const (
	// FormatPGM is the plain-text greyscale raster format (tag P2).
	FormatPGM ImageFormat = "P2"
)

// Extension is the file extension recognized for FormatPGM inputs and outputs.
const Extension = ".pgm"

// MaxSamples bounds width*height accepted by Decode (a 16384x16384 raster).
const MaxSamples = 1 << 28

var (
	// ErrUnsupportedFormat is returned when the header tag is not P2.
	ErrUnsupportedFormat = errors.New("unsupported raster format")
	// ErrInvalidHeader is returned when width, height or max value cannot be parsed.
	ErrInvalidHeader = errors.New("invalid raster header")
	// ErrTruncated is returned when fewer than width*height samples are present.
	ErrTruncated = errors.New("raster data truncated")
	// ErrGridSize is returned when a replacement grid does not match the image dimensions.
	ErrGridSize = errors.New("grid size does not match image dimensions")
)

// Load reads a P2 raster from disk.
//
// Arguments:
//   - path: The file to read.
//
// Returns:
//   - *Image: The decoded image.
//   - error: If the file cannot be opened or is not a well-formed P2 raster.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open file")
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return img, nil
}

// Decode parses a P2 raster. Tokens are whitespace-delimited; line breaks carry
// no meaning. Samples are clamped to [0, min(MaxValue, 255)].
//
// Arguments:
//   - r: The reader holding the raster text.
//
// Returns:
//   - *Image: The decoded image.
//   - error: ErrUnsupportedFormat, ErrInvalidHeader or ErrTruncated, wrapped with context.
func Decode(r io.Reader) (*Image, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "read header")
		}
		return nil, errors.Wrap(ErrUnsupportedFormat, "empty input")
	}
	if tag := sc.Text(); tag != string(FormatPGM) {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "tag %q", tag)
	}

	var header [3]int
	for i, name := range []string{"width", "height", "max value"} {
		if !sc.Scan() {
			return nil, errors.Wrapf(ErrInvalidHeader, "missing %s", name)
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidHeader, "%s %q", name, sc.Text())
		}
		header[i] = v
	}
	width, height, maxValue := header[0], header[1], header[2]
	if width < 0 || height < 0 || maxValue < 1 {
		return nil, errors.Wrapf(ErrInvalidHeader, "%dx%d max %d", width, height, maxValue)
	}
	if width > 0 && height > MaxSamples/width {
		return nil, errors.Wrapf(ErrInvalidHeader, "%dx%d exceeds %d samples", width, height, MaxSamples)
	}
	total := width * height

	ceiling := maxValue
	if ceiling > 255 {
		ceiling = 255
	}

	// The grid grows with the data so a lying header cannot force a large
	// allocation before any sample is read.
	pixels := make([]int, 0, min(total, 1<<16))
	for i := 0; i < total; i++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, errors.Wrap(err, "read samples")
			}
			return nil, errors.Wrapf(ErrTruncated, "got %d of %d samples", i, total)
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, errors.Wrapf(ErrTruncated, "sample %d: %q is not an integer", i, sc.Text())
		}
		pixels = append(pixels, clamp(v, 0, ceiling))
	}

	return &Image{Width: width, Height: height, MaxValue: maxValue, pixels: pixels}, nil
}

// Save writes the image to disk in P2 layout, replacing any existing file.
func (img *Image) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cannot create file")
	}
	if err := img.Encode(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return errors.Wrap(f.Close(), "close file")
}

// Encode writes "P2", "<width> <height>", "<max>" and then one line per row
// with samples separated by a single space.
func (img *Image) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(string(FormatPGM))
	bw.WriteByte('\n')
	bw.WriteString(strconv.Itoa(img.Width))
	bw.WriteByte(' ')
	bw.WriteString(strconv.Itoa(img.Height))
	bw.WriteByte('\n')
	bw.WriteString(strconv.Itoa(img.MaxValue))
	bw.WriteByte('\n')

	var row strings.Builder
	for y := 0; y < img.Height; y++ {
		row.Reset()
		for x := 0; x < img.Width; x++ {
			if x > 0 {
				row.WriteByte(' ')
			}
			row.WriteString(strconv.Itoa(img.pixels[y*img.Width+x]))
		}
		row.WriteByte('\n')
		bw.WriteString(row.String())
	}
	return errors.Wrap(bw.Flush(), "flush")
}
