package images

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		want    []int
	}{
		{
			name:  "Row per line",
			input: "P2\n3 2\n255\n1 2 3\n4 5 6\n",
			want:  []int{1, 2, 3, 4, 5, 6},
		},
		{
			name:  "Line breaks are cosmetic",
			input: "P2 3 2 255 1 2\n3 4\n\n5 6",
			want:  []int{1, 2, 3, 4, 5, 6},
		},
		{
			name:  "Samples clamped to 255",
			input: "P2\n2 1\n255\n300 -4\n",
			want:  []int{255, 0},
		},
		{
			name:  "Samples clamped to declared max",
			input: "P2\n2 1\n15\n20 7\n",
			want:  []int{15, 7},
		},
		{
			name:  "Declared max above 255 still clamps to 255",
			input: "P2\n2 1\n1023\n1000 7\n",
			want:  []int{255, 7},
		},
		{
			name:    "Binary tag",
			input:   "P5\n2 1\n255\n",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "Empty input",
			input:   "",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "Missing max value",
			input:   "P2\n2 1\n",
			wantErr: ErrInvalidHeader,
		},
		{
			name:    "Non-numeric width",
			input:   "P2\nx 1\n255\n",
			wantErr: ErrInvalidHeader,
		},
		{
			name:    "Dimensions overflow int",
			input:   "P2\n3037000500 3037000500\n255\n1 2 3\n",
			wantErr: ErrInvalidHeader,
		},
		{
			name:    "Dimensions wrap to zero",
			input:   "P2\n4294967296 4294967296\n255\n",
			wantErr: ErrInvalidHeader,
		},
		{
			name:    "Dimensions above sample limit",
			input:   "P2\n100000 100000\n255\n1 2 3\n",
			wantErr: ErrInvalidHeader,
		},
		{
			name:    "Large header with few samples is truncated",
			input:   "P2\n10000 10000\n255\n1 2 3\n",
			wantErr: ErrTruncated,
		},
		{
			name:  "Zero width",
			input: "P2\n0 5\n255\n",
			want:  []int{},
		},
		{
			name:    "Too few samples",
			input:   "P2\n2 2\n255\n1 2 3\n",
			wantErr: ErrTruncated,
		},
		{
			name:    "Non-numeric sample",
			input:   "P2\n2 1\n255\n1 a\n",
			wantErr: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				assert.Nil(t, img)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, img.Pixels()); diff != "" {
				t.Fatalf("pixels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	img := New(3, 2, 255)
	img.Set(0, 0, 1)
	img.Set(1, 0, 22)
	img.Set(2, 0, 255)
	img.Set(0, 1, 0)
	img.Set(1, 1, 7)
	img.Set(2, 1, 128)

	var buf bytes.Buffer
	require.NoError(t, img.Encode(&buf))
	assert.Equal(t, "P2\n3 2\n255\n1 22 255\n0 7 128\n", buf.String())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "synthetic.pgm")

	original := NewSynthetic(37, 21)
	original.Set(3, 4, 0)
	original.Set(36, 20, 255)
	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.Width, loaded.Width)
	assert.Equal(t, original.Height, loaded.Height)
	assert.Equal(t, original.MaxValue, loaded.MaxValue)
	assert.True(t, original.Equal(loaded), "round trip must reproduce every pixel")
	assert.Equal(t, Checksum(original), Checksum(loaded))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.pgm"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestSaveUnwritablePath(t *testing.T) {
	img := NewSynthetic(4, 4)
	err := img.Save(filepath.Join(t.TempDir(), "no-such-dir", "out.pgm"))
	require.Error(t, err)
}
