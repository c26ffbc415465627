package images

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticLayout(t *testing.T) {
	img := NewSynthetic(100, 100)
	require.True(t, img.IsValid())
	assert.Equal(t, DefaultMaxValue, img.MaxValue)

	assert.Equal(t, 128, img.At(0, 0))
	assert.Equal(t, 128, img.At(24, 24))
	assert.Equal(t, 200, img.At(25, 25))
	assert.Equal(t, 200, img.At(74, 74))
	assert.Equal(t, 128, img.At(75, 75))
	assert.Equal(t, 128, img.At(99, 50))

	blocks := 0
	for _, v := range img.Pixels() {
		if v == 200 {
			blocks++
		}
	}
	assert.Equal(t, 50*50, blocks)
}

func TestPixelAccessOutOfBounds(t *testing.T) {
	img := NewSynthetic(10, 10)
	before := img.Clone()

	assert.Equal(t, 0, img.At(-1, 0))
	assert.Equal(t, 0, img.At(0, 10))
	assert.Equal(t, 0, img.At(10, 0))

	img.Set(-1, 3, 50)
	img.Set(3, 10, 50)
	assert.True(t, before.Equal(img), "out of bounds writes must be ignored")
}

func TestSetClamps(t *testing.T) {
	img := New(2, 1, 255)
	img.Set(0, 0, 999)
	img.Set(1, 0, -20)
	assert.Equal(t, 255, img.At(0, 0))
	assert.Equal(t, 0, img.At(1, 0))
}

func TestIsValid(t *testing.T) {
	assert.False(t, New(0, 5, 255).IsValid())
	assert.False(t, New(5, 0, 255).IsValid())
	assert.False(t, New(-3, 2, 255).IsValid())
	assert.True(t, New(1, 1, 255).IsValid())

	var nilImage *Image
	assert.False(t, nilImage.IsValid())
}

func TestCloneIsIndependent(t *testing.T) {
	img := NewSynthetic(8, 8)
	clone := img.Clone()
	clone.Set(4, 4, 0)
	assert.Equal(t, 200, img.At(4, 4))
	assert.Equal(t, 0, clone.At(4, 4))
}

func TestReplace(t *testing.T) {
	img := New(2, 2, 255)
	require.NoError(t, img.Replace([]int{1, 2, 3, 4}))
	assert.Equal(t, 3, img.At(0, 1))
	assert.ErrorIs(t, img.Replace([]int{1, 2, 3}), ErrGridSize)
	assert.Equal(t, 4, img.At(1, 1), "failed replace must leave the grid untouched")
}

func TestAddNoiseZeroLevelIsNoop(t *testing.T) {
	img := NewSynthetic(100, 100)
	before := Checksum(img)
	AddNoise(img, 0.0, rand.New(rand.NewSource(7)))
	assert.Equal(t, before, Checksum(img))
}

func TestAddNoiseFullLevelIsSaltAndPepper(t *testing.T) {
	img := NewSynthetic(50, 50)
	AddNoise(img, 1.0, NewNoiseSource(3))

	var salt, pepper int
	for _, v := range img.Pixels() {
		switch v {
		case 0:
			pepper++
		case img.MaxValue:
			salt++
		default:
			t.Fatalf("unexpected intensity %d after full corruption", v)
		}
	}
	assert.Equal(t, 50*50, salt+pepper)
	assert.Greater(t, salt, 0)
	assert.Greater(t, pepper, 0)
}

func TestAddNoiseDeterministicWithSeed(t *testing.T) {
	a := NewSynthetic(40, 40)
	b := NewSynthetic(40, 40)
	AddNoise(a, 0.1, NewNoiseSource(99))
	AddNoise(b, 0.1, NewNoiseSource(99))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewSynthetic(40, 40)), "10% noise on 1600 pixels should corrupt something")
}

type sequenceSource struct {
	values []float64
	i      int
}

func (s *sequenceSource) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func TestAddNoiseDrawOrder(t *testing.T) {
	img := New(3, 1, 255)
	for x := 0; x < 3; x++ {
		img.Set(x, 0, 100)
	}
	// pixel 0: hit, pepper. pixel 1: miss. pixel 2: hit, salt.
	src := &sequenceSource{values: []float64{0.01, 0.2, 0.9, 0.02, 0.7}}
	AddNoise(img, 0.5, src)
	assert.Equal(t, []int{0, 100, 255}, img.Pixels())
}
