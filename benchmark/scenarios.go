package benchmark

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-denoise/images/kernels"
)

// Scenario is one point of the parameter sweep.
type Scenario struct {
	NoiseLevel float64      `json:"noise_level" yaml:"noise_level"`
	WindowSize int          `json:"window_size" yaml:"window_size"`
	Kind       kernels.Kind `json:"kind"        yaml:"kind"`
}

// Parameters renders the scenario as it appears in the results table,
// e.g. "size=3,noise=0.010000".
func (s Scenario) Parameters() string {
	return fmt.Sprintf("size=%d,noise=%f", s.WindowSize, s.NoiseLevel)
}

// Sweep is the full parameter grid applied to every input image.
type Sweep struct {
	NoiseLevels []float64      `json:"noise_levels" yaml:"noise_levels"`
	WindowSizes []int          `json:"window_sizes" yaml:"window_sizes"`
	Kinds       []kernels.Kind `json:"kinds"        yaml:"kinds"`
}

// DefaultSweep returns the fixed grid: three noise levels, three window sizes
// and both filter kinds, 18 scenarios per image.
func DefaultSweep() Sweep {
	return NewSweepBuilder().
		WithNoiseLevels(0.01, 0.05, 0.1).
		WithWindowSizes(3, 5, 7).
		WithKinds(kernels.Kinds()...).
		Build()
}

// Scenarios expands the grid in generation order: noise level, then window
// size, then filter kind.
func (s Sweep) Scenarios() []Scenario {
	out := make([]Scenario, 0, s.Len())
	for _, noise := range s.NoiseLevels {
		for _, size := range s.WindowSizes {
			for _, kind := range s.Kinds {
				out = append(out, Scenario{NoiseLevel: noise, WindowSize: size, Kind: kind})
			}
		}
	}
	return out
}

// Len returns the number of records the sweep produces per image.
func (s Sweep) Len() int {
	return len(s.NoiseLevels) * len(s.WindowSizes) * len(s.Kinds)
}

// Validate checks that every axis is populated and in range.
func (s Sweep) Validate() error {
	if s.Len() == 0 {
		return errors.New("sweep must have at least one noise level, window size and filter kind")
	}
	for _, noise := range s.NoiseLevels {
		if noise < 0 || noise > 1 {
			return errors.Errorf("noise level %v outside [0, 1]", noise)
		}
	}
	for _, size := range s.WindowSizes {
		if size <= 0 {
			return errors.Errorf("window size %d must be positive", size)
		}
	}
	for _, kind := range s.Kinds {
		if _, err := kernels.ParseKind(string(kind)); err != nil {
			return err
		}
	}
	return nil
}

// normalize rewrites filter names to their canonical spelling so
// "median" in a config file selects KindMedian.
func (s *Sweep) normalize() error {
	for i, kind := range s.Kinds {
		canonical, err := kernels.ParseKind(string(kind))
		if err != nil {
			return err
		}
		s.Kinds[i] = canonical
	}
	return nil
}

// SweepBuilder helps build sweeps with a fluent API.
type SweepBuilder struct {
	sweep Sweep
}

// NewSweepBuilder creates an empty sweep builder.
func NewSweepBuilder() *SweepBuilder {
	return &SweepBuilder{}
}

// WithNoiseLevels sets the salt-and-pepper probabilities.
func (sb *SweepBuilder) WithNoiseLevels(levels ...float64) *SweepBuilder {
	sb.sweep.NoiseLevels = append([]float64(nil), levels...)
	return sb
}

// WithWindowSizes sets the filter window sizes.
func (sb *SweepBuilder) WithWindowSizes(sizes ...int) *SweepBuilder {
	sb.sweep.WindowSizes = append([]int(nil), sizes...)
	return sb
}

// WithKinds sets the filters applied to each noisy copy, in order.
func (sb *SweepBuilder) WithKinds(kinds ...kernels.Kind) *SweepBuilder {
	sb.sweep.Kinds = append([]kernels.Kind(nil), kinds...)
	return sb
}

// Build returns the configured sweep.
func (sb *SweepBuilder) Build() Sweep {
	return sb.sweep
}

// SaveSweep saves a sweep to a YAML file.
func SaveSweep(sweep Sweep, filename string) error {
	data, err := yaml.Marshal(sweep)
	if err != nil {
		return errors.Wrap(err, "failed to marshal sweep")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write sweep file")
	}

	return nil
}

// LoadSweep loads a sweep from a YAML (or JSON) file.
func LoadSweep(filename string) (Sweep, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Sweep{}, errors.Wrap(err, "failed to read sweep file")
	}

	var sweep Sweep
	if err := yaml.Unmarshal(data, &sweep); err != nil {
		return Sweep{}, errors.Wrap(err, "failed to unmarshal sweep")
	}

	if err := sweep.normalize(); err != nil {
		return Sweep{}, err
	}
	return sweep, sweep.Validate()
}
